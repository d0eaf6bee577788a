package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/themizzi/storecheck/internal/models"
	"github.com/themizzi/storecheck/internal/pricing"
	"go.uber.org/zap"
)

// Cookie names, matching the real store where it has one
const (
	CountryCookie   = "steamCountry"
	CookieSettings  = "cookieSettings"
	BirthTimeCookie = "birthtime"
	CartCookie      = "cart_id"
)

// DefaultCountry prices pages when the visitor never picked a country
const DefaultCountry = "us"

const (
	layoutTemplate   = "layout.html"
	adultRequiredAge = 18
	cookieMaxAge     = 365 * 24 * 3600
)

// ProductCatalog is the read side of the fixture product records
type ProductCatalog interface {
	Get(appID int64) (*models.RawProduct, error)
	All() []models.RawProduct
	Search(term string) []models.RawProduct
}

// Page carries the parts of the layout every page renders
type Page struct {
	Title           string
	Country         string
	ShowCookiePopup bool
	Return          string
}

func newPage(w http.ResponseWriter, r *http.Request, title string) Page {
	_, err := r.Cookie(CookieSettings)
	return Page{
		Title:           title,
		Country:         countryOf(w, r),
		ShowCookiePopup: errors.Is(err, http.ErrNoCookie),
		Return:          r.URL.RequestURI(),
	}
}

// countryOf returns the visitor country. A cc query parameter overrides the
// remembered one and is remembered in turn.
func countryOf(w http.ResponseWriter, r *http.Request) string {
	if cc := strings.ToLower(r.URL.Query().Get("cc")); len(cc) == 2 {
		http.SetCookie(w, &http.Cookie{
			Name:   CountryCookie,
			Value:  cc,
			Path:   "/",
			MaxAge: cookieMaxAge,
		})
		return cc
	}
	if c, err := r.Cookie(CountryCookie); err == nil && len(c.Value) == 2 {
		return strings.ToLower(c.Value)
	}
	return DefaultCountry
}

// parsePage parses a page template together with the shared layout
func parsePage(templateDir, name string) (*template.Template, error) {
	return template.New(name).ParseFiles(
		filepath.Join(templateDir, layoutTemplate),
		filepath.Join(templateDir, name),
	)
}

// render executes tmpl into a buffer so a failing template does not leave a
// half written page
func render(w http.ResponseWriter, tmpl *template.Template, data any, logger *zap.Logger) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger.Error("failed to render template", zap.String("template", tmpl.Name()), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Slug renders a product name the way store URLs spell it:
// "ARK: Survival Evolved" becomes "ARK_Survival_Evolved"
func Slug(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AppPath is the canonical product page path
func AppPath(appID int64, name string) string {
	return "/app/" + strconv.FormatInt(appID, 10) + "/" + Slug(name) + "/"
}

// localize prices product for country cc
func localize(product models.RawProduct, cc string) models.RawProduct {
	product.PriceOverview = pricing.Localize(product.PriceOverview, pricing.CurrencyFor(cc))
	return product
}

func parseAppID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

// safeReturn keeps redirects on this site
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}
