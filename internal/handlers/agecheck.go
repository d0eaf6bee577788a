package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/themizzi/storecheck/internal/models"
	"go.uber.org/zap"
)

// Oldest year offered by the birthday selector
const firstBirthYear = 1900

// AgeCheckHandler handles the age gate in front of mature products
type AgeCheckHandler struct {
	template *template.Template
	products ProductCatalog
	logger   *zap.Logger
	now      func() time.Time
}

// AgeCheckData represents the data for the age gate template
type AgeCheckData struct {
	Page
	ID     int64
	Name   string
	Days   []int
	Months []string
	Years  []int
	Denied bool
}

// NewAgeCheckHandler creates a new age gate handler
func NewAgeCheckHandler(templateDir string, products ProductCatalog, logger *zap.Logger) (*AgeCheckHandler, error) {
	tmpl, err := parsePage(templateDir, "agecheck.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &AgeCheckHandler{
		template: tmpl,
		products: products,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// ServeHTTP renders the birthday form on GET and checks it on POST
func (h *AgeCheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := parseAppID(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	product, err := h.products.Get(id)
	if errors.Is(err, models.ErrProductNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("failed to load product", zap.Int64("app_id", id), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := h.formData(newPage(w, r, product.Name), product)
	if r.Method == http.MethodGet {
		render(w, h.template, data, h.logger)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	birth, err := parseBirthDate(r.PostForm.Get("ageYear"), r.PostForm.Get("ageMonth"), r.PostForm.Get("ageDay"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   BirthTimeCookie,
		Value:  strconv.FormatInt(birth.Unix(), 10),
		Path:   "/",
		MaxAge: cookieMaxAge,
	})

	age := ageAt(birth, h.now())
	if age < int(product.RequiredAge) {
		h.logger.Info("age gate denied", zap.Int64("app_id", id), zap.Int("age", age))
		data.Denied = true
		render(w, h.template, data, h.logger)
		return
	}

	http.Redirect(w, r, AppPath(product.SteamAppID, product.Name), http.StatusSeeOther)
}

func (h *AgeCheckHandler) formData(page Page, product *models.RawProduct) AgeCheckData {
	data := AgeCheckData{Page: page, ID: product.SteamAppID, Name: product.Name}
	for d := 1; d <= 31; d++ {
		data.Days = append(data.Days, d)
	}
	for m := time.January; m <= time.December; m++ {
		data.Months = append(data.Months, m.String())
	}
	for y := h.now().Year(); y >= firstBirthYear; y-- {
		data.Years = append(data.Years, y)
	}
	return data
}

// parseBirthDate reads the birthday selector. The month may be a name or a number.
func parseBirthDate(year, month, day string) (time.Time, error) {
	y, err := strconv.Atoi(year)
	if err != nil || y < firstBirthYear {
		return time.Time{}, fmt.Errorf("invalid birth year %q", year)
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, fmt.Errorf("invalid birth day %q", day)
	}

	var m time.Month
	if n, err := strconv.Atoi(month); err == nil {
		m = time.Month(n)
	} else {
		for candidate := time.January; candidate <= time.December; candidate++ {
			if strings.EqualFold(candidate.String(), month) {
				m = candidate
			}
		}
	}
	if m < time.January || m > time.December {
		return time.Time{}, fmt.Errorf("invalid birth month %q", month)
	}

	birth := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if birth.Day() != d {
		return time.Time{}, fmt.Errorf("invalid birth date %d-%s-%d", y, m, d)
	}
	return birth, nil
}

// ageAt returns completed years between birth and now
func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || now.Month() == birth.Month() && now.Day() < birth.Day() {
		age--
	}
	return age
}

// oldEnough reports whether the birthtime cookie proves at least age years
func oldEnough(r *http.Request, age int) bool {
	c, err := r.Cookie(BirthTimeCookie)
	if err != nil {
		return false
	}
	unix, err := strconv.ParseInt(c.Value, 10, 64)
	if err != nil {
		return false
	}
	return ageAt(time.Unix(unix, 0).UTC(), time.Now()) >= age
}
