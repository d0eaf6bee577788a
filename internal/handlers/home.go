package handlers

import (
	"html/template"
	"net/http"
	"sort"

	"github.com/themizzi/storecheck/internal/models"
	"go.uber.org/zap"
)

// HomeCategories are the entries of the "Browse Categories" block
var HomeCategories = []string{"Top Sellers", "New Releases", "Upcoming", "Specials"}

// HomeHandler handles the store front page
type HomeHandler struct {
	template *template.Template
	products ProductCatalog
	logger   *zap.Logger
}

// StoreItem is a product as listed on the front page and in search suggestions
type StoreItem struct {
	ID          int64
	Name        string
	Path        string
	HeaderImage string
	Price       string
}

// HomeData represents the data passed to the home template
type HomeData struct {
	Page
	Featured   []StoreItem
	Categories []string
	Genres     []string
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(templateDir string, products ProductCatalog, logger *zap.Logger) (*HomeHandler, error) {
	tmpl, err := parsePage(templateDir, "home.html")
	if err != nil {
		return nil, err
	}

	return &HomeHandler{
		template: tmpl,
		products: products,
		logger:   logger,
	}, nil
}

// ServeHTTP handles the GET / request
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := newPage(w, r, "Welcome to Steam")
	products := h.products.All()

	data := HomeData{
		Page:       page,
		Categories: HomeCategories,
		Genres:     genres(products),
	}
	for _, p := range products {
		data.Featured = append(data.Featured, storeItem(localize(p, page.Country)))
	}

	render(w, h.template, data, h.logger)
}

func storeItem(p models.RawProduct) StoreItem {
	item := StoreItem{
		ID:          p.SteamAppID,
		Name:        p.Name,
		Path:        AppPath(p.SteamAppID, p.Name),
		HeaderImage: p.HeaderImage,
	}
	switch {
	case p.IsFree:
		item.Price = "Free to Play"
	case p.PriceOverview != nil:
		item.Price = p.PriceOverview.FinalFormatted
	}
	return item
}

// genres returns the distinct genre names of products, sorted
func genres(products []models.RawProduct) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		for _, g := range p.Genres {
			if !seen[g.Description] {
				seen[g.Description] = true
				out = append(out, g.Description)
			}
		}
	}
	sort.Strings(out)
	return out
}
