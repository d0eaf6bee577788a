package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"
)

// SearchSuggestHandler returns the markup of the search suggestion popup
type SearchSuggestHandler struct {
	template *template.Template
	products ProductCatalog
	logger   *zap.Logger
}

// NewSearchSuggestHandler creates a new search suggestion handler
func NewSearchSuggestHandler(templateDir string, products ProductCatalog, logger *zap.Logger) (*SearchSuggestHandler, error) {
	tmpl, err := template.ParseFiles(filepath.Join(templateDir, "suggest.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &SearchSuggestHandler{
		template: tmpl,
		products: products,
		logger:   logger,
	}, nil
}

// ServeHTTP handles the GET /search/suggest?term= request. An empty body means no match.
func (h *SearchSuggestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	term := r.URL.Query().Get("term")
	cc := countryOf(w, r)

	var items []StoreItem
	for _, p := range h.products.Search(term) {
		items = append(items, storeItem(localize(p, cc)))
	}
	h.logger.Debug("search suggestions", zap.String("term", term), zap.Int("matches", len(items)))

	render(w, h.template, items, h.logger)
}
