package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/themizzi/storecheck/internal/models"
	"github.com/themizzi/storecheck/internal/normalize"
	"go.uber.org/zap"
)

// ProductHandler handles the product page requests
type ProductHandler struct {
	template *template.Template
	products ProductCatalog
	logger   *zap.Logger
}

// ProductData represents the data passed to the product template
type ProductData struct {
	Page
	ID               int64
	Name             string
	HeaderImage      string
	ShortDescription string
	ReleaseDate      string
	Developers       []string
	Publishers       []string
	Genre            string
	Tags             []string
	Reviews          string
	Price            *models.PriceOverview
	Discount         string
	Minimum          template.HTML
	Recommended      template.HTML
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(templateDir string, products ProductCatalog, logger *zap.Logger) (*ProductHandler, error) {
	tmpl, err := parsePage(templateDir, "product.html")
	if err != nil {
		return nil, err
	}

	return &ProductHandler{
		template: tmpl,
		products: products,
		logger:   logger,
	}, nil
}

// ServeHTTP handles the GET /app/{id}/ request
func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
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

	if canonical := AppPath(product.SteamAppID, product.Name); r.URL.Path != canonical {
		if r.URL.RawQuery != "" {
			canonical += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, canonical, http.StatusMovedPermanently)
		return
	}

	if age := int(product.RequiredAge); age >= adultRequiredAge && !oldEnough(r, age) {
		h.logger.Debug("age gate", zap.Int64("app_id", id), zap.Int("required_age", age))
		http.Redirect(w, r, "/agecheck/app/"+strconv.FormatInt(id, 10)+"/", http.StatusFound)
		return
	}

	page := newPage(w, r, product.Name)
	data := productData(page, localize(*product, page.Country))
	render(w, h.template, data, h.logger)
}

func productData(page Page, product models.RawProduct) ProductData {
	reviews, err := normalize.GroupThousands(product.Recommendations.Total)
	if err != nil {
		reviews = "0"
	}

	data := ProductData{
		Page:             page,
		ID:               product.SteamAppID,
		Name:             product.Name,
		HeaderImage:      product.HeaderImage,
		ShortDescription: product.ShortDescription,
		ReleaseDate:      product.ReleaseDate.Date,
		Developers:       product.Developers,
		Publishers:       product.Publishers,
		Reviews:          reviews,
		Price:            product.PriceOverview,
		Minimum:          template.HTML(product.PCRequirements.Minimum),
		Recommended:      template.HTML(product.PCRequirements.Recommended),
	}
	for _, g := range product.Genres {
		data.Tags = append(data.Tags, g.Description)
	}
	if len(data.Tags) > 0 {
		data.Genre = data.Tags[0]
	}
	if product.PriceOverview != nil && product.PriceOverview.DiscountPercent > 0 {
		data.Discount = "-" + strconv.Itoa(product.PriceOverview.DiscountPercent) + "%"
	}
	return data
}
