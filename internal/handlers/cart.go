package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/themizzi/storecheck/internal/models"
	"github.com/themizzi/storecheck/internal/pricing"
	"github.com/themizzi/storecheck/internal/services"
	"go.uber.org/zap"
)

// CartHandler handles the cart page
type CartHandler struct {
	template    *template.Template
	cartService services.CartService
	logger      *zap.Logger
}

// CartLine is one row of the cart page
type CartLine struct {
	ID    int64
	Name  string
	Path  string
	Price string
}

// CartData represents the data passed to the cart template
type CartData struct {
	Page
	Items []CartLine
	Total string
}

// NewCartHandler creates a new cart handler
func NewCartHandler(templateDir string, cartService services.CartService, logger *zap.Logger) (*CartHandler, error) {
	tmpl, err := parsePage(templateDir, "cart.html")
	if err != nil {
		return nil, err
	}

	return &CartHandler{
		template:    tmpl,
		cartService: cartService,
		logger:      logger,
	}, nil
}

// ServeHTTP handles the GET /cart/ request
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := newPage(w, r, "Shopping Cart")
	cart := &models.Cart{Currency: pricing.CurrencyFor(page.Country)}

	if c, err := r.Cookie(CartCookie); err == nil {
		stored, err := h.cartService.Cart(r.Context(), c.Value)
		switch {
		case err == nil:
			cart = stored
		case errors.Is(err, models.ErrCartNotFound):
		default:
			h.logger.Error("failed to load cart", zap.String("cart_id", c.Value), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	render(w, h.template, cartData(page, cart), h.logger)
}

func cartData(page Page, cart *models.Cart) CartData {
	currency := cart.Currency
	if currency == "" {
		currency = pricing.CurrencyFor(page.Country)
	}

	data := CartData{Page: page, Total: displayTotal(currency, cart.Total())}
	for _, item := range cart.Items {
		data.Items = append(data.Items, CartLine{
			ID:    item.AppID,
			Name:  item.Name,
			Path:  AppPath(item.AppID, item.Name),
			Price: pricing.Format(item.Currency, item.Price),
		})
	}
	return data
}

// displayTotal renders a cart total; dollar totals carry the currency code like the store shows them
func displayTotal(currency string, minor int64) string {
	total := pricing.Format(currency, minor)
	if currency == "USD" {
		total += " USD"
	}
	return total
}
