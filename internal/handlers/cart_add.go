package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/themizzi/storecheck/internal/models"
	"github.com/themizzi/storecheck/internal/normalize"
	"github.com/themizzi/storecheck/internal/services"
	"go.uber.org/zap"
)

// CartAddHandler handles the add to cart form of the product page
type CartAddHandler struct {
	cartService services.CartService
	products    ProductCatalog
	logger      *zap.Logger
}

// NewCartAddHandler creates a new add to cart handler
func NewCartAddHandler(cartService services.CartService, products ProductCatalog, logger *zap.Logger) *CartAddHandler {
	return &CartAddHandler{
		cartService: cartService,
		products:    products,
		logger:      logger,
	}
}

// ServeHTTP adds the posted appid to the visitor's cart and shows the cart
func (h *CartAddHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	id, ok := parseAppID(r.PostForm.Get("appid"))
	if !ok {
		http.Error(w, "Invalid appid", http.StatusBadRequest)
		return
	}

	raw, err := h.products.Get(id)
	if errors.Is(err, models.ErrProductNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("failed to load product", zap.Int64("app_id", id), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	product, err := normalize.Product(strconv.FormatInt(id, 10), localize(*raw, countryOf(w, r)))
	if err != nil {
		h.logger.Error("fixture product rejected", zap.Int64("app_id", id), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var cartID string
	if c, err := r.Cookie(CartCookie); err == nil {
		cartID = c.Value
	}

	cart, err := h.cartService.AddProduct(r.Context(), cartID, product)
	switch {
	case errors.Is(err, models.ErrCurrencyMismatch):
		http.Error(w, "Cart is priced in another currency", http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("failed to add to cart", zap.Int64("app_id", id), zap.Error(err))
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CartCookie,
		Value:    cart.ID,
		Path:     "/",
		HttpOnly: true,
	})
	http.Redirect(w, r, "/cart/", http.StatusSeeOther)
}
