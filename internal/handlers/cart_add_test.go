package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/themizzi/storecheck/internal/models"
	"go.uber.org/zap"
)

func TestCartAddHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name             string
		method           string
		appid            string
		country          string
		cartID           string
		addErr           error
		expectedStatus   int
		expectedCurrency string
		expectedPrice    string
	}{
		{
			name:             "adds a dollar priced product",
			method:           http.MethodPost,
			appid:            "1455840",
			expectedStatus:   http.StatusSeeOther,
			expectedCurrency: "USD",
			expectedPrice:    "$13.99",
		},
		{
			name:             "adds a euro priced product to an existing cart",
			method:           http.MethodPost,
			appid:            "648800",
			country:          "de",
			cartID:           "cart-1",
			expectedStatus:   http.StatusSeeOther,
			expectedCurrency: "EUR",
			expectedPrice:    "11,99€",
		},
		{
			name:           "currency mismatch",
			method:         http.MethodPost,
			appid:          "427520",
			country:        "fr",
			cartID:         "cart-usd",
			addErr:         fmt.Errorf("wrapped: %w", models.ErrCurrencyMismatch),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "service failure",
			method:         http.MethodPost,
			appid:          "427520",
			addErr:         errors.New("database down"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "unknown product",
			method:         http.MethodPost,
			appid:          "3",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed appid",
			method:         http.MethodPost,
			appid:          "raft",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "method not allowed - GET",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a cart service that records the added product
			var added *models.NormalizedProduct
			mock := &MockCartService{
				AddProductFunc: func(ctx context.Context, cartID string, product *models.NormalizedProduct) (*models.Cart, error) {
					if cartID != tt.cartID {
						t.Errorf("Expected cart ID %q, got %q", tt.cartID, cartID)
					}
					added = product
					if tt.addErr != nil {
						return nil, tt.addErr
					}
					cart := models.NewCart()
					cart.ID = "cart-new"
					return cart, nil
				},
			}
			handler := NewCartAddHandler(mock, fixtureCatalog(t), zap.NewNop())

			form := url.Values{"appid": {tt.appid}}
			req := httptest.NewRequest(tt.method, "/cart/add", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.country != "" {
				req.AddCookie(&http.Cookie{Name: CountryCookie, Value: tt.country})
			}
			if tt.cartID != "" {
				req.AddCookie(&http.Cookie{Name: CartCookie, Value: tt.cartID})
			}
			w := httptest.NewRecorder()

			// WHEN the add to cart form is posted
			handler.ServeHTTP(w, req)

			// THEN the localized product is added and the cart is shown
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusSeeOther {
				return
			}
			if w.Header().Get("Location") != "/cart/" {
				t.Errorf("Expected redirect to /cart/, got %q", w.Header().Get("Location"))
			}
			if c := responseCookie(w, CartCookie); c == nil || c.Value != "cart-new" || !c.HttpOnly {
				t.Errorf("Expected HttpOnly %s cookie cart-new, got %v", CartCookie, c)
			}
			if added == nil || added.PriceOverview == nil {
				t.Fatal("Expected a priced product to be added")
			}
			if added.PriceOverview.Currency != tt.expectedCurrency {
				t.Errorf("Expected currency %s, got %s", tt.expectedCurrency, added.PriceOverview.Currency)
			}
			if added.PriceOverview.FinalFormatted != tt.expectedPrice {
				t.Errorf("Expected price %s, got %s", tt.expectedPrice, added.PriceOverview.FinalFormatted)
			}
		})
	}
}
