package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/themizzi/storecheck/internal/models"
	"go.uber.org/zap"
)

// AppDetailsHandler serves the product-info API from the fixture records
type AppDetailsHandler struct {
	products ProductCatalog
	logger   *zap.Logger
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewAppDetailsHandler creates a new product-info API handler
func NewAppDetailsHandler(products ProductCatalog, logger *zap.Logger) *AppDetailsHandler {
	return &AppDetailsHandler{
		products: products,
		logger:   logger,
	}
}

// ServeHTTP handles GET /api/appdetails?appids=ID,ID&cc=CC. Unknown or
// malformed IDs are answered with success=false, as the real API does.
func (h *AppDetailsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	appids := r.URL.Query().Get("appids")
	if appids == "" {
		sendErrorResponse(w, "appids is required", http.StatusBadRequest)
		return
	}
	cc := strings.ToLower(r.URL.Query().Get("cc"))
	if cc == "" {
		cc = DefaultCountry
	}

	resp := models.AppDetailsResponse{}
	for _, key := range strings.Split(appids, ",") {
		key = strings.TrimSpace(key)
		id, ok := parseAppID(key)
		if !ok {
			resp[key] = models.AppDetailsEntry{Success: false}
			continue
		}
		product, err := h.products.Get(id)
		if errors.Is(err, models.ErrProductNotFound) {
			resp[key] = models.AppDetailsEntry{Success: false}
			continue
		}
		if err != nil {
			h.logger.Error("failed to load product", zap.Int64("app_id", id), zap.Error(err))
			sendErrorResponse(w, "Failed to load product", http.StatusInternalServerError)
			return
		}
		resp[key] = models.AppDetailsEntry{Success: true, Data: localize(*product, cc)}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Warn("failed to encode appdetails", zap.Error(err))
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
