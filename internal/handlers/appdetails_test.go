package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/themizzi/storecheck/internal/models"
	"go.uber.org/zap"
)

func TestAppDetailsHandler_ServeHTTP(t *testing.T) {
	handler := NewAppDetailsHandler(fixtureCatalog(t), zap.NewNop())

	t.Run("known and unknown ids", func(t *testing.T) {
		// GIVEN a request mixing fixture, unknown and malformed IDs
		req := httptest.NewRequest(http.MethodGet, "/api/appdetails?appids=648800,999,abc&cc=de", nil)
		w := httptest.NewRecorder()

		// WHEN the API answers
		handler.ServeHTTP(w, req)

		// THEN every ID has an entry and only the fixture succeeds
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}

		var resp models.AppDetailsResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(resp) != 3 {
			t.Fatalf("Expected 3 entries, got %d", len(resp))
		}

		raft := resp["648800"]
		if !raft.Success {
			t.Fatal("Expected 648800 to succeed")
		}
		if raft.Data.Name != "Raft" {
			t.Errorf("Expected Raft, got %q", raft.Data.Name)
		}
		po := raft.Data.PriceOverview
		if po == nil || po.Currency != "EUR" || po.FinalFormatted != "11,99€" || po.InitialFormatted != "19,99€" {
			t.Errorf("Expected euro price overview, got %+v", po)
		}
		for _, key := range []string{"999", "abc"} {
			if resp[key].Success {
				t.Errorf("Expected %s to fail", key)
			}
		}
	})

	t.Run("defaults to dollars", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/appdetails?appids=1455840", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		var resp models.AppDetailsResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		po := resp["1455840"].Data.PriceOverview
		if po == nil || po.FinalFormatted != "$13.99" || po.InitialFormatted != "" {
			t.Errorf("Expected undiscounted dollar price, got %+v", po)
		}
	})

	tests := []struct {
		name           string
		method         string
		target         string
		expectedStatus int
	}{
		{"missing appids", http.MethodGet, "/api/appdetails", http.StatusBadRequest},
		{"method not allowed - POST", http.MethodPost, "/api/appdetails?appids=1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if errResp.Error != http.StatusText(tt.expectedStatus) {
				t.Errorf("Expected error %q, got %q", http.StatusText(tt.expectedStatus), errResp.Error)
			}
		})
	}
}
