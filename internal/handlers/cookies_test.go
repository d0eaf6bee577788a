package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestCookiePreferencesHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name             string
		method           string
		form             url.Values
		expectedStatus   int
		expectedLocation string
		expectedValue    string
	}{
		{
			name:             "reject all",
			method:           http.MethodPost,
			form:             url.Values{"choice": {CookieChoiceReject}, "return": {"/?cc=de"}},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/?cc=de",
			expectedValue:    "necessary",
		},
		{
			name:             "accept all",
			method:           http.MethodPost,
			form:             url.Values{"choice": {CookieChoiceAccept}, "return": {"/app/648800/Raft/"}},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/app/648800/Raft/",
			expectedValue:    "all",
		},
		{
			name:             "missing return goes home",
			method:           http.MethodPost,
			form:             url.Values{"choice": {CookieChoiceReject}},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/",
			expectedValue:    "necessary",
		},
		{
			name:             "off-site return goes home",
			method:           http.MethodPost,
			form:             url.Values{"choice": {CookieChoiceAccept}, "return": {"//example.com/"}},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/",
			expectedValue:    "all",
		},
		{
			name:           "unknown choice",
			method:         http.MethodPost,
			form:           url.Values{"choice": {"maybe"}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "method not allowed - GET",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	handler := NewCookiePreferencesHandler(zap.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a banner button submission
			req := httptest.NewRequest(tt.method, "/cookiepreferences", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()

			// WHEN the handler serves it
			handler.ServeHTTP(w, req)

			// THEN the choice is stored and the visitor returns to the page
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedLocation != "" && w.Header().Get("Location") != tt.expectedLocation {
				t.Errorf("Expected Location %q, got %q", tt.expectedLocation, w.Header().Get("Location"))
			}
			c := responseCookie(w, CookieSettings)
			if tt.expectedValue == "" {
				if c != nil {
					t.Errorf("Expected no %s cookie, got %q", CookieSettings, c.Value)
				}
				return
			}
			if c == nil || c.Value != tt.expectedValue {
				t.Errorf("Expected %s cookie %q, got %v", CookieSettings, tt.expectedValue, c)
			}
		})
	}
}
