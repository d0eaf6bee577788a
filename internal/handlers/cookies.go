package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// Consent choices offered by the cookie banner
const (
	CookieChoiceAccept = "accept"
	CookieChoiceReject = "reject"
)

// CookiePreferencesHandler handles the cookie banner buttons
type CookiePreferencesHandler struct {
	logger *zap.Logger
}

// NewCookiePreferencesHandler creates a new cookie preferences handler
func NewCookiePreferencesHandler(logger *zap.Logger) *CookiePreferencesHandler {
	return &CookiePreferencesHandler{logger: logger}
}

// ServeHTTP stores the consent choice and returns to the page the banner was shown on
func (h *CookiePreferencesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	choice := r.PostForm.Get("choice")
	settings := cookieSettings(choice)
	if settings == "" {
		http.Error(w, "Unknown cookie choice", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   CookieSettings,
		Value:  settings,
		Path:   "/",
		MaxAge: cookieMaxAge,
	})
	h.logger.Debug("cookie preferences saved", zap.String("choice", choice))

	http.Redirect(w, r, safeReturn(r.PostForm.Get("return")), http.StatusSeeOther)
}

// cookieSettings returns the stored consent value for a banner choice
func cookieSettings(choice string) string {
	switch choice {
	case CookieChoiceAccept:
		return "all"
	case CookieChoiceReject:
		return "necessary"
	default:
		return ""
	}
}
