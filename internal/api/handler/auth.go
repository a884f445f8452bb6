package handler

import (
	"net/http"

	"github.com/bloxpanel/bloxpanel/internal/api/middleware"
	"github.com/bloxpanel/bloxpanel/internal/api/response"
	"github.com/bloxpanel/bloxpanel/internal/services/access"
)

// AuthorizeURLProvider yields the identity provider's login URL
type AuthorizeURLProvider interface {
	AuthorizeURL() string
}

// AuthHandler handles the OAuth login flow and session endpoints
type AuthHandler struct {
	gate         *access.Service
	authorize    AuthorizeURLProvider
	dashboardURL string
}

// NewAuthHandler creates a new auth handler. dashboardURL is where the
// callback redirects allowed browsers; when empty the callback answers
// with JSON instead, for API-style clients.
func NewAuthHandler(gate *access.Service, authorize AuthorizeURLProvider, dashboardURL string) *AuthHandler {
	return &AuthHandler{
		gate:         gate,
		authorize:    authorize,
		dashboardURL: dashboardURL,
	}
}

// Login handles GET /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.authorize.AuthorizeURL(), http.StatusFound)
}

// Callback handles GET /callback?code=
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	result, err := h.gate.BeginAuthentication(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    result.Session.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if h.dashboardURL != "" {
		http.Redirect(w, r, h.dashboardURL+"/?token="+result.AccessToken, http.StatusFound)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResult{
		SessionToken: result.Session.Token,
		AccessToken:  result.AccessToken,
		Identity:     response.IdentityFromModel(result.Identity),
	})
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		_ = h.gate.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	response.NoContent(w)
}

// Session handles GET /api/v1/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.JSON(w, http.StatusOK, response.SessionInfo{LoggedIn: false})
		return
	}

	response.JSON(w, http.StatusOK, response.SessionInfo{
		LoggedIn: true,
		Username: identity.Username,
	})
}
