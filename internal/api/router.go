package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bloxpanel/bloxpanel/internal/api/handler"
	"github.com/bloxpanel/bloxpanel/internal/api/middleware"
	"github.com/bloxpanel/bloxpanel/internal/dependencies/clock"
	"github.com/bloxpanel/bloxpanel/internal/services/access"
	"github.com/bloxpanel/bloxpanel/internal/services/profile"
	"github.com/bloxpanel/bloxpanel/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AccessService  *access.Service
	ProfileService *profile.Service
	Storage        storage.Storage
	Clock          clock.Clock

	// AuthorizeURL yields the identity provider's login URL
	AuthorizeURL handler.AuthorizeURLProvider

	// DashboardURL is where the OAuth callback redirects allowed
	// browsers; empty means the callback answers with JSON.
	DashboardURL string

	// CORSOrigin is the dashboard origin allowed on /api routes
	CORSOrigin string
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AccessService, cfg.AuthorizeURL, cfg.DashboardURL)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	chatLogHandler := handler.NewChatLogHandler(cfg.Storage, cfg.Clock)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AccessService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AccessService)

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(cfg.Logger))

	// OAuth flow routes (no auth; these are how auth is obtained)
	r.HandleFunc("/login", authHandler.Login).Methods(http.MethodGet)
	r.HandleFunc("/callback", authHandler.Callback).Methods(http.MethodGet)
	r.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	// API subrouter; CORS runs before any auth so preflights succeed
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.CORS(cfg.CORSOrigin))

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet, http.MethodOptions)

	// Session state is readable without auth (reports logged_in: false)
	api.Handle("/session",
		optionalAuthMiddleware(http.HandlerFunc(authHandler.Session)),
	).Methods(http.MethodGet, http.MethodOptions)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/profile/{username}", profileHandler.Lookup).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/chatlogs", chatLogHandler.Append).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/chatlogs", chatLogHandler.List).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
