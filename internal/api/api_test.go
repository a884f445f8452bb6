package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloxpanel/bloxpanel/internal/allowlist"
	"github.com/bloxpanel/bloxpanel/internal/api"
	"github.com/bloxpanel/bloxpanel/internal/api/apierr"
	"github.com/bloxpanel/bloxpanel/internal/api/response"
	"github.com/bloxpanel/bloxpanel/internal/discord"
	"github.com/bloxpanel/bloxpanel/internal/factory"
	"github.com/bloxpanel/bloxpanel/internal/roblox"
	"github.com/bloxpanel/bloxpanel/internal/services/access"
	"github.com/bloxpanel/bloxpanel/internal/testutil"
)

const (
	goodCode      = "good-code"
	providerToken = "provider-token"
	allowedUserID = "42"
	dashOrigin    = "https://dash.example"
)

// fakeUpstreams stands in for the Discord API and the three Roblox hosts.
// Failure toggles let individual tests break one endpoint at a time.
type fakeUpstreams struct {
	discord *httptest.Server
	roblox  *httptest.Server

	friendsFail   atomic.Bool
	thumbnailFail atomic.Bool
}

func newFakeUpstreams(t *testing.T) *fakeUpstreams {
	t.Helper()
	f := &fakeUpstreams{}

	dmux := http.NewServeMux()
	dmux.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != goodCode {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"access_token": providerToken})
	})
	dmux.HandleFunc("GET /users/@me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+providerToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]string{
			"id":            allowedUserID,
			"username":      "alice",
			"discriminator": "0042",
			"locale":        "en-GB",
		})
	})
	f.discord = httptest.NewServer(dmux)
	t.Cleanup(f.discord.Close)

	rmux := http.NewServeMux()
	rmux.HandleFunc("POST /v1/usernames/users", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Usernames []string `json:"usernames"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Usernames, 1)
		if req.Usernames[0] == "ghost" {
			writeJSON(w, map[string]any{"data": []any{}})
			return
		}
		writeJSON(w, map[string]any{"data": []map[string]any{
			{"id": 777, "name": "builderman"},
		}})
	})
	rmux.HandleFunc("GET /v1/users/777", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"id":          777,
			"name":        "builderman",
			"displayName": "Builderman",
			"created":     "2006-02-15T07:52:33.360Z",
			"description": "Welcome to the club",
		})
	})
	rmux.HandleFunc("GET /v1/users/777/friends/count", func(w http.ResponseWriter, r *http.Request) {
		if f.friendsFail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]int{"count": 1337})
	})
	rmux.HandleFunc("GET /v1/users/{variant}", func(w http.ResponseWriter, r *http.Request) {
		if f.thumbnailFail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		url := fmt.Sprintf("https://cdn.example/%s.png", r.PathValue("variant"))
		writeJSON(w, map[string]any{"data": []map[string]string{{"imageUrl": url}}})
	})
	f.roblox = httptest.NewServer(rmux)
	t.Cleanup(f.roblox.Close)

	return f
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type testServer struct {
	handler   http.Handler
	upstreams *fakeUpstreams
	allow     *allowlist.Static
	webhooks  chan map[string]any
}

type testServerOptions struct {
	dashboardURL string
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWith(t, testServerOptions{})
}

func newTestServerWith(t *testing.T, opts testServerOptions) *testServer {
	t.Helper()

	upstreams := newFakeUpstreams(t)
	allow := allowlist.NewStatic(allowedUserID)

	webhooks := make(chan map[string]any, 16)
	webhookServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		webhooks <- payload
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(webhookServer.Close)

	app, err := factory.New(factory.Config{
		Logger:    testutil.NopLogger(),
		AllowList: allow,
		Discord: discord.Config{
			BaseURL:      upstreams.discord.URL,
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURI:  "http://localhost/callback",
		},
		Roblox: roblox.Config{
			UsersBaseURL:      upstreams.roblox.URL,
			FriendsBaseURL:    upstreams.roblox.URL,
			ThumbnailsBaseURL: upstreams.roblox.URL,
		},
		WebhookURL:   webhookServer.URL,
		AccessConfig: access.DefaultConfig(),
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AccessService:  app.AccessService,
		ProfileService: app.ProfileService,
		Storage:        app.Storage,
		Clock:          app.Clock,
		AuthorizeURL:   app.OAuth,
		DashboardURL:   opts.dashboardURL,
		CORSOrigin:     dashOrigin,
	})

	return &testServer{
		handler:   router,
		upstreams: upstreams,
		allow:     allow,
		webhooks:  webhooks,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// login runs the callback flow and returns the session token
func (ts *testServer) login(t *testing.T) string {
	t.Helper()

	rr := ts.request(http.MethodGet, "/callback?code="+goodCode, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var result response.AuthResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.NotEmpty(t, result.SessionToken)
	return result.SessionToken
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestLoginRedirectsToProvider(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/login", nil, "")
	assert.Equal(t, http.StatusFound, rr.Code)

	location := rr.Header().Get("Location")
	assert.Contains(t, location, "/oauth2/authorize")
	assert.Contains(t, location, "client_id=client-id")
	assert.Contains(t, location, "response_type=code")
}

func TestCallbackIssuesSessionAndCookie(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/callback?code="+goodCode, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var result response.AuthResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, strings.HasPrefix(result.SessionToken, "sess_"))
	assert.Equal(t, providerToken, result.AccessToken)
	assert.Equal(t, "alice", result.Identity.Username)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, result.SessionToken, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCallbackRedirectsToDashboard(t *testing.T) {
	ts := newTestServerWith(t, testServerOptions{dashboardURL: dashOrigin})

	rr := ts.request(http.MethodGet, "/callback?code="+goodCode, nil, "")
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, dashOrigin+"/?token="+providerToken, rr.Header().Get("Location"))
}

func TestCallbackMissingCode(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/callback", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeMissingCode, decodeError(t, rr).Code)
}

func TestCallbackBadCode(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/callback?code=wrong", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeTokenExchangeFailed, decodeError(t, rr).Code)
}

func TestCallbackDeniedIdentity(t *testing.T) {
	ts := newTestServer(t)
	ts.allow.Remove(allowedUserID)

	rr := ts.request(http.MethodGet, "/callback?code="+goodCode, nil, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeAccessDenied, decodeError(t, rr).Code)
	assert.Empty(t, rr.Result().Cookies())
	assert.Empty(t, ts.webhooks)
}

func TestSessionEndpointWithoutAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/session", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var info response.SessionInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.False(t, info.LoggedIn)
}

func TestSessionEndpointWithSession(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/session", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var info response.SessionInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.True(t, info.LoggedIn)
	assert.Equal(t, "alice", info.Username)
}

func TestSessionEndpointWithBearerProviderToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/session", nil, providerToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var info response.SessionInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.True(t, info.LoggedIn)
	assert.Equal(t, "alice", info.Username)
}

func TestSessionEndpointWithBogusBearerToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/session", nil, "not-a-real-token")
	require.Equal(t, http.StatusOK, rr.Code)

	var info response.SessionInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.False(t, info.LoggedIn)
}

func TestLogoutClearsSession(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/session", nil, token)
	var info response.SessionInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.False(t, info.LoggedIn)
}

func TestProfileRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/profile/builderman", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, decodeError(t, rr).Code)
}

func TestProfileLookup(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/profile/builderman", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var p response.Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, int64(777), p.ID)
	assert.Equal(t, "builderman", p.Username)
	assert.Equal(t, "Builderman", p.DisplayName)
	assert.Equal(t, "Welcome to the club", p.Description)
	assert.True(t, p.Friends.Known)
	assert.Equal(t, 1337, p.Friends.Value)
	assert.True(t, p.AccountAge.Known)
	assert.Greater(t, p.AccountAge.Value, 0)
	assert.Equal(t, "https://cdn.example/avatar-headshot.png", p.AvatarURL)
	assert.Equal(t, "https://cdn.example/avatar-bust.png", p.AvatarBustURL)
	assert.Equal(t, "No active Logic", p.Followers)
	assert.Equal(t, "No active Logic", p.VoiceChat)
}

func TestProfileLookupFriendsOutage(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)
	ts.upstreams.friendsFail.Store(true)

	rr := ts.request(http.MethodGet, "/api/v1/profile/builderman", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	// The failed count must surface as the sentinel string, not a zero
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Equal(t, "N/A", raw["friends"])
	assert.Equal(t, float64(777), raw["id"])
}

func TestProfileLookupThumbnailOutage(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)
	ts.upstreams.thumbnailFail.Store(true)

	rr := ts.request(http.MethodGet, "/api/v1/profile/builderman", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var p response.Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Empty(t, p.AvatarURL)
	assert.Empty(t, p.AvatarBustURL)
	assert.True(t, p.Friends.Known)
}

func TestProfileLookupUnknownUser(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/profile/ghost", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeUserNotFound, decodeError(t, rr).Code)
}

func TestBearerProviderTokenGrantsAccess(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/profile/builderman", nil, providerToken)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestBearerProviderTokenDenied(t *testing.T) {
	ts := newTestServer(t)
	ts.allow.Remove(allowedUserID)

	rr := ts.request(http.MethodGet, "/api/v1/profile/builderman", nil, providerToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestChatLogsAppendAndList(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodPost, "/api/v1/chatlogs", map[string]string{
		"username":  "builderman",
		"userId":    "777",
		"message":   "hello world",
		"timestamp": "2024-06-01T12:00:00Z",
	}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var ack response.ChatLogAppended
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ack))
	assert.True(t, ack.Success)
	assert.NotEmpty(t, ack.RequestID)

	rr = ts.request(http.MethodGet, "/api/v1/chatlogs", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []response.ChatLogEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "hello world", entries[0].Message)
	assert.Equal(t, ack.RequestID, entries[0].RequestID)
}

func TestChatLogsFilterByUsername(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	for _, user := range []string{"builderman", "shedletsky", "builderman"} {
		rr := ts.request(http.MethodPost, "/api/v1/chatlogs", map[string]string{
			"username":  user,
			"message":   "msg from " + user,
			"timestamp": "2024-06-01T12:00:00Z",
		}, token)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := ts.request(http.MethodGet, "/api/v1/chatlogs?username=builderman", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []response.ChatLogEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
}

func TestChatLogsValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodPost, "/api/v1/chatlogs", map[string]string{
		"username": "builderman",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestChatLogsRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/chatlogs", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginNotificationDelivered(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	select {
	case payload := <-ts.webhooks:
		embeds, ok := payload["embeds"].([]any)
		require.True(t, ok)
		require.Len(t, embeds, 1)
		embed := embeds[0].(map[string]any)
		assert.Equal(t, "🔐 New Login", embed["title"])
		assert.Contains(t, embed["description"], "alice#0042")
	case <-time.After(2 * time.Second):
		t.Fatal("no webhook delivery observed")
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/profile/builderman", nil)
	req.Header.Set("Origin", dashOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, dashOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSOtherOriginGetsNoHeaders(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
}
