package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bloxpanel/bloxpanel/internal/model"
)

// Config holds Discord OAuth application settings
type Config struct {
	// BaseURL is the Discord API root (e.g. https://discord.com/api)
	BaseURL string

	ClientID     string
	ClientSecret string
	RedirectURI  string

	Timeout time.Duration
}

// DefaultConfig returns the production Discord API endpoint
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://discord.com/api",
		Timeout: 10 * time.Second,
	}
}

// Client drives the Discord OAuth code exchange and identity lookup.
// It holds no state between calls.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// New creates a Discord OAuth client
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// AuthorizeURL returns the URL the browser is redirected to for login.
func (c *Client) AuthorizeURL() string {
	q := url.Values{}
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "identify")
	return c.cfg.BaseURL + "/oauth2/authorize?" + q.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ExchangeCode exchanges an authorization code for an access token. Any
// failure in the exchange, including a 200 with no token in it, yields
// model.ErrExchangeFailed.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("scope", "identify")

	reqURL := c.cfg.BaseURL + "/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrExchangeFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", model.ErrExchangeFailed, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrExchangeFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in response", model.ErrExchangeFailed)
	}
	return token.AccessToken, nil
}

// FetchIdentity resolves the identity behind an access token via the
// /users/@me endpoint.
func (c *Client) FetchIdentity(ctx context.Context, accessToken string) (*model.ExternalIdentity, error) {
	reqURL := c.cfg.BaseURL + "/users/@me"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIdentityFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", model.ErrIdentityFetchFailed, resp.StatusCode)
	}

	var identity model.ExternalIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIdentityFetchFailed, err)
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("%w: no id in response", model.ErrIdentityFetchFailed)
	}
	return &identity, nil
}
