package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bloxpanel/bloxpanel/internal/model"
)

// ErrUnavailable is returned when a single upstream fetch failed. Callers
// absorb it into a sentinel field value; it is never surfaced as a
// top-level error.
var ErrUnavailable = errors.New("upstream endpoint unavailable")

// AvatarVariant selects which thumbnail endpoint to query.
type AvatarVariant string

const (
	AvatarHeadshot AvatarVariant = "avatar-headshot"
	AvatarBust     AvatarVariant = "avatar-bust"
	AvatarFull     AvatarVariant = "avatar"
)

// Config holds Roblox API endpoints and client behavior settings
type Config struct {
	UsersBaseURL      string
	FriendsBaseURL    string
	ThumbnailsBaseURL string

	// Timeout bounds every upstream call; a timed-out call is treated
	// like any other failed call.
	Timeout time.Duration
}

// DefaultConfig returns the production Roblox endpoints
func DefaultConfig() Config {
	return Config{
		UsersBaseURL:      "https://users.roblox.com",
		FriendsBaseURL:    "https://friends.roblox.com",
		ThumbnailsBaseURL: "https://thumbnails.roblox.com",
		Timeout:           5 * time.Second,
	}
}

// Client wraps the Roblox public REST endpoints used by profile lookups.
// Every method is stateless and independent: it takes primitive
// identifiers and normalizes both transport errors and empty-but-200
// payloads to a single failure outcome for that field.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// New creates a Roblox API client
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

type resolveRequest struct {
	Usernames          []string `json:"usernames"`
	ExcludeBannedUsers bool     `json:"excludeBannedUsers"`
}

type resolveResponse struct {
	Data []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// ResolveUsername resolves a username to its platform id. A non-200
// response, a transport failure, or an empty result set all mean the
// username is unresolvable and yield model.ErrUserNotFound.
func (c *Client) ResolveUsername(ctx context.Context, username string) (int64, error) {
	body, err := json.Marshal(resolveRequest{
		Usernames:          []string{username},
		ExcludeBannedUsers: false,
	})
	if err != nil {
		return 0, err
	}

	reqURL := c.cfg.UsersBaseURL + "/v1/usernames/users"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result resolveResponse
	if err := c.doJSON(req, &result); err != nil {
		return 0, model.ErrUserNotFound
	}
	if len(result.Data) == 0 {
		return 0, model.ErrUserNotFound
	}
	return result.Data[0].ID, nil
}

type profileResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Created     string `json:"created"`
	Description string `json:"description"`
}

// FetchProfile fetches the user record for a platform id.
func (c *Client) FetchProfile(ctx context.Context, platformID int64) (*model.PlatformUser, error) {
	reqURL := fmt.Sprintf("%s/v1/users/%d", c.cfg.UsersBaseURL, platformID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var result profileResponse
	if err := c.doJSON(req, &result); err != nil {
		return nil, fmt.Errorf("fetch profile for %d: %w", platformID, ErrUnavailable)
	}

	return &model.PlatformUser{
		PlatformID:  result.ID,
		Username:    result.Name,
		DisplayName: result.DisplayName,
		Created:     result.Created,
		Description: result.Description,
	}, nil
}

type friendsCountResponse struct {
	Count *int `json:"count"`
}

// FetchFriendsCount fetches the user's friend count.
func (c *Client) FetchFriendsCount(ctx context.Context, platformID int64) (int, error) {
	reqURL := fmt.Sprintf("%s/v1/users/%d/friends/count", c.cfg.FriendsBaseURL, platformID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}

	var result friendsCountResponse
	if err := c.doJSON(req, &result); err != nil {
		return 0, fmt.Errorf("fetch friends count for %d: %w", platformID, ErrUnavailable)
	}
	if result.Count == nil {
		return 0, fmt.Errorf("fetch friends count for %d: %w", platformID, ErrUnavailable)
	}
	return *result.Count, nil
}

type thumbnailResponse struct {
	Data []struct {
		ImageURL string `json:"imageUrl"`
	} `json:"data"`
}

// FetchAvatar fetches one avatar image URL. An empty data array on a 200
// response is the same outcome as an HTTP-level failure.
func (c *Client) FetchAvatar(ctx context.Context, platformID int64, variant AvatarVariant, size string, circular bool) (string, error) {
	q := url.Values{}
	q.Set("userIds", fmt.Sprintf("%d", platformID))
	q.Set("size", size)
	q.Set("format", "Png")
	if circular {
		q.Set("isCircular", "true")
	}

	reqURL := fmt.Sprintf("%s/v1/users/%s?%s", c.cfg.ThumbnailsBaseURL, variant, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}

	var result thumbnailResponse
	if err := c.doJSON(req, &result); err != nil {
		return "", fmt.Errorf("fetch %s for %d: %w", variant, platformID, ErrUnavailable)
	}
	if len(result.Data) == 0 || result.Data[0].ImageURL == "" {
		return "", fmt.Errorf("fetch %s for %d: %w", variant, platformID, ErrUnavailable)
	}
	return result.Data[0].ImageURL, nil
}

// doJSON performs the request and decodes a JSON body, folding transport
// errors and non-200 statuses into one failure.
func (c *Client) doJSON(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
