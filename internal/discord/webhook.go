package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bloxpanel/bloxpanel/internal/model"
)

const loginEmbedColor = 0x3498db

// Webhook posts login events to a Discord webhook. Delivery is best
// effort: callers must never let a returned error affect the decision
// that triggered the notification.
type Webhook struct {
	httpClient *http.Client
	url        string
}

// NewWebhook creates a webhook sink for the given URL
func NewWebhook(url string) *Webhook {
	return &Webhook{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		url:        url,
	}
}

type embedThumbnail struct {
	URL string `json:"url"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Color       int             `json:"color"`
	Thumbnail   *embedThumbnail `json:"thumbnail,omitempty"`
	Fields      []embedField    `json:"fields"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// NotifyLogin delivers a login embed for the identity.
func (w *Webhook) NotifyLogin(ctx context.Context, identity model.ExternalIdentity) error {
	locale := identity.Locale
	if locale == "" {
		locale = "Unknown"
	}

	e := embed{
		Title:       "🔐 New Login",
		Description: fmt.Sprintf("**%s** just logged into the dashboard.", identity.Tag()),
		Color:       loginEmbedColor,
		Fields: []embedField{
			{Name: "User ID", Value: identity.ID, Inline: true},
			{Name: "Locale", Value: locale, Inline: true},
		},
	}
	if avatar := identity.AvatarURL(); avatar != "" {
		e.Thumbnail = &embedThumbnail{URL: avatar}
	}

	body, err := json.Marshal(webhookPayload{Embeds: []embed{e}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook delivery failed with status %d", resp.StatusCode)
	}
	return nil
}
