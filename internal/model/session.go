package model

import "time"

// Session binds an authenticated identity to an opaque token for the
// lifetime of one client. Sessions are destroyed on logout or expiry.
type Session struct {
	Token     string           `json:"token"`
	Identity  ExternalIdentity `json:"identity"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// ChatLogEntry is one moderation chat-log record reported by the game.
// RequestID correlates the entry with the inbound request that stored it.
type ChatLogEntry struct {
	Username  string    `json:"username"`
	UserID    string    `json:"user_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
	RequestID string    `json:"request_id"`
	LoggedAt  time.Time `json:"logged_at"`
}
