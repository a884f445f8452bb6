package storage

import (
	"context"

	"github.com/bloxpanel/bloxpanel/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Chat log operations
	AppendChatLog(ctx context.Context, entry *model.ChatLogEntry) error
	GetChatLogs(ctx context.Context) ([]model.ChatLogEntry, error)
	GetChatLogsByUsername(ctx context.Context, username string) ([]model.ChatLogEntry, error)
}
