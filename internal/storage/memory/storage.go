package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bloxpanel/bloxpanel/internal/dependencies/clock"
	"github.com/bloxpanel/bloxpanel/internal/model"
	"github.com/bloxpanel/bloxpanel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Sessions expire the same way the redis backend's keys do: expired
// entries are swept on writes and treated as absent on reads, so the two
// backends stay interchangeable.
type Storage struct {
	mu    sync.Mutex
	clock clock.Clock

	sessions map[string]*model.Session
	chatLogs []model.ChatLogEntry
}

// New creates a new in-memory storage instance
func New() *Storage {
	return NewWithClock(clock.New())
}

// NewWithClock creates an in-memory storage with an injected time source
// (for tests)
func NewWithClock(clk clock.Clock) *Storage {
	return &Storage{
		clock:    clk,
		sessions: make(map[string]*model.Session),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.sweepExpired(now)

	if expired(session, now) {
		return nil
	}
	s.sessions[session.Token] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	if expired(session, s.clock.Now()) {
		delete(s.sessions, token)
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// SessionCount returns the number of stored sessions (for tests)
func (s *Storage) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweepExpired drops expired sessions. Callers must hold the lock.
func (s *Storage) sweepExpired(now time.Time) {
	for token, session := range s.sessions {
		if expired(session, now) {
			delete(s.sessions, token)
		}
	}
}

// expired reports whether a session with an expiry has passed it; a zero
// ExpiresAt means the session does not expire.
func expired(session *model.Session, now time.Time) bool {
	return !session.ExpiresAt.IsZero() && now.After(session.ExpiresAt)
}

// Chat log operations

func (s *Storage) AppendChatLog(ctx context.Context, entry *model.ChatLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatLogs = append(s.chatLogs, *entry)
	return nil
}

func (s *Storage) GetChatLogs(ctx context.Context) ([]model.ChatLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]model.ChatLogEntry, len(s.chatLogs))
	copy(logs, s.chatLogs)
	return logs, nil
}

func (s *Storage) GetChatLogsByUsername(ctx context.Context, username string) ([]model.ChatLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var logs []model.ChatLogEntry
	for _, entry := range s.chatLogs {
		if strings.EqualFold(entry.Username, username) {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}
