package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bloxpanel/bloxpanel/internal/api/middleware"
	"github.com/bloxpanel/bloxpanel/internal/api/request"
	"github.com/bloxpanel/bloxpanel/internal/api/response"
	"github.com/bloxpanel/bloxpanel/internal/dependencies/clock"
	"github.com/bloxpanel/bloxpanel/internal/model"
	"github.com/bloxpanel/bloxpanel/internal/storage"
)

// ChatLogHandler handles chat-log record endpoints
type ChatLogHandler struct {
	storage storage.Storage
	clock   clock.Clock
}

// NewChatLogHandler creates a new chat-log handler
func NewChatLogHandler(store storage.Storage, clk clock.Clock) *ChatLogHandler {
	return &ChatLogHandler{
		storage: store,
		clock:   clk,
	}
}

// Append handles POST /api/v1/chatlogs
func (h *ChatLogHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req request.ChatLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" || req.Message == "" || req.Timestamp == "" {
		WriteError(w, NewInvalidRequestError("username, message and timestamp are required"))
		return
	}

	requestID := middleware.GetRequestID(r.Context())
	entry := &model.ChatLogEntry{
		Username:  req.Username,
		UserID:    req.UserID,
		Message:   req.Message,
		Timestamp: req.Timestamp,
		RequestID: requestID,
		LoggedAt:  h.clock.Now(),
	}

	if err := h.storage.AppendChatLog(r.Context(), entry); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ChatLogAppended{
		Success:   true,
		RequestID: requestID,
	})
}

// List handles GET /api/v1/chatlogs?username=
func (h *ChatLogHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		entries []model.ChatLogEntry
		err     error
	)

	if username := r.URL.Query().Get("username"); username != "" {
		entries, err = h.storage.GetChatLogsByUsername(r.Context(), username)
	} else {
		entries, err = h.storage.GetChatLogs(r.Context())
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	result := make([]response.ChatLogEntry, len(entries))
	for i, entry := range entries {
		result[i] = response.ChatLogEntryFromModel(entry)
	}

	response.JSON(w, http.StatusOK, result)
}
