package request

// ChatLogRequest is the request body for POST /api/v1/chatlogs
type ChatLogRequest struct {
	Username  string `json:"username"`
	UserID    string `json:"userId,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
