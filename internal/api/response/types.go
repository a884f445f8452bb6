package response

import (
	"encoding/json"

	"github.com/bloxpanel/bloxpanel/internal/model"
)

// UnavailableSentinel is the explicit marker substituted for counts whose
// source call failed, distinct from a zero value.
const UnavailableSentinel = "N/A"

// OptionalCount is an integer that marshals as its value when known and as
// the "N/A" sentinel when the upstream count could not be obtained.
type OptionalCount struct {
	Value int
	Known bool
}

// CountOf builds a known OptionalCount
func CountOf(v int) OptionalCount {
	return OptionalCount{Value: v, Known: true}
}

// MarshalJSON emits the value or the sentinel string
func (c OptionalCount) MarshalJSON() ([]byte, error) {
	if !c.Known {
		return json.Marshal(UnavailableSentinel)
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON accepts either encoding; any string is the sentinel.
func (c *OptionalCount) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err == nil {
		c.Value = v
		c.Known = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = OptionalCount{}
	return nil
}

// Profile is the aggregated lookup response. Every field is always
// present; fields whose source failed carry sentinels, and fields with no
// upstream source yet carry the fixed placeholder marker.
type Profile struct {
	Username      string        `json:"username"`
	DisplayName   string        `json:"display_name"`
	ID            int64         `json:"id"`
	Created       string        `json:"created"`
	AccountAge    OptionalCount `json:"accountAge"`
	Description   string        `json:"description"`
	AvatarURL     string        `json:"avatarUrl"`
	AvatarBustURL string        `json:"avatarBustUrl"`
	Friends       OptionalCount `json:"friends"`
	Followers     string        `json:"followers"`
	Following     string        `json:"following"`
	VoiceChat     string        `json:"voiceChat"`
	SafeChat      string        `json:"safeChat"`
	Language      string        `json:"language"`
}

// ProfileFromModel converts a model.Profile to a response Profile
func ProfileFromModel(p *model.Profile) Profile {
	resp := Profile{
		Username:      p.Username,
		DisplayName:   p.DisplayName,
		ID:            p.PlatformID,
		Created:       p.Created,
		Description:   p.Description,
		AvatarURL:     p.AvatarURL,
		AvatarBustURL: p.AvatarBustURL,
		Followers:     model.PlaceholderValue,
		Following:     model.PlaceholderValue,
		VoiceChat:     model.PlaceholderValue,
		SafeChat:      model.PlaceholderValue,
		Language:      model.PlaceholderValue,
	}
	if p.AccountAgeDays != nil {
		resp.AccountAge = CountOf(*p.AccountAgeDays)
	}
	if p.FriendsCount != nil {
		resp.Friends = CountOf(*p.FriendsCount)
	}
	return resp
}

// Identity represents the authenticated identity in API responses
type Identity struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Locale        string `json:"locale,omitempty"`
}

// IdentityFromModel converts a model.ExternalIdentity
func IdentityFromModel(i model.ExternalIdentity) Identity {
	return Identity{
		ID:            i.ID,
		Username:      i.Username,
		Discriminator: i.Discriminator,
		Locale:        i.Locale,
	}
}

// AuthResult is the response for a completed authentication
type AuthResult struct {
	SessionToken string   `json:"session_token"`
	AccessToken  string   `json:"access_token"`
	Identity     Identity `json:"identity"`
}

// SessionInfo reports the login state of the current caller
type SessionInfo struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

// ChatLogEntry represents a stored chat-log record
type ChatLogEntry struct {
	Username  string `json:"username"`
	UserID    string `json:"userId,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// ChatLogEntryFromModel converts a model.ChatLogEntry
func ChatLogEntryFromModel(e model.ChatLogEntry) ChatLogEntry {
	return ChatLogEntry{
		Username:  e.Username,
		UserID:    e.UserID,
		Message:   e.Message,
		Timestamp: e.Timestamp,
		RequestID: e.RequestID,
	}
}

// ChatLogAppended acknowledges a stored chat-log record
type ChatLogAppended struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
}
