package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/bloxpanel/bloxpanel/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Profile:
		o.printProfile(v)
	case response.SessionInfo:
		o.printSessionInfo(v)
	case []response.ChatLogEntry:
		o.printChatLogs(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printProfile(p response.Profile) {
	fmt.Printf("Username:     %s\n", p.Username)
	fmt.Printf("Display name: %s\n", p.DisplayName)
	fmt.Printf("ID:           %d\n", p.ID)
	fmt.Printf("Created:      %s\n", p.Created)
	fmt.Printf("Account age:  %s days\n", formatCount(p.AccountAge))
	fmt.Printf("Friends:      %s\n", formatCount(p.Friends))
	if p.Description != "" {
		fmt.Printf("Description:  %s\n", p.Description)
	}
	if p.AvatarURL != "" {
		fmt.Printf("Avatar:       %s\n", p.AvatarURL)
	}
	if p.AvatarBustURL != "" {
		fmt.Printf("Avatar bust:  %s\n", p.AvatarBustURL)
	}
}

func (o *Output) printSessionInfo(s response.SessionInfo) {
	if !s.LoggedIn {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("Logged in as %s\n", s.Username)
}

func (o *Output) printChatLogs(entries []response.ChatLogEntry) {
	if len(entries) == 0 {
		fmt.Println("No chat logs")
		return
	}
	for _, e := range entries {
		fmt.Printf("[%s] %s: %s\n", e.Timestamp, e.Username, e.Message)
	}
}

func formatCount(c response.OptionalCount) string {
	if !c.Known {
		return response.UnavailableSentinel
	}
	return strconv.Itoa(c.Value)
}
