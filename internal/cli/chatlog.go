package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/bloxpanel/bloxpanel/internal/api/request"
	"github.com/bloxpanel/bloxpanel/internal/api/response"
)

func newChatLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatlog",
		Short: "Chat-log record operations",
	}

	cmd.AddCommand(newChatLogListCmd())
	cmd.AddCommand(newChatLogAddCmd())

	return cmd
}

func newChatLogListCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored chat-log records",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/chatlogs"
			if username != "" {
				path += "?username=" + url.QueryEscape(username)
			}

			var result []response.ChatLogEntry
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Filter by username")

	return cmd
}

func newChatLogAddCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "add <username> <message> <timestamp>",
		Short: "Store a chat-log record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := request.ChatLogRequest{
				Username:  args[0],
				Message:   args[1],
				Timestamp: args[2],
				UserID:    userID,
			}

			var result response.ChatLogAppended
			if err := client.Post("/api/v1/chatlogs", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "Platform user id of the speaker")

	return cmd
}
