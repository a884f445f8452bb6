package cli

import (
	"github.com/spf13/cobra"

	"github.com/bloxpanel/bloxpanel/internal/api/response"
)

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show the current login state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SessionInfo
			if err := client.Get("/api/v1/session", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
