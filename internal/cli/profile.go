package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/bloxpanel/bloxpanel/internal/api/response"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Roblox profile operations",
	}

	cmd.AddCommand(newProfileLookupCmd())

	return cmd
}

func newProfileLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <username>",
		Short: "Look up an aggregated Roblox profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if username == "" {
				return fmt.Errorf("username is required")
			}

			var result response.Profile
			path := "/api/v1/profile/" + url.PathEscape(username)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
