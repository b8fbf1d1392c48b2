package commands

import "github.com/spf13/cobra"

func (c *CLI) newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the cached menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clear(cmd.Context())
		},
	}
}

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the persistent cache holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return c.app.Status(cmd.Context(), cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "Print the status as JSON")
	return cmd
}
