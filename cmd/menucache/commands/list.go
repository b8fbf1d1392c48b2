package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/menucache/internal/app"
)

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("category", "c", "", "Only show items in this category")
	cmd.Flags().StringSliceP("fields", "f", nil, "Columns to show (menu_id, dish_name, category, price, stock_status, description, image_url)")
	cmd.Flags().Bool("json", false, "Print the menu state as JSON")
}

func listOptions(cmd *cobra.Command) app.ListOptions {
	category, _ := cmd.Flags().GetString("category")
	fields, _ := cmd.Flags().GetStringSlice("fields")
	asJSON, _ := cmd.Flags().GetBool("json")
	return app.ListOptions{
		Category: category,
		Fields:   fields,
		JSON:     asJSON,
	}
}

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the menu, using the cache when it is fresh",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.List(cmd.Context(), cmd.OutOrStdout(), listOptions(cmd))
		},
	}
	addListFlags(cmd)
	return cmd
}

func (c *CLI) newRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the menu from the API, bypassing every cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Refresh(cmd.Context(), cmd.OutOrStdout(), listOptions(cmd))
		},
	}
	addListFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the menu and follow live changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), cmd.OutOrStdout(), listOptions(cmd))
		},
	}
	addListFlags(cmd)
	return cmd
}
