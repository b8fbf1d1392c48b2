package commands

import (
	"net"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

// DefaultFeedListen is the address the feed command listens on.
const DefaultFeedListen = "127.0.0.1:7070"

func (c *CLI) newFeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Serve a change feed, publishing JSON change messages read from stdin",
		Long: `Serve a change feed that menucache clients can subscribe to.

Each stdin line is one change message, for example:

  {"eventType":"UPDATE","new":{"menu_id":3,"dish_name":"Sisig","category":"Mains","price":250,"stock_status":"low_stock"}}
  {"eventType":"DELETE","old":{"menu_id":3}}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("listen")
			table, _ := cmd.Flags().GetString("table")

			var lc net.ListenConfig
			lis, err := lc.Listen(cmd.Context(), "tcp", addr)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to listen"), "address", addr)
			}
			return c.app.ServeFeed(cmd.Context(), lis, cmd.InOrStdin(), table)
		},
	}
	cmd.Flags().StringP("listen", "l", DefaultFeedListen, "Address to serve the feed on")
	cmd.Flags().StringP("table", "t", "", "Resource name subscribers must ask for (default from config)")
	return cmd
}
