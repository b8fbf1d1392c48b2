// Package commands implements the CLI commands for menucache.
package commands

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/spf13/cobra"
	"go.trai.ch/menucache/internal/app"
	"go.trai.ch/menucache/internal/build"
)

// CLI represents the command line interface for menucache.
type CLI struct {
	app     Application
	logs    LogController
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	List(ctx context.Context, w io.Writer, opts app.ListOptions) error
	Refresh(ctx context.Context, w io.Writer, opts app.ListOptions) error
	Watch(ctx context.Context, w io.Writer, opts app.ListOptions) error
	Clear(ctx context.Context) error
	Status(ctx context.Context, w io.Writer, asJSON bool) error
	ServeFeed(ctx context.Context, lis net.Listener, in io.Reader, table string) error
}

// LogController adjusts diagnostic output from the global flags.
type LogController interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

// Option configures a CLI.
type Option func(*CLI)

// WithLogController lets --verbose and --log-json reconfigure the logger.
func WithLogController(lc LogController) Option {
	return func(c *CLI) {
		c.logs = lc
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "menucache",
		Short:         "Browse the restaurant menu from a local, self-refreshing cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log cache and network decisions")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.logs == nil {
			return
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		c.logs.SetVerbose(verbose)
		c.logs.SetJSON(logJSON)
	}

	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newRefreshCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newClearCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newFeedCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the stream the feed command reads change messages from. Used for testing.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}
