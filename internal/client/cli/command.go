package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/quotekeeper/internal/client/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newAppFn is a test seam for App construction.
var newAppFn = NewApp

// NewRootCommand builds the quotes command tree. Without a subcommand it
// starts the interactive REPL.
func NewRootCommand() *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "quotes",
		Short:         "Terminal client for the quotes platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := applyFlags(cmd.Flags(), cfg); err != nil {
				return err
			}
			app, err = newAppFn(cmd.Context(), cfg)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.Root(cmd.Context())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (JSON or YAML)")
	pf.StringP("api", "a", "", "base URL of the quotes API")
	pf.IntP("interval", "i", 0, "session check interval (in seconds)")
	pf.StringP("store", "s", "", "path of the local store")
	pf.StringP("log-level", "l", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "repl",
			Short: "Start the interactive shell (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				app.Root(cmd.Context())
				return nil
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the signed-in user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				app.session.Initialize(cmd.Context())
				return app.WhoAmI(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "list [page]",
			Short: "List the latest quotes",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				page := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return fmt.Errorf("invalid page %q", args[0])
					}
					page = n
				}
				return oneShot(cmd.Context(), func(ctx context.Context) error {
					return app.List(ctx, page)
				})
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the stored session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.Logout(cmd.Context())
			},
		},
	)

	return root
}

// ErrReported is returned by commands that already printed their failure.
// Callers should exit non-zero without printing it again.
var ErrReported = errors.New("error already reported")

// oneShot runs fn and reports an API failure the way the REPL does.
func oneShot(ctx context.Context, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		printlnFn(renderError(err))
		return fmt.Errorf("%w: %w", ErrReported, err)
	}
	return nil
}

// applyFlags overlays the long-form flags onto cfg. The short forms are
// already handled by config.LoadConfig; both end up with the same value.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("api") {
		cfg.APIBaseURL, _ = fs.GetString("api")
	}
	if fs.Changed("interval") {
		n, _ := fs.GetInt("interval")
		cfg.SessionCheckInterval = time.Duration(n) * time.Second
	}
	if fs.Changed("store") {
		cfg.StorePath, _ = fs.GetString("store")
	}
	if fs.Changed("log-level") {
		cfg.LogLevel, _ = fs.GetString("log-level")
	}
	return cfg.Validate()
}
