// Package cli implements deskctl, the command-line front end of the desk.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/translation-desk/internal/app"
	"github.com/heartmarshall/translation-desk/internal/config"
)

type options struct {
	ConfigPath string
	JSON       bool
}

// NewRootCmd builds the deskctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "deskctl",
		Short:        "Operate the legal translation desk from a terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  deskctl login --username zhang
  deskctl clients
  deskctl upload c1 contract.pdf id-card.png
  deskctl watch c1
  deskctl export c1 out.zip
`),
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", os.Getenv("CONFIG_PATH"), "Path to the YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Print machine-readable JSON")

	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newClientsCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newUploadCmd(opts))
	cmd.AddCommand(newTranslateCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newMetricsCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command with SIGINT/SIGTERM cancelling the context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func loadConfig(opts *options) (*config.Config, error) {
	if opts.ConfigPath != "" {
		if err := os.Setenv("CONFIG_PATH", opts.ConfigPath); err != nil {
			return nil, fmt.Errorf("set config path: %w", err)
		}
	}
	return config.Load()
}

// openApp loads configuration, wires the desk and restores the persisted
// session. Callers must Close the returned App.
func openApp(ctx context.Context, opts *options) (*app.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(cfg.Log)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := a.Bootstrap(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// openSession is openApp for commands that need a signed-in user.
func openSession(ctx context.Context, opts *options) (*app.App, error) {
	a, err := openApp(ctx, opts)
	if err != nil {
		return nil, err
	}
	if !a.Store.Snapshot().Authenticated() {
		_ = a.Close()
		return nil, errNotSignedIn
	}
	return a, nil
}

var errNotSignedIn = errors.New("not signed in: run deskctl login first")

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
