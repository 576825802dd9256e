// Package cli holds the chatroom cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"chatroom/internal/config"
	"chatroom/internal/di"
	"chatroom/internal/logger"
	"chatroom/internal/tui"
)

type rootOpts struct {
	Backend     string
	MetricsAddr string
	LogFile     string
	Token       string
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	opts := &rootOpts{}
	var (
		cfg       *config.Config
		logCloser io.Closer
		stopStats func()
	)

	cmd := &cobra.Command{
		Use:           "chatroom",
		Short:         "Terminal client for the chat room",
		Long:          "chatroom signs you in and opens the shared chat room. Without a subcommand it starts the interactive client.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.LoadConfig()
			applyRootOpts(cfg, opts, cmd.Name())
			if err := cfg.Validate(); err != nil {
				return err
			}

			closer, err := logger.Init(cfg.Logging)
			if err != nil {
				return err
			}
			logCloser = closer

			if cfg.Server.MetricsAddr != "" {
				stopStats = serveMetrics(cfg.Server.MetricsAddr)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if stopStats != nil {
				stopStats()
			}
			if logCloser != nil {
				logCloser.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), cfg, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Backend, "backend", "", "Backend to use: firebase, selfhost or memory (default $CHAT_BACKEND)")
	flags.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address")
	flags.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	flags.StringVar(&opts.Token, "token", "", "Resume a session token instead of signing in (selfhost)")

	cfgFn := func() *config.Config { return cfg }
	cmd.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Start the interactive client",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTUI(cmd.Context(), cfg, opts)
			},
		},
		NewTailCmd(cfgFn, opts),
		NewSendCmd(cfgFn, opts),
		NewSignUpCmd(cfgFn),
	)
	return cmd
}

// applyRootOpts layers flags over the environment. The interactive client
// owns the terminal, so its logs go to a file unless one is configured.
func applyRootOpts(cfg *config.Config, opts *rootOpts, command string) {
	if opts.Backend != "" {
		cfg.Backend.Kind = opts.Backend
	}
	if opts.MetricsAddr != "" {
		cfg.Server.MetricsAddr = opts.MetricsAddr
	}
	switch {
	case opts.LogFile != "":
		cfg.Logging.OutputPath = opts.LogFile
	case isInteractive(command) && isConsole(cfg.Logging.OutputPath):
		cfg.Logging.OutputPath = filepath.Join(os.TempDir(), "chatroom.log")
	}
}

func isInteractive(command string) bool {
	return command == "chatroom" || command == "tui"
}

func isConsole(path string) bool {
	return path == "" || path == "stderr" || path == "stdout"
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runTUI(parent context.Context, cfg *config.Config, opts *rootOpts) error {
	ctx, stop := signalContext(parent)
	defer stop()

	app, cleanup, err := di.InitializeApplication(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer cleanup()

	if opts.Token != "" {
		if _, err := resume(ctx, app.Gateway.Auth, opts.Token); err != nil {
			return err
		}
	}
	return tui.Run(ctx, app.TUIDeps())
}
