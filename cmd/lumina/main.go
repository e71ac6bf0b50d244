package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/api"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/config"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/forms"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/history"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := a.rootCmd().ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds what every subcommand shares. It is filled in by setup before
// any subcommand runs.
type app struct {
	logLevel   string
	configPath string
	envFile    string

	cfg    *config.Config
	logger *slog.Logger
	client *api.Client
	store  history.Store
	forms  *forms.Set
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lumina",
		Short: "LUMINA - tools for combating misinformation",
		Long: `LUMINA fact-checks claims, checks images and videos for manipulation,
rates links and news sources, and searches fact-checked material.

Every command sends its input to the LUMINA analysis backend and prints the
result. Use "lumina serve" for the web interface and "lumina bot" for the
Telegram bot.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup(cmd) },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	pf.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&a.envFile, "env-file", ".env", "Path to a .env file")
	config.RegisterFlags(pf)

	root.AddCommand(
		a.factCheckCmd(),
		a.batchCmd(),
		a.imageCmd(),
		a.videoCmd(),
		a.urlCmd(),
		a.biasCmd(),
		a.mediaCmd(),
		a.neutralCmd(),
		a.socialCmd(),
		a.searchCmd(),
		a.historyCmd(),
		a.healthCmd(),
		a.serveCmd(),
		a.botCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.logger = newLogger(a.logLevel, cmd.ErrOrStderr())
	slog.SetDefault(a.logger)

	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("invalid flag: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.client = api.New(cfg.APIOptions(a.logger))
	a.store, err = history.Open(cmd.Context(), cfg.HistoryOptions(a.logger))
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	a.forms = forms.NewSet(a.client, a.store, cfg.Limits(), cfg.Language, a.logger)

	a.logger.Debug("Configured", "backend", cfg.BackendURL, "language", cfg.Language, "history", cfg.HistoryBackend)
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close history", "error", err)
	}
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var logLevelValue slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevelValue = slog.LevelDebug
	case "info":
		logLevelValue = slog.LevelInfo
	case "warn":
		logLevelValue = slog.LevelWarn
	case "error":
		logLevelValue = slog.LevelError
	default:
		fmt.Fprintf(w, "Invalid log level: %s. Defaulting to info.\n", level)
		logLevelValue = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevelValue}))
}
