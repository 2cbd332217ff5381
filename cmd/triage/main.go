package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Triage/internal/config"
	"github.com/MikeSquared-Agency/Triage/internal/prioritizer"
	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

var version = "dev"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "triage",
		Short:        "Triage scores and ranks tasks by urgency, importance, effort and dependencies",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.verbose {
				cfg.Logging.Level = "debug"
			}
			a.cfg = cfg
			a.logger = newLogger(cmd.ErrOrStderr(), "text", cfg.LogLevel())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newScoreCmd(a, "analyze"))
	root.AddCommand(newScoreCmd(a, "suggest"))
	root.AddCommand(newStrategiesCmd(a))
	return root
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newAnalyzer builds the scoring pipeline described by the config.
func (a *app) newAnalyzer() (*prioritizer.Analyzer, error) {
	table, err := a.cfg.Strategies()
	if err != nil {
		return nil, fmt.Errorf("strategies: %w", err)
	}
	scorer := scoring.NewScorer(table, a.cfg.Scoring.Thresholds, a.logger).
		WithDefault(scoring.Strategy(a.cfg.Scoring.DefaultStrategy))
	return prioritizer.New(scorer, a.cfg.Scoring.SuggestionCount, a.logger), nil
}
