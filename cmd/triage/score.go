package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Triage/internal/cli"
	"github.com/MikeSquared-Agency/Triage/internal/task"
)

type scoreOptions struct {
	strategy string
	today    string
	output   string
}

// newScoreCmd builds the analyze or suggest subcommand; both read the same
// task file format.
func newScoreCmd(a *app, op string) *cobra.Command {
	opts := &scoreOptions{}

	short := "Score every task in a JSON or YAML file and print them highest first"
	if op == "suggest" {
		short = "Print the top tasks to work on next from a JSON or YAML file"
	}

	cmd := &cobra.Command{
		Use:   op + " FILE",
		Short: short,
		Long:  short + `. FILE may be "-" for standard input and may hold a bare list of tasks or a {tasks, strategy} document.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.score(cmd, op, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "scoring strategy (overrides the file)")
	cmd.Flags().StringVar(&opts.today, "today", "", "date to score against, YYYY-MM-DD (default: current date)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func (a *app) score(cmd *cobra.Command, op, path string, opts *scoreOptions) error {
	format, err := cli.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	today, err := parseToday(opts.today)
	if err != nil {
		return err
	}

	req, err := cli.ReadRequest(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if opts.strategy != "" {
		req.Strategy = opts.strategy
	}

	analyzer, err := a.newAnalyzer()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if op == "suggest" {
		resp, analysis, err := analyzer.HandleSuggest(req, today)
		if err != nil {
			return err
		}
		return cli.RenderAnalysis(out, format, "Suggestions", resp, analysis)
	}
	resp, analysis, err := analyzer.HandleAnalyze(req, today)
	if err != nil {
		return err
	}
	return cli.RenderAnalysis(out, format, "Analysis", resp, analysis)
}

func parseToday(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(task.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q: want YYYY-MM-DD", s)
	}
	return t, nil
}
