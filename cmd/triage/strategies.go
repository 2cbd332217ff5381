package main

import (
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Triage/internal/cli"
)

func newStrategiesCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List scoring strategies and their weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseFormat(output)
			if err != nil {
				return err
			}
			analyzer, err := a.newAnalyzer()
			if err != nil {
				return err
			}
			return cli.RenderStrategies(cmd.OutOrStdout(), format, analyzer.Scorer().Catalogue())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}
