package commands

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/cli"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/spf13/cobra"
)

var (
	listExperiments bool
	listFlags       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List experiments and feature flags",
	Long: `List the A/B tests and feature flags in the workspace, ordered by key.

Examples:
  hackle list
  hackle list --flags --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		// Neither filter means both
		all := !listExperiments && !listFlags
		var experiments []*model.Experiment
		if all || listExperiments {
			experiments = append(experiments, s.workspace.Experiments()...)
		}
		if all || listFlags {
			experiments = append(experiments, s.workspace.FeatureFlags()...)
		}

		return cli.PrintExperiments(cmd.OutOrStdout(), cli.Summarize(experiments), cli.OutputFormat(format))
	},
}

func init() {
	listCmd.Flags().BoolVar(&listExperiments, "experiments", false, "Only A/B tests")
	listCmd.Flags().BoolVar(&listFlags, "flags", false, "Only feature flags")
	rootCmd.AddCommand(listCmd)
}
