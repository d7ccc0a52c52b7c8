package commands

import (
	"fmt"
	"strconv"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/cli"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/decision"
	"github.com/spf13/cobra"
)

var defaultVariation string

var experimentCmd = &cobra.Command{
	Use:   "experiment <key>",
	Short: "Decide an A/B test variation",
	Long: `Decide which variation of an A/B test the user is assigned to.

The decision never fails: unknown experiments and evaluation errors fall back
to the default variation, and the reason column says why.

Examples:
  hackle experiment 42 --user-id u-1
  hackle experiment 42 --id device-9 --prop age=31 --default B
  hackle experiment 42 --profile qa --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		u, err := buildUser()
		if err != nil {
			return fmt.Errorf("invalid user: %w", err)
		}

		d := s.decider.Experiment(key, u, defaultVariation)
		if err := cli.PrintExperimentDecision(cmd.OutOrStdout(), cli.ExperimentDecision{Key: key, Decision: d}, cli.OutputFormat(format)); err != nil {
			return err
		}
		return s.writeMetrics(cmd.ErrOrStderr())
	},
}

func parseKey(arg string) (int64, error) {
	key, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid key '%s': must be an integer", arg)
	}
	return key, nil
}

func init() {
	experimentCmd.Flags().StringVar(&defaultVariation, "default", decision.DefaultVariationKey, "Variation returned when no decision can be made")
	addUserFlags(experimentCmd)
	rootCmd.AddCommand(experimentCmd)
}
