package commands

import (
	"fmt"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/cli"
	"github.com/spf13/cobra"
)

var flagCmd = &cobra.Command{
	Use:   "flag <key>",
	Short: "Decide whether a feature flag is on",
	Long: `Decide whether a feature flag is on for the user.

Examples:
  hackle flag 7 --user-id u-1
  hackle flag 7 --device-id d-1 --hackle-prop platform=Android --format json`,
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

		d := s.decider.FeatureFlag(key, u)
		if err := cli.PrintFlagDecision(cmd.OutOrStdout(), cli.FlagDecision{Key: key, FeatureFlagDecision: d}, cli.OutputFormat(format)); err != nil {
			return err
		}
		return s.writeMetrics(cmd.ErrOrStderr())
	},
}

func init() {
	addUserFlags(flagCmd)
	rootCmd.AddCommand(flagCmd)
}
