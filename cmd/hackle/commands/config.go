package commands

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/cli"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Display the configuration after environment variables, the .env file
and global flags are applied. Out-of-range values are shown as the defaults
that replaced them.

Examples:
  hackle config
  HACKLE_EVENT_FLUSH_INTERVAL=90 hackle config --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cli.PrintSettings(cmd.OutOrStdout(), cli.Settings(cfg), cli.OutputFormat(format))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
