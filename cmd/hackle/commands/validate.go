package commands

import (
	"fmt"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/validation"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/workspace"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a workspace document",
	Long: `Check a workspace document for broken references, unsupported actions
and overlapping bucket slots.

Decisions stay safe against such documents, but the affected entities are
dropped or fall back to the default variation. Validate reports them instead.

Examples:
  hackle validate workspace.yaml
  hackle validate workspace.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := workspace.ReadDocument(args[0])
		if err != nil {
			return err
		}

		result := validation.ValidateDocument(doc)
		out := cmd.OutOrStdout()
		if result.Valid {
			fmt.Fprintln(out, "Workspace is valid")
			return nil
		}

		table := tablewriter.NewWriter(out)
		table.Header("Field", "Error")
		for _, field := range result.Fields() {
			table.Append(field, result.Errors[field])
		}
		if err := table.Render(); err != nil {
			return err
		}
		return fmt.Errorf("%d validation error(s)", len(result.Errors))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
