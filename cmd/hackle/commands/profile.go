package commands

import (
	"fmt"
	"sort"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/cli"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/spf13/cobra"
)

var makeDefault bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved user profiles",
	Long:  `Manage test users saved in ~/.hackle/profiles.yaml.`,
}

var profileSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a user profile",
	Long: `Save the identifiers and properties given as flags under a name, so
later decisions can reuse them with --profile.

Example:
  hackle profile save qa --user-id qa-1 --prop grade=gold --default`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		path, err := cli.GetProfilesPath()
		if err != nil {
			return err
		}
		profiles, err := cli.LoadProfiles(path)
		if err != nil {
			return err
		}

		props, err := cli.ParseProperties(properties)
		if err != nil {
			return err
		}
		identifiers := make(map[string]string)
		for identifierType, value := range map[string]string{
			model.IdentifierID:       id,
			model.IdentifierUserID:   userID,
			model.IdentifierDeviceID: deviceID,
		} {
			if value != "" {
				identifiers[identifierType] = value
			}
		}
		if len(identifiers) == 0 {
			return fmt.Errorf("a profile needs at least one of --id, --user-id or --device-id")
		}

		profiles.Users[name] = cli.Profile{Identifiers: identifiers, Properties: props}
		if makeDefault {
			profiles.DefaultProfile = name
		}
		if err := cli.SaveProfiles(path, profiles); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' saved to %s\n", name, path)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved user profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cli.GetProfilesPath()
		if err != nil {
			return err
		}
		profiles, err := cli.LoadProfiles(path)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(profiles.Users))
		for name := range profiles.Users {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			marker := " "
			if name == profiles.DefaultProfile {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, name)
			p := profiles.Users[name]
			for _, t := range sortedKeys(p.Identifiers) {
				fmt.Fprintf(out, "    %s: %s\n", t, p.Identifiers[t])
			}
			for _, k := range sortedKeys(p.Properties) {
				fmt.Fprintf(out, "    %s = %v\n", k, p.Properties[k])
			}
		}
		return nil
	},
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	profileSaveCmd.Flags().BoolVar(&makeDefault, "default", false, "Use this profile when --profile is not given")
	addUserFlags(profileSaveCmd)

	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileListCmd)
	rootCmd.AddCommand(profileCmd)
}
