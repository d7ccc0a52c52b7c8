package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/cli"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/config"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/decision"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/logging"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/snapshot"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/telemetry"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/workspace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	workspaceFile string
	format        string
	logLevel      string
	showMetrics   bool

	// User flags
	profileName      string
	id               string
	userID           string
	deviceID         string
	properties       []string
	hackleProperties []string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hackle",
	Short: "Decide experiments and feature flags against a workspace file",
	Long: `Hackle evaluates A/B tests and feature flags locally against a workspace
document (JSON or YAML), the same way the SDK does at runtime.

It is meant for checking targeting and bucketing before a change ships:
which variation a user lands in, which rule matched, and why.

Examples:
  hackle list --workspace workspace.yaml
  hackle experiment 42 --user-id u-1 --prop grade=gold
  hackle flag 7 --id device-9 --format json
  hackle profile save qa --user-id qa-1 --prop grade=gold`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&workspaceFile, "workspace", "", "Workspace document (defaults to HACKLE_WORKSPACE_FILE)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (defaults to HACKLE_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "Write decision metrics to stderr after deciding")
}

// addUserFlags registers the flags that describe the evaluated user.
func addUserFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&profileName, "profile", "", "Saved user profile to start from")
	cmd.Flags().StringVar(&id, "id", "", "User $id identifier")
	cmd.Flags().StringVar(&userID, "user-id", "", "User $userId identifier")
	cmd.Flags().StringVar(&deviceID, "device-id", "", "User $deviceId identifier")
	cmd.Flags().StringArrayVar(&properties, "prop", nil, "User property key=value (repeatable)")
	cmd.Flags().StringArrayVar(&hackleProperties, "hackle-prop", nil, "SDK property key=value (repeatable)")
}

// session is everything a deciding command needs.
type session struct {
	workspace *workspace.Workspace
	decider   *decision.Decider
	registry  *prometheus.Registry
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	bootstrap := logging.NewConsole("warn", os.Stderr)
	cfg, err := config.Load(bootstrap)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if workspaceFile != "" {
		cfg.WorkspaceFile = workspaceFile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.WorkspaceFile == "" {
		return nil, fmt.Errorf("no workspace file: pass --workspace or set HACKLE_WORKSPACE_FILE")
	}

	logger := logging.NewConsole(cfg.LogLevel, os.Stderr)
	ws, document, err := workspace.NewParser(logger).LoadFile(cfg.WorkspaceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics, err := telemetry.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	holder := snapshot.NewHolder()
	holder.Update(snapshot.New(ws, document))
	logger.Debug().Str("file", cfg.WorkspaceFile).Msg("workspace loaded")

	return &session{
		workspace: ws,
		decider:   decision.NewDecider(holder, decision.WithLogger(logger), decision.WithMetrics(metrics)),
		registry:  registry,
	}, nil
}

// writeMetrics dumps the registry in the Prometheus text format when
// --metrics is set.
func (s *session) writeMetrics(w io.Writer) error {
	if !showMetrics {
		return nil
	}
	families, err := s.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// buildUser combines the saved profile with the user flags. Flags win. Without
// --profile the default profile, if any, is used.
func buildUser() (user.HackleUser, error) {
	opts, err := profileOptions()
	if err != nil {
		return user.HackleUser{}, err
	}

	props, err := cli.ParseProperties(properties)
	if err != nil {
		return user.HackleUser{}, err
	}
	hackleProps, err := cli.ParseProperties(hackleProperties)
	if err != nil {
		return user.HackleUser{}, err
	}

	opts = append(opts,
		user.WithID(id),
		user.WithUserID(userID),
		user.WithDeviceID(deviceID),
		user.WithProperties(props),
	)
	for k, v := range hackleProps {
		opts = append(opts, user.WithHackleProperty(k, v))
	}
	return user.New(opts...), nil
}

func profileOptions() ([]user.Option, error) {
	path, err := cli.GetProfilesPath()
	if err != nil {
		if profileName == "" {
			return nil, nil
		}
		return nil, err
	}
	profiles, err := cli.LoadProfiles(path)
	if err != nil {
		return nil, err
	}
	profile, ok, err := profiles.Lookup(profileName)
	if err != nil || !ok {
		return nil, err
	}
	return profile.Options(), nil
}
