package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/config"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/decision"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ExperimentDecision is a printable A/B test decision.
type ExperimentDecision struct {
	Key               int64 `json:"key" yaml:"key"`
	decision.Decision `yaml:",inline"`
}

// FlagDecision is a printable feature flag decision.
type FlagDecision struct {
	Key                          int64 `json:"key" yaml:"key"`
	decision.FeatureFlagDecision `yaml:",inline"`
}

// ExperimentSummary is one row of the list command.
type ExperimentSummary struct {
	Key        int64  `json:"key" yaml:"key"`
	ID         int64  `json:"id" yaml:"id"`
	Type       string `json:"type" yaml:"type"`
	Status     string `json:"status" yaml:"status"`
	Variations string `json:"variations" yaml:"variations"`
	Container  string `json:"container,omitempty" yaml:"container,omitempty"`
}

// Summarize converts experiments into list rows.
func Summarize(experiments []*model.Experiment) []ExperimentSummary {
	rows := make([]ExperimentSummary, 0, len(experiments))
	for _, e := range experiments {
		keys := make([]string, 0, len(e.Variations))
		for _, v := range e.Variations {
			key := v.Key
			if v.IsDropped {
				key += " (dropped)"
			}
			keys = append(keys, key)
		}
		row := ExperimentSummary{
			Key:        e.Key,
			ID:         e.ID,
			Type:       string(e.Type),
			Status:     string(e.Status),
			Variations: strings.Join(keys, ", "),
		}
		if e.ContainerID != nil {
			row.Container = strconv.FormatInt(*e.ContainerID, 10)
		}
		rows = append(rows, row)
	}
	return rows
}

// PrintExperimentDecision outputs an A/B test decision in the specified format
func PrintExperimentDecision(w io.Writer, d ExperimentDecision, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(w, d)
	case FormatYAML:
		return printYAML(w, d)
	case FormatTable:
		table := tablewriter.NewWriter(w)
		table.Header("Key", "Variation", "Reason", "Parameters")
		table.Append(strconv.FormatInt(d.Key, 10), d.Variation, string(d.Reason), formatParameters(d.Config))
		return table.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintFlagDecision outputs a feature flag decision in the specified format
func PrintFlagDecision(w io.Writer, d FlagDecision, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(w, d)
	case FormatYAML:
		return printYAML(w, d)
	case FormatTable:
		table := tablewriter.NewWriter(w)
		table.Header("Key", "On", "Reason", "Parameters")
		table.Append(strconv.FormatInt(d.Key, 10), strconv.FormatBool(d.On), string(d.Reason), formatParameters(d.Config))
		return table.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintExperiments outputs experiment summaries in the specified format
func PrintExperiments(w io.Writer, rows []ExperimentSummary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(w, map[string][]ExperimentSummary{"experiments": rows})
	case FormatYAML:
		return printYAML(w, map[string][]ExperimentSummary{"experiments": rows})
	case FormatTable:
		table := tablewriter.NewWriter(w)
		table.Header("Key", "ID", "Type", "Status", "Variations", "Container")
		for _, r := range rows {
			table.Append(strconv.FormatInt(r.Key, 10), strconv.FormatInt(r.ID, 10), r.Type, r.Status, r.Variations, r.Container)
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func formatParameters(c decision.ParameterConfig) string {
	params := c.Parameters()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, " ")
}

// Setting is one resolved configuration value, named by its environment key.
type Setting struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Settings lists cfg in a stable order. The event settings only take effect
// in an SDK that delivers events; they are shown so a local setup can be
// compared with the deployed one.
func Settings(cfg *config.Config) []Setting {
	dedup := cfg.ExposureEventDedupInterval.String()
	if cfg.ExposureEventDedupInterval == config.NoDedup {
		dedup = "disabled"
	}
	return []Setting{
		{Name: "HACKLE_SDK_URL", Value: cfg.SDKURL},
		{Name: "HACKLE_EVENT_URL", Value: cfg.EventURL},
		{Name: "HACKLE_EVENT_FLUSH_INTERVAL", Value: cfg.EventFlushInterval.String()},
		{Name: "HACKLE_EVENT_FLUSH_THRESHOLD", Value: strconv.Itoa(cfg.EventFlushThreshold)},
		{Name: "HACKLE_EXPOSURE_EVENT_DEDUP_INTERVAL", Value: dedup},
		{Name: "HACKLE_LOG_LEVEL", Value: cfg.LogLevel},
		{Name: "HACKLE_WORKSPACE_FILE", Value: cfg.WorkspaceFile},
	}
}

// PrintSettings outputs configuration settings in the specified format
func PrintSettings(w io.Writer, settings []Setting, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(w, map[string][]Setting{"settings": settings})
	case FormatYAML:
		return printYAML(w, map[string][]Setting{"settings": settings})
	case FormatTable:
		table := tablewriter.NewWriter(w)
		table.Header("Setting", "Value")
		for _, s := range settings {
			table.Append(s.Name, s.Value)
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
