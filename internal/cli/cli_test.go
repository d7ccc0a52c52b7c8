package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/config"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/decision"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseProperties(t *testing.T) {
	props, err := ParseProperties([]string{
		"age=30",
		"score=4.5",
		"premium=true",
		"name=kim",
		"zip='06000'",
		"version=1.2.3",
		"note=a=b",
		"inf=Inf",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(30), props["age"])
	assert.Equal(t, 4.5, props["score"])
	assert.Equal(t, true, props["premium"])
	assert.Equal(t, "kim", props["name"])
	assert.Equal(t, "06000", props["zip"])
	assert.Equal(t, "1.2.3", props["version"])
	assert.Equal(t, "a=b", props["note"])
	assert.Equal(t, "Inf", props["inf"])
}

func TestParseProperties_Invalid(t *testing.T) {
	for _, pair := range []string{"age", "=30", " =x"} {
		_, err := ParseProperties([]string{pair})
		assert.Error(t, err, pair)
	}
}

func TestPrintExperimentDecision(t *testing.T) {
	d := ExperimentDecision{
		Key: 42,
		Decision: decision.Decision{
			Variation: "B",
			Reason:    model.ReasonTrafficAllocated,
			Config:    decision.NewParameterConfig(map[string]any{"color": "red"}),
		},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintExperimentDecision(&buf, d, FormatJSON))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, float64(42), got["key"])
		assert.Equal(t, "B", got["variation"])
		assert.Equal(t, "TRAFFIC_ALLOCATED", got["reason"])
		assert.Equal(t, map[string]any{"color": "red"}, got["parameters"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintExperimentDecision(&buf, d, FormatYAML))

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, 42, got["key"])
		assert.Equal(t, "B", got["variation"])
		assert.Equal(t, "TRAFFIC_ALLOCATED", got["reason"])
		assert.Equal(t, map[string]any{"color": "red"}, got["parameters"])
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintExperimentDecision(&buf, d, FormatTable))
		assert.Contains(t, buf.String(), "TRAFFIC_ALLOCATED")
		assert.Contains(t, buf.String(), "color=red")
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, PrintExperimentDecision(&bytes.Buffer{}, d, OutputFormat("xml")))
	})
}

func TestPrintFlagDecision(t *testing.T) {
	d := FlagDecision{
		Key:                 7,
		FeatureFlagDecision: decision.FeatureFlagDecision{On: true, Reason: model.ReasonDefaultRule},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintFlagDecision(&buf, d, FormatJSON))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, true, got["isOn"])
	assert.Equal(t, "DEFAULT_RULE", got["reason"])

	buf.Reset()
	require.NoError(t, PrintFlagDecision(&buf, d, FormatTable))
	assert.Contains(t, buf.String(), "true")
}

func TestSummarizeAndPrintExperiments(t *testing.T) {
	container := int64(5)
	rows := Summarize([]*model.Experiment{
		{
			ID: 1, Key: 10, Type: model.TypeABTest, Status: model.StatusRunning,
			Variations:  []model.Variation{{ID: 1, Key: "A"}, {ID: 2, Key: "B", IsDropped: true}},
			ContainerID: &container,
		},
		{ID: 2, Key: 20, Type: model.TypeFeatureFlag, Status: model.StatusDraft},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "A, B (dropped)", rows[0].Variations)
	assert.Equal(t, "5", rows[0].Container)
	assert.Empty(t, rows[1].Container)

	var buf bytes.Buffer
	require.NoError(t, PrintExperiments(&buf, rows, FormatJSON))
	var got map[string][]ExperimentSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, rows, got["experiments"])

	buf.Reset()
	require.NoError(t, PrintExperiments(&buf, rows, FormatTable))
	assert.Contains(t, buf.String(), "FEATURE_FLAG")
}

func TestProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profiles.yaml")

	p, err := LoadProfiles(path)
	require.NoError(t, err)
	assert.Empty(t, p.Users)

	_, ok, err := p.Lookup("")
	require.NoError(t, err)
	assert.False(t, ok)

	p.DefaultProfile = "qa"
	p.Users["qa"] = Profile{
		Identifiers: map[string]string{model.IdentifierUserID: "qa-1"},
		Properties:  map[string]any{"grade": "gold"},
	}
	require.NoError(t, SaveProfiles(path, p))

	loaded, err := LoadProfiles(path)
	require.NoError(t, err)

	profile, ok, err := loaded.Lookup("")
	require.NoError(t, err)
	require.True(t, ok)

	u := user.New(append(profile.Options(), user.WithProperty("grade", "silver"))...)
	id, _ := u.Identifier(model.IdentifierUserID)
	assert.Equal(t, "qa-1", id)
	assert.Equal(t, "silver", u.Properties["grade"])

	_, _, err = loaded.Lookup("missing")
	assert.Error(t, err)
}

func TestSettings(t *testing.T) {
	cfg := config.Default()
	cfg.ExposureEventDedupInterval = config.NoDedup

	settings := Settings(cfg)
	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Name] = s.Value
	}
	assert.Equal(t, config.DefaultEventURL, values["HACKLE_EVENT_URL"])
	assert.Equal(t, "10s", values["HACKLE_EVENT_FLUSH_INTERVAL"])
	assert.Equal(t, "disabled", values["HACKLE_EXPOSURE_EVENT_DEDUP_INTERVAL"])

	var buf bytes.Buffer
	require.NoError(t, PrintSettings(&buf, settings, FormatYAML))
	var got map[string][]Setting
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, settings, got["settings"])
}
