// Package decision exposes evaluation results to the host application. Every
// call returns a usable decision; evaluation failures degrade to the default
// variation with reason EXCEPTION and never reach the caller.
package decision

import (
	"encoding/json"
	"maps"
	"math"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
)

// Decision is the result of deciding an A/B test.
type Decision struct {
	Variation string               `json:"variation" yaml:"variation"`
	Reason    model.DecisionReason `json:"reason" yaml:"reason"`
	Config    ParameterConfig      `json:"parameters" yaml:"parameters"`
}

// FeatureFlagDecision is the result of deciding a feature flag.
type FeatureFlagDecision struct {
	On     bool                 `json:"isOn" yaml:"isOn"`
	Reason model.DecisionReason `json:"reason" yaml:"reason"`
	Config ParameterConfig      `json:"parameters" yaml:"parameters"`
}

// ParameterConfig is a read-only view of the parameters attached to a
// variation. Getters return the default when the key is absent or holds a
// value of another type.
type ParameterConfig struct {
	parameters map[string]any
}

// NewParameterConfig copies parameters.
func NewParameterConfig(parameters map[string]any) ParameterConfig {
	return ParameterConfig{parameters: maps.Clone(parameters)}
}

func fromModel(config *model.ParameterConfiguration) ParameterConfig {
	if config == nil {
		return ParameterConfig{}
	}
	return NewParameterConfig(config.Parameters)
}

// Parameters returns a copy of all parameters.
func (c ParameterConfig) Parameters() map[string]any {
	if c.parameters == nil {
		return map[string]any{}
	}
	return maps.Clone(c.parameters)
}

func (c ParameterConfig) String(key, defaultValue string) string {
	if s, ok := c.parameters[key].(string); ok {
		return s
	}
	return defaultValue
}

// Int accepts whole numbers of any numeric type that fit in an int.
func (c ParameterConfig) Int(key string, defaultValue int) int {
	n, ok := model.ToFloat64(c.parameters[key])
	if !ok || n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
		return defaultValue
	}
	return int(n)
}

func (c ParameterConfig) Float(key string, defaultValue float64) float64 {
	if n, ok := model.ToFloat64(c.parameters[key]); ok {
		return n
	}
	return defaultValue
}

func (c ParameterConfig) Bool(key string, defaultValue bool) bool {
	if b, ok := c.parameters[key].(bool); ok {
		return b
	}
	return defaultValue
}

func (c ParameterConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Parameters())
}

// MarshalYAML renders the parameters as a plain mapping.
func (c ParameterConfig) MarshalYAML() (any, error) {
	return c.Parameters(), nil
}
