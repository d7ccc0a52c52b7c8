package decision

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/evaluation"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/snapshot"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/telemetry"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
	"github.com/rs/zerolog"
)

// DefaultVariationKey is the variation returned when no decision can be made.
// For feature flags it is also the "off" variation.
const DefaultVariationKey = "A"

// Source provides the current workspace snapshot.
type Source interface {
	Load() (*snapshot.Snapshot, bool)
}

// Decider decides experiments and feature flags against the current
// snapshot. Each call loads the snapshot once, so a concurrent update never
// affects a decision in progress.
type Decider struct {
	source    Source
	evaluator *evaluation.Evaluator
	metrics   *telemetry.Metrics
	logger    zerolog.Logger
}

type Option func(*Decider)

func WithEvaluator(e *evaluation.Evaluator) Option { return func(d *Decider) { d.evaluator = e } }

func WithMetrics(m *telemetry.Metrics) Option { return func(d *Decider) { d.metrics = m } }

func WithLogger(l zerolog.Logger) Option { return func(d *Decider) { d.logger = l } }

func NewDecider(source Source, opts ...Option) *Decider {
	d := &Decider{
		source:    source,
		evaluator: evaluation.NewDefaultEvaluator(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Experiment decides the variation of the A/B test with the given key.
func (d *Decider) Experiment(key int64, u user.HackleUser, defaultVariationKey string) Decision {
	decision := d.experiment(key, u, defaultVariationKey)
	d.metrics.RecordDecision(model.TypeABTest, decision.Reason)
	return decision
}

// Variation is Experiment with the default variation key.
func (d *Decider) Variation(key int64, u user.HackleUser) string {
	return d.Experiment(key, u, DefaultVariationKey).Variation
}

func (d *Decider) experiment(key int64, u user.HackleUser, defaultVariationKey string) Decision {
	if key <= 0 || defaultVariationKey == "" {
		return Decision{Variation: defaultVariationKey, Reason: model.ReasonInvalidInput}
	}
	snap, ok := d.source.Load()
	if !ok {
		return Decision{Variation: defaultVariationKey, Reason: model.ReasonSDKNotReady}
	}
	exp, ok := snap.Workspace.Experiment(key)
	if !ok {
		return Decision{Variation: defaultVariationKey, Reason: model.ReasonExperimentNotFound}
	}

	eval, err := d.evaluator.Evaluate(snap.Workspace, exp, u, defaultVariationKey)
	if err != nil {
		d.logger.Error().Err(err).Int64("experiment_key", key).Msg("Unexpected error while deciding variation for experiment")
		d.metrics.RecordError(model.TypeABTest)
		return Decision{Variation: defaultVariationKey, Reason: model.ReasonException}
	}
	return Decision{
		Variation: eval.VariationKey,
		Reason:    eval.Reason,
		Config:    fromModel(eval.Config),
	}
}

// FeatureFlag decides whether the feature flag with the given key is on. The
// default variation is off; every other variation is on.
func (d *Decider) FeatureFlag(key int64, u user.HackleUser) FeatureFlagDecision {
	decision := d.featureFlag(key, u)
	d.metrics.RecordDecision(model.TypeFeatureFlag, decision.Reason)
	return decision
}

// IsFeatureOn is FeatureFlag reduced to its on state.
func (d *Decider) IsFeatureOn(key int64, u user.HackleUser) bool {
	return d.FeatureFlag(key, u).On
}

func (d *Decider) featureFlag(key int64, u user.HackleUser) FeatureFlagDecision {
	if key <= 0 {
		return FeatureFlagDecision{Reason: model.ReasonInvalidInput}
	}
	snap, ok := d.source.Load()
	if !ok {
		return FeatureFlagDecision{Reason: model.ReasonSDKNotReady}
	}
	flag, ok := snap.Workspace.FeatureFlag(key)
	if !ok {
		return FeatureFlagDecision{Reason: model.ReasonFeatureFlagNotFound}
	}

	eval, err := d.evaluator.Evaluate(snap.Workspace, flag, u, DefaultVariationKey)
	if err != nil {
		d.logger.Error().Err(err).Int64("feature_key", key).Msg("Unexpected error while deciding feature flag")
		d.metrics.RecordError(model.TypeFeatureFlag)
		return FeatureFlagDecision{Reason: model.ReasonException}
	}
	return FeatureFlagDecision{
		On:     eval.VariationKey != DefaultVariationKey,
		Reason: eval.Reason,
		Config: fromModel(eval.Config),
	}
}
