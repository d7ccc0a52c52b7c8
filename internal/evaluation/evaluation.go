// Package evaluation decides which variation of an experiment applies to a
// user.
//
// Each experiment type has a fixed Flow: an ordered chain of FlowEvaluators
// where every step either returns a terminal Evaluation or delegates to the
// next step. The end of every flow resolves to the default variation, so a
// flow always produces exactly one Evaluation.
//
//	A/B test:     Override -> Draft -> Paused -> Completed -> ExperimentTarget -> Container -> TrafficAllocate
//	feature flag: Override -> Draft -> Paused -> Identifier -> TargetRule -> DefaultRule
//
// Errors:
//
//	All errors wrap model.ErrEvaluation and signal inconsistent workspace
//	data (a referenced bucket, container, group, variation or parameter
//	configuration is missing) or an evaluator used on the wrong experiment
//	type or status. Missing identifiers and mistyped user properties are not
//	errors; they fall through to the default variation.
//
// Testing:
//
//	Everything in this package is pure. Build a workspace with
//	workspace.New, a user with user.New and call Evaluator.Evaluate.
//	Buckets with a single full-range slot make allocation independent of the
//	hash; use rollout.SlotNumber to place an identifier precisely.
package evaluation

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
)

// Request is the input of a single evaluation.
type Request struct {
	Workspace           model.Workspace
	Experiment          *model.Experiment
	User                user.HackleUser
	DefaultVariationKey string
}

// identifier returns the user's identifier for the experiment's identifier type.
func (r Request) identifier() (string, bool) {
	return r.User.Identifier(r.Experiment.IdentifierType)
}

// Evaluation is the result of a flow: the selected variation and the reason it
// was selected.
//
// VariationID is nil when the default variation key does not name a variation
// of the experiment. Config is the parameter configuration attached to the
// variation, nil when it has none.
type Evaluation struct {
	VariationID  *int64
	VariationKey string
	Reason       model.DecisionReason
	Config       *model.ParameterConfiguration
}

// NewVariationEvaluation builds an Evaluation for a resolved variation.
//
// Preconditions:
//   - variation belongs to the experiment being evaluated
//
// Postconditions:
//   - Config is set when the variation references a parameter configuration
//   - returns ErrEvaluation when that configuration is missing from ws
func NewVariationEvaluation(ws model.Workspace, variation *model.Variation, reason model.DecisionReason) (Evaluation, error) {
	id := variation.ID
	e := Evaluation{
		VariationID:  &id,
		VariationKey: variation.Key,
		Reason:       reason,
	}
	if variation.ParameterConfigurationID != nil {
		config, ok := ws.ParameterConfiguration(*variation.ParameterConfigurationID)
		if !ok {
			return Evaluation{}, model.Errorf("parameter configuration[%d]", *variation.ParameterConfigurationID)
		}
		e.Config = config
	}
	return e, nil
}

// NewDefaultEvaluation builds an Evaluation for the default variation key.
// The key does not need to name a variation of the experiment.
func NewDefaultEvaluation(ws model.Workspace, exp *model.Experiment, variationKey string, reason model.DecisionReason) (Evaluation, error) {
	if variation, ok := exp.VariationByKey(variationKey); ok {
		return NewVariationEvaluation(ws, variation, reason)
	}
	return Evaluation{VariationKey: variationKey, Reason: reason}, nil
}

func defaultEvaluation(req Request, reason model.DecisionReason) (Evaluation, error) {
	return NewDefaultEvaluation(req.Workspace, req.Experiment, req.DefaultVariationKey, reason)
}
