package evaluation

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
)

// ExperimentTargetDeterminer decides whether the user is in an A/B test's
// target audience.
type ExperimentTargetDeterminer interface {
	IsUserInExperimentTarget(ws model.Workspace, exp *model.Experiment, u user.HackleUser) (bool, error)
}

// TargetRuleDeterminer returns the feature flag target rule matching the user.
type TargetRuleDeterminer interface {
	DetermineTargetRule(ws model.Workspace, exp *model.Experiment, u user.HackleUser) (*model.TargetRule, bool, error)
}

// OverrideEvaluator returns a variation forced on the user.
type OverrideEvaluator struct {
	resolver *OverrideResolver
}

func (e *OverrideEvaluator) Evaluate(req Request, next Flow) (Evaluation, error) {
	variation, ok, err := e.resolver.Resolve(req.Workspace, req.Experiment, req.User)
	if err != nil {
		return Evaluation{}, err
	}
	if !ok {
		return next.Evaluate(req)
	}

	switch req.Experiment.Type {
	case model.TypeABTest:
		return NewVariationEvaluation(req.Workspace, variation, model.ReasonOverridden)
	case model.TypeFeatureFlag:
		return NewVariationEvaluation(req.Workspace, variation, model.ReasonIndividualTargetMatch)
	default:
		return Evaluation{}, model.Errorf("unsupported experiment type [%s]", req.Experiment.Type)
	}
}

type DraftExperimentEvaluator struct{}

func (DraftExperimentEvaluator) Evaluate(req Request, next Flow) (Evaluation, error) {
	if req.Experiment.Status == model.StatusDraft {
		return defaultEvaluation(req, model.ReasonExperimentDraft)
	}
	return next.Evaluate(req)
}

// PausedExperimentEvaluator returns the default variation for a paused
// experiment. A paused feature flag is reported as inactive.
type PausedExperimentEvaluator struct{}

func (PausedExperimentEvaluator) Evaluate(req Request, next Flow) (Evaluation, error) {
	if req.Experiment.Status != model.StatusPaused {
		return next.Evaluate(req)
	}
	switch req.Experiment.Type {
	case model.TypeABTest:
		return defaultEvaluation(req, model.ReasonExperimentPaused)
	case model.TypeFeatureFlag:
		return defaultEvaluation(req, model.ReasonFeatureFlagInactive)
	default:
		return Evaluation{}, model.Errorf("unsupported experiment type [%s]", req.Experiment.Type)
	}
}

// CompletedExperimentEvaluator returns the winner of a completed experiment.
// A completed experiment without a winner is corrupt data.
type CompletedExperimentEvaluator struct{}

func (CompletedExperimentEvaluator) Evaluate(req Request, next Flow) (Evaluation, error) {
	if req.Experiment.Status != model.StatusCompleted {
		return next.Evaluate(req)
	}
	winner, ok := req.Experiment.WinnerVariation()
	if !ok {
		return Evaluation{}, model.Errorf("winner variation [%d]", req.Experiment.ID)
	}
	return NewVariationEvaluation(req.Workspace, winner, model.ReasonExperimentCompleted)
}

type ExperimentTargetEvaluator struct {
	determiner ExperimentTargetDeterminer
}

func (e *ExperimentTargetEvaluator) Evaluate(req Request, next Flow) (Evaluation, error) {
	if req.Experiment.Type != model.TypeABTest {
		return Evaluation{}, model.Errorf("Experiment type must be abTest [%d]", req.Experiment.ID)
	}

	inTarget, err := e.determiner.IsUserInExperimentTarget(req.Workspace, req.Experiment, req.User)
	if err != nil {
		return Evaluation{}, err
	}
	if !inTarget {
		return defaultEvaluation(req, model.ReasonNotInExperimentTarget)
	}
	return next.Evaluate(req)
}

// ContainerEvaluator enforces mutual exclusion. Experiments outside a
// container pass through.
type ContainerEvaluator struct {
	resolver *ContainerResolver
}

func (e *ContainerEvaluator) Evaluate(req Request, next Flow) (Evaluation, error) {
	containerID := req.Experiment.ContainerID
	if containerID == nil {
		return next.Evaluate(req)
	}

	container, ok := req.Workspace.Container(*containerID)
	if !ok {
		return Evaluation{}, model.Errorf("container[%d]", *containerID)
	}
	bucket, ok := req.Workspace.Bucket(container.BucketID)
	if !ok {
		return Evaluation{}, model.Errorf("bucket[%d]", container.BucketID)
	}

	inGroup, err := e.resolver.IsUserInContainerGroup(container, bucket, req.Experiment, req.User)
	if err != nil {
		return Evaluation{}, err
	}
	if !inGroup {
		return defaultEvaluation(req, model.ReasonNotInMutualExclusionExperiment)
	}
	return next.Evaluate(req)
}

// TrafficAllocateEvaluator buckets the user through the experiment's default
// rule. It is the last step of the A/B test flow.
type TrafficAllocateEvaluator struct {
	actions *ActionResolver
}

func (e *TrafficAllocateEvaluator) Evaluate(req Request, _ Flow) (Evaluation, error) {
	exp := req.Experiment
	if exp.Status != model.StatusRunning {
		return Evaluation{}, model.Errorf("Experiment status must be running [%d]", exp.ID)
	}
	if exp.Type != model.TypeABTest {
		return Evaluation{}, model.Errorf("Experiment type must be abTest [%d]", exp.ID)
	}

	variation, ok, err := e.actions.Resolve(req.Workspace, exp, req.User, exp.DefaultRule)
	if err != nil {
		return Evaluation{}, err
	}
	if !ok {
		return defaultEvaluation(req, model.ReasonTrafficNotAllocated)
	}
	if variation.IsDropped {
		return defaultEvaluation(req, model.ReasonVariationDropped)
	}
	return NewVariationEvaluation(req.Workspace, variation, model.ReasonTrafficAllocated)
}

type IdentifierEvaluator struct{}

func (IdentifierEvaluator) Evaluate(req Request, next Flow) (Evaluation, error) {
	if _, ok := req.identifier(); !ok {
		return defaultEvaluation(req, model.ReasonIdentifierNotFound)
	}
	return next.Evaluate(req)
}

// TargetRuleEvaluator applies the first matching feature flag target rule.
// A matching rule must resolve to a variation.
type TargetRuleEvaluator struct {
	determiner TargetRuleDeterminer
	actions    *ActionResolver
}

func (e *TargetRuleEvaluator) Evaluate(req Request, next Flow) (Evaluation, error) {
	exp := req.Experiment
	if err := requireRunningFeatureFlag(exp); err != nil {
		return Evaluation{}, err
	}
	if _, ok := req.identifier(); !ok {
		return next.Evaluate(req)
	}

	rule, ok, err := e.determiner.DetermineTargetRule(req.Workspace, exp, req.User)
	if err != nil {
		return Evaluation{}, err
	}
	if !ok {
		return next.Evaluate(req)
	}

	variation, ok, err := e.actions.Resolve(req.Workspace, exp, req.User, rule.Action)
	if err != nil {
		return Evaluation{}, err
	}
	if !ok {
		return Evaluation{}, model.Errorf("FeatureFlag must decide the Variation [%d]", exp.ID)
	}
	return NewVariationEvaluation(req.Workspace, variation, model.ReasonTargetRuleMatch)
}

// DefaultRuleEvaluator is the last step of the feature flag flow.
type DefaultRuleEvaluator struct {
	actions *ActionResolver
}

func (e *DefaultRuleEvaluator) Evaluate(req Request, _ Flow) (Evaluation, error) {
	exp := req.Experiment
	if err := requireRunningFeatureFlag(exp); err != nil {
		return Evaluation{}, err
	}
	if _, ok := req.identifier(); !ok {
		return defaultEvaluation(req, model.ReasonDefaultRule)
	}

	variation, ok, err := e.actions.Resolve(req.Workspace, exp, req.User, exp.DefaultRule)
	if err != nil {
		return Evaluation{}, err
	}
	if !ok {
		return Evaluation{}, model.Errorf("FeatureFlag must decide the Variation [%d]", exp.ID)
	}
	return NewVariationEvaluation(req.Workspace, variation, model.ReasonDefaultRule)
}

func requireRunningFeatureFlag(exp *model.Experiment) error {
	if exp.Status != model.StatusRunning {
		return model.Errorf("Experiment status must be running [%d]", exp.ID)
	}
	if exp.Type != model.TypeFeatureFlag {
		return model.Errorf("Experiment type must be featureFlag [%d]", exp.ID)
	}
	return nil
}
