package evaluation

import "github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"

// Flow evaluates a request to exactly one Evaluation.
type Flow interface {
	Evaluate(req Request) (Evaluation, error)
}

// FlowEvaluator is one step of a flow. It returns a terminal Evaluation or
// delegates to next unchanged. Implementations hold no per-call state.
type FlowEvaluator interface {
	Evaluate(req Request, next Flow) (Evaluation, error)
}

// NewFlow chains evaluators in order. Falling off the end of the chain selects
// the default variation with TRAFFIC_NOT_ALLOCATED.
func NewFlow(evaluators ...FlowEvaluator) Flow {
	var flow Flow = endFlow{}
	for i := len(evaluators) - 1; i >= 0; i-- {
		flow = &decisionFlow{evaluator: evaluators[i], next: flow}
	}
	return flow
}

type decisionFlow struct {
	evaluator FlowEvaluator
	next      Flow
}

func (f *decisionFlow) Evaluate(req Request) (Evaluation, error) {
	return f.evaluator.Evaluate(req, f.next)
}

type endFlow struct{}

func (endFlow) Evaluate(req Request) (Evaluation, error) {
	return defaultEvaluation(req, model.ReasonTrafficNotAllocated)
}

// Collaborators holds the resolvers shared by the evaluators of both flows.
type Collaborators struct {
	Overrides  *OverrideResolver
	Actions    *ActionResolver
	Containers *ContainerResolver
	Audiences  ExperimentTargetDeterminer
	Rules      TargetRuleDeterminer
}

// NewABTestFlow builds the A/B test flow.
func NewABTestFlow(c Collaborators) Flow {
	return NewFlow(
		&OverrideEvaluator{resolver: c.Overrides},
		DraftExperimentEvaluator{},
		PausedExperimentEvaluator{},
		CompletedExperimentEvaluator{},
		&ExperimentTargetEvaluator{determiner: c.Audiences},
		&ContainerEvaluator{resolver: c.Containers},
		&TrafficAllocateEvaluator{actions: c.Actions},
	)
}

// NewFeatureFlagFlow builds the feature flag flow.
func NewFeatureFlagFlow(c Collaborators) Flow {
	return NewFlow(
		&OverrideEvaluator{resolver: c.Overrides},
		DraftExperimentEvaluator{},
		PausedExperimentEvaluator{},
		IdentifierEvaluator{},
		&TargetRuleEvaluator{determiner: c.Rules, actions: c.Actions},
		&DefaultRuleEvaluator{actions: c.Actions},
	)
}
