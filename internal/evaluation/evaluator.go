package evaluation

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/engine"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/rollout"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/targeting"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
)

// Evaluator runs the flow matching an experiment's type. It is stateless and
// safe for concurrent use against any number of workspaces.
type Evaluator struct {
	abTest      Flow
	featureFlag Flow
}

// NewEvaluator builds an Evaluator from explicit flows.
func NewEvaluator(abTest, featureFlag Flow) *Evaluator {
	return &Evaluator{abTest: abTest, featureFlag: featureFlag}
}

// NewDefaultEvaluator wires both flows with the standard bucketer and
// target matcher.
func NewDefaultEvaluator() *Evaluator {
	bucketer := rollout.NewBucketer()
	matcher := engine.NewDefaultTargetMatcher()
	actions := NewActionResolver(bucketer)
	c := Collaborators{
		Overrides:  NewOverrideResolver(matcher, actions),
		Actions:    actions,
		Containers: NewContainerResolver(bucketer),
		Audiences:  targeting.NewExperimentTargetDeterminer(matcher),
		Rules:      targeting.NewTargetRuleDeterminer(matcher),
	}
	return NewEvaluator(NewABTestFlow(c), NewFeatureFlagFlow(c))
}

// Evaluate decides the variation of exp for u.
//
// Postconditions:
//   - exactly one Evaluation is returned when err is nil
//   - the same (ws, exp, u, defaultVariationKey) always yields the same result
//   - err wraps model.ErrEvaluation
func (e *Evaluator) Evaluate(ws model.Workspace, exp *model.Experiment, u user.HackleUser, defaultVariationKey string) (Evaluation, error) {
	req := Request{
		Workspace:           ws,
		Experiment:          exp,
		User:                u,
		DefaultVariationKey: defaultVariationKey,
	}
	switch exp.Type {
	case model.TypeABTest:
		return e.abTest.Evaluate(req)
	case model.TypeFeatureFlag:
		return e.featureFlag.Evaluate(req)
	default:
		return Evaluation{}, model.Errorf("unsupported experiment type [%s]", exp.Type)
	}
}
