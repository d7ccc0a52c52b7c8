package evaluation

import (
	"testing"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/engine"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/rollout"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/targeting"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEvaluator struct {
	name  string
	calls *[]string
}

func (e recordingEvaluator) Evaluate(req Request, next Flow) (Evaluation, error) {
	*e.calls = append(*e.calls, e.name)
	return next.Evaluate(req)
}

func TestNewFlow_RunsInOrderAndTerminates(t *testing.T) {
	var calls []string
	flow := NewFlow(
		recordingEvaluator{name: "first", calls: &calls},
		recordingEvaluator{name: "second", calls: &calls},
	)

	got, err := flow.Evaluate(Request{Workspace: testWorkspace(), Experiment: abTest(1), DefaultVariationKey: "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, "A", got.VariationKey)
	assert.Equal(t, model.ReasonTrafficNotAllocated, got.Reason)
}

func TestNewFlow_Empty(t *testing.T) {
	got, err := NewFlow().Evaluate(Request{Workspace: testWorkspace(), Experiment: featureFlag(5), DefaultVariationKey: "A"})
	require.NoError(t, err)
	assert.Equal(t, model.ReasonTrafficNotAllocated, got.Reason)
	require.NotNil(t, got.VariationID)
	assert.Equal(t, int64(11), *got.VariationID)
}

func collaborators() Collaborators {
	bucketer := rollout.NewBucketer()
	matcher := engine.NewDefaultTargetMatcher()
	actions := NewActionResolver(bucketer)
	return Collaborators{
		Overrides:  NewOverrideResolver(matcher, actions),
		Actions:    actions,
		Containers: NewContainerResolver(bucketer),
		Audiences:  targeting.NewExperimentTargetDeterminer(matcher),
		Rules:      targeting.NewTargetRuleDeterminer(matcher),
	}
}

func TestEvaluators_Preconditions(t *testing.T) {
	c := collaborators()
	ws := testWorkspace()
	u := identified("user-1")

	paused := abTest(1)
	paused.Status = model.StatusPaused
	pausedFlag := featureFlag(5)
	pausedFlag.Status = model.StatusPaused

	tests := []struct {
		name      string
		evaluator FlowEvaluator
		exp       *model.Experiment
	}{
		{name: "experiment target on feature flag", evaluator: &ExperimentTargetEvaluator{determiner: c.Audiences}, exp: featureFlag(5)},
		{name: "traffic allocate on paused", evaluator: &TrafficAllocateEvaluator{actions: c.Actions}, exp: paused},
		{name: "traffic allocate on feature flag", evaluator: &TrafficAllocateEvaluator{actions: c.Actions}, exp: featureFlag(5)},
		{name: "target rule on ab test", evaluator: &TargetRuleEvaluator{determiner: c.Rules, actions: c.Actions}, exp: abTest(1)},
		{name: "target rule on paused", evaluator: &TargetRuleEvaluator{determiner: c.Rules, actions: c.Actions}, exp: pausedFlag},
		{name: "default rule on ab test", evaluator: &DefaultRuleEvaluator{actions: c.Actions}, exp: abTest(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Workspace: ws, Experiment: tt.exp, User: u, DefaultVariationKey: "A"}
			_, err := tt.evaluator.Evaluate(req, NewFlow())
			assert.ErrorIs(t, err, model.ErrEvaluation)
		})
	}
}

func TestTargetRuleEvaluator_WithoutIdentifierDelegates(t *testing.T) {
	c := collaborators()
	flow := NewFlow(
		&TargetRuleEvaluator{determiner: c.Rules, actions: c.Actions},
		&DefaultRuleEvaluator{actions: c.Actions},
	)

	u := user.New(user.WithProperty("grade", "GOLD"))
	got, err := flow.Evaluate(Request{Workspace: testWorkspace(), Experiment: featureFlag(5), User: u, DefaultVariationKey: "A"})
	require.NoError(t, err)
	assert.Equal(t, "A", got.VariationKey)
	assert.Equal(t, model.ReasonDefaultRule, got.Reason)
}

func TestActionResolver(t *testing.T) {
	ws := testWorkspace()
	r := NewActionResolver(rollout.NewBucketer())
	exp := abTest(1)

	v, ok, err := r.Resolve(ws, exp, identified("user-1"), variationAction(3))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "C", v.Key)

	v, ok, err = r.Resolve(ws, exp, identified("user-1"), bucketAction(fullBucketB))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "B", v.Key)

	_, ok, err = r.Resolve(ws, exp, user.New(), bucketAction(fullBucketB))
	require.NoError(t, err)
	assert.False(t, ok, "no identifier")

	_, ok, err = r.Resolve(ws, exp, identified("user-1"), bucketAction(emptyBucket))
	require.NoError(t, err)
	assert.False(t, ok, "no slot")

	for name, action := range map[string]model.Action{
		"unknown variation":    variationAction(99),
		"variation id missing": {Type: model.ActionVariation},
		"unknown bucket":       bucketAction(404),
		"bucket id missing":    {Type: model.ActionBucket},
		"unknown type":         {Type: "SPLIT"},
	} {
		_, _, err := r.Resolve(ws, exp, identified("user-1"), action)
		assert.ErrorIs(t, err, model.ErrEvaluation, name)
	}
}

func TestOverrideResolver(t *testing.T) {
	ws := testWorkspace()
	r := collaborators().Overrides

	exp := abTest(1)
	exp.UserOverrides["user-1"] = 1
	exp.UserOverrides["user-stale"] = 99
	exp.SegmentOverrides = []model.TargetRule{
		{Target: gradeIs("GOLD"), Action: variationAction(2)},
		{Target: gradeIs("GOLD"), Action: variationAction(3)},
	}

	v, ok, err := r.Resolve(ws, exp, identified("user-1", user.WithProperty("grade", "GOLD")))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", v.Key, "individual override is checked first")

	v, ok, err = r.Resolve(ws, exp, identified("user-2", user.WithProperty("grade", "GOLD")))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "B", v.Key, "first matching segment override wins")

	v, ok, err = r.Resolve(ws, exp, identified("user-stale", user.WithProperty("grade", "GOLD")))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "B", v.Key, "stale individual override falls back to segments")

	_, ok, err = r.Resolve(ws, exp, identified("user-3"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainerResolver_MissingGroup(t *testing.T) {
	r := NewContainerResolver(rollout.NewBucketer())
	container := &model.Container{ID: 1, BucketID: 2}
	bucket := &model.Bucket{ID: 2, Seed: 1, SlotSize: 10000, Slots: fullSlot(77)}

	_, err := r.IsUserInContainerGroup(container, bucket, abTest(1), identified("user-1"))
	assert.ErrorIs(t, err, model.ErrEvaluation)

	in, err := r.IsUserInContainerGroup(container, bucket, abTest(1), user.New())
	require.NoError(t, err)
	assert.False(t, in)
}
