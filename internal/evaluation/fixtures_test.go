package evaluation

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/workspace"
)

const (
	fullBucketB     = 10 // every identifier -> variation B
	fullBucketC     = 11 // every identifier -> dropped variation C
	emptyBucket     = 12 // no slots
	halfBucket      = 13 // [0, 5000) -> A, [5000, 10000) -> B
	containerBucket = 30
	flagOnBucket    = 40
	paramsB         = 7
	containerID     = 20
)

func ptr[T any](v T) *T { return &v }

func bucketAction(id int64) model.Action {
	return model.Action{Type: model.ActionBucket, BucketID: ptr(id)}
}

func variationAction(id int64) model.Action {
	return model.Action{Type: model.ActionVariation, VariationID: ptr(id)}
}

func gradeIs(grade string) model.Target {
	return model.Target{Conditions: []model.Condition{{
		Key:   model.Key{Type: model.KeyUserProperty, Name: "grade"},
		Match: model.Match{Type: model.MatchTypeMatch, Operator: model.OpIn, ValueType: model.ValueString, Values: []model.HackleValue{model.StringValue(grade)}},
	}}}
}

func abTest(id int64) *model.Experiment {
	return &model.Experiment{
		ID:             id,
		Key:            id,
		Type:           model.TypeABTest,
		Status:         model.StatusRunning,
		IdentifierType: model.IdentifierID,
		Variations: []model.Variation{
			{ID: 1, Key: "A"},
			{ID: 2, Key: "B", ParameterConfigurationID: ptr(int64(paramsB))},
			{ID: 3, Key: "C", IsDropped: true},
		},
		UserOverrides: map[string]int64{},
		DefaultRule:   bucketAction(fullBucketB),
	}
}

func featureFlag(id int64) *model.Experiment {
	return &model.Experiment{
		ID:             id,
		Key:            id,
		Type:           model.TypeFeatureFlag,
		Status:         model.StatusRunning,
		IdentifierType: model.IdentifierID,
		Variations: []model.Variation{
			{ID: 11, Key: "A"},
			{ID: 12, Key: "B"},
		},
		UserOverrides: map[string]int64{},
		TargetRules: []model.TargetRule{
			{Target: gradeIs("GOLD"), Action: variationAction(12)},
		},
		DefaultRule: variationAction(11),
	}
}

func fullSlot(variationID int64) []model.Slot {
	return []model.Slot{{StartInclusive: 0, EndExclusive: 10000, VariationID: variationID}}
}

func testWorkspace() *workspace.Workspace {
	return workspace.New(workspace.Contents{
		Buckets: []model.Bucket{
			{ID: fullBucketB, Seed: 1, SlotSize: 10000, Slots: fullSlot(2)},
			{ID: fullBucketC, Seed: 2, SlotSize: 10000, Slots: fullSlot(3)},
			{ID: emptyBucket, Seed: 3, SlotSize: 10000},
			{ID: halfBucket, Seed: 4, SlotSize: 10000, Slots: []model.Slot{
				{StartInclusive: 0, EndExclusive: 5000, VariationID: 1},
				{StartInclusive: 5000, EndExclusive: 10000, VariationID: 2},
			}},
			{ID: containerBucket, Seed: 5, SlotSize: 10000, Slots: []model.Slot{
				{StartInclusive: 0, EndExclusive: 5000, VariationID: 1},
				{StartInclusive: 5000, EndExclusive: 10000, VariationID: 2},
			}},
			{ID: flagOnBucket, Seed: 6, SlotSize: 10000, Slots: fullSlot(12)},
		},
		Containers: []model.Container{
			{ID: containerID, BucketID: containerBucket, Groups: []model.ContainerGroup{
				{ID: 1, Experiments: []int64{101}},
				{ID: 2, Experiments: []int64{102}},
			}},
		},
		Segments: []model.Segment{
			{ID: 1, Key: "vip", Targets: []model.Target{gradeIs("VIP")}},
		},
		ParameterConfigurations: []model.ParameterConfiguration{
			{ID: paramsB, Parameters: map[string]any{"color": "blue"}},
		},
	})
}

func identified(id string, opts ...user.Option) user.HackleUser {
	return user.New(append([]user.Option{user.WithID(id)}, opts...)...)
}
