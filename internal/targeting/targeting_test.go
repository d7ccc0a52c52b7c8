package targeting

import (
	"errors"
	"testing"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/engine"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/workspace"
)

func propertyIn(name string, values ...string) model.Target {
	hv := make([]model.HackleValue, 0, len(values))
	for _, v := range values {
		hv = append(hv, model.StringValue(v))
	}
	return model.Target{Conditions: []model.Condition{{
		Key:   model.Key{Type: model.KeyUserProperty, Name: name},
		Match: model.Match{Type: model.MatchTypeMatch, Operator: model.OpIn, ValueType: model.ValueString, Values: hv},
	}}}
}

func missingSegment() model.Target {
	return model.Target{Conditions: []model.Condition{{
		Key:   model.Key{Type: model.KeySegment, Name: "SEGMENT"},
		Match: model.Match{Type: model.MatchTypeMatch, Operator: model.OpIn, ValueType: model.ValueString, Values: []model.HackleValue{model.StringValue("gone")}},
	}}}
}

func variationAction(id int64) model.Action {
	return model.Action{Type: model.ActionVariation, VariationID: &id}
}

func TestExperimentTargetDeterminer(t *testing.T) {
	ws := workspace.New(workspace.Contents{})
	d := NewExperimentTargetDeterminer(engine.NewDefaultTargetMatcher())
	kr := user.New(user.WithID("a"), user.WithProperty("country", "KR"))
	jp := user.New(user.WithID("b"), user.WithProperty("country", "JP"))

	tests := []struct {
		name      string
		audiences []model.Target
		u         user.HackleUser
		want      bool
	}{
		{name: "no audiences targets everyone", u: jp, want: true},
		{name: "single audience match", audiences: []model.Target{propertyIn("country", "KR")}, u: kr, want: true},
		{name: "single audience miss", audiences: []model.Target{propertyIn("country", "KR")}, u: jp, want: false},
		{name: "any audience match", audiences: []model.Target{propertyIn("country", "KR"), propertyIn("country", "JP")}, u: jp, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := &model.Experiment{ID: 1, Key: 1, TargetAudiences: tt.audiences}
			got, err := d.IsUserInExperimentTarget(ws, exp, tt.u)
			if err != nil {
				t.Fatalf("IsUserInExperimentTarget() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("IsUserInExperimentTarget() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExperimentTargetDeterminer_Error(t *testing.T) {
	d := NewExperimentTargetDeterminer(engine.NewDefaultTargetMatcher())
	exp := &model.Experiment{ID: 1, Key: 1, TargetAudiences: []model.Target{missingSegment()}}

	_, err := d.IsUserInExperimentTarget(workspace.New(workspace.Contents{}), exp, user.New(user.WithID("a")))
	if !errors.Is(err, model.ErrEvaluation) {
		t.Fatalf("error = %v, want ErrEvaluation", err)
	}
}

func TestTargetRuleDeterminer(t *testing.T) {
	ws := workspace.New(workspace.Contents{})
	d := NewTargetRuleDeterminer(engine.NewDefaultTargetMatcher())
	exp := &model.Experiment{
		ID:  1,
		Key: 1,
		TargetRules: []model.TargetRule{
			{Target: propertyIn("grade", "GOLD"), Action: variationAction(2)},
			{Target: propertyIn("grade", "GOLD", "SILVER"), Action: variationAction(3)},
		},
	}

	rule, ok, err := d.DetermineTargetRule(ws, exp, user.New(user.WithProperty("grade", "GOLD")))
	if err != nil || !ok {
		t.Fatalf("DetermineTargetRule() = %v, %v, want match", ok, err)
	}
	if *rule.Action.VariationID != 2 {
		t.Fatalf("first matching rule should win, got variation %d", *rule.Action.VariationID)
	}

	rule, ok, _ = d.DetermineTargetRule(ws, exp, user.New(user.WithProperty("grade", "SILVER")))
	if !ok || *rule.Action.VariationID != 3 {
		t.Fatalf("expected second rule to match")
	}

	if _, ok, _ := d.DetermineTargetRule(ws, exp, user.New(user.WithProperty("grade", "BRONZE"))); ok {
		t.Fatal("no rule should match")
	}
}

func TestTargetRuleDeterminer_Error(t *testing.T) {
	d := NewTargetRuleDeterminer(engine.NewDefaultTargetMatcher())
	exp := &model.Experiment{TargetRules: []model.TargetRule{{Target: missingSegment(), Action: variationAction(1)}}}

	if _, _, err := d.DetermineTargetRule(workspace.New(workspace.Contents{}), exp, user.New()); !errors.Is(err, model.ErrEvaluation) {
		t.Fatalf("error = %v, want ErrEvaluation", err)
	}
}
