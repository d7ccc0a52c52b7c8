// Package targeting decides whether a user belongs to an experiment's
// audience and which feature flag target rule applies to them.
package targeting

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
)

// TargetMatcher evaluates a single target against a user.
type TargetMatcher interface {
	Matches(ws model.Workspace, u user.HackleUser, target model.Target) (bool, error)
}

// ExperimentTargetDeterminer checks an A/B test's target audiences. An
// experiment without audiences targets everyone; otherwise any audience
// matching is enough.
type ExperimentTargetDeterminer struct {
	matcher TargetMatcher
}

func NewExperimentTargetDeterminer(matcher TargetMatcher) *ExperimentTargetDeterminer {
	return &ExperimentTargetDeterminer{matcher: matcher}
}

func (d *ExperimentTargetDeterminer) IsUserInExperimentTarget(ws model.Workspace, exp *model.Experiment, u user.HackleUser) (bool, error) {
	if len(exp.TargetAudiences) == 0 {
		return true, nil
	}
	return anyTarget(ws, u, exp.TargetAudiences, d.matcher)
}

// TargetRuleDeterminer returns the first target rule of a feature flag that
// matches the user.
type TargetRuleDeterminer struct {
	matcher TargetMatcher
}

func NewTargetRuleDeterminer(matcher TargetMatcher) *TargetRuleDeterminer {
	return &TargetRuleDeterminer{matcher: matcher}
}

// DetermineTargetRule reports false when no rule matches.
func (d *TargetRuleDeterminer) DetermineTargetRule(ws model.Workspace, exp *model.Experiment, u user.HackleUser) (*model.TargetRule, bool, error) {
	for i := range exp.TargetRules {
		rule := &exp.TargetRules[i]
		matched, err := d.matcher.Matches(ws, u, rule.Target)
		if err != nil {
			return nil, false, err
		}
		if matched {
			return rule, true, nil
		}
	}
	return nil, false, nil
}

func anyTarget(ws model.Workspace, u user.HackleUser, targets []model.Target, matcher TargetMatcher) (bool, error) {
	for _, target := range targets {
		matched, err := matcher.Matches(ws, u, target)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
