package evaluation

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/targeting"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
)

// OverrideResolver finds a variation forced on the user, either individually
// by identifier or through a segment override rule.
type OverrideResolver struct {
	matcher targeting.TargetMatcher
	actions *ActionResolver
}

func NewOverrideResolver(matcher targeting.TargetMatcher, actions *ActionResolver) *OverrideResolver {
	return &OverrideResolver{matcher: matcher, actions: actions}
}

// Resolve checks the individual overrides first, then the segment override
// rules in order. The first matching rule decides.
func (r *OverrideResolver) Resolve(ws model.Workspace, exp *model.Experiment, u user.HackleUser) (*model.Variation, bool, error) {
	if variation, ok := r.userOverride(exp, u); ok {
		return variation, true, nil
	}

	for _, rule := range exp.SegmentOverrides {
		matched, err := r.matcher.Matches(ws, u, rule.Target)
		if err != nil {
			return nil, false, err
		}
		if matched {
			return r.actions.Resolve(ws, exp, u, rule.Action)
		}
	}
	return nil, false, nil
}

func (r *OverrideResolver) userOverride(exp *model.Experiment, u user.HackleUser) (*model.Variation, bool) {
	identifier, ok := u.Identifier(exp.IdentifierType)
	if !ok {
		return nil, false
	}
	variationID, ok := exp.UserOverrides[identifier]
	if !ok {
		return nil, false
	}
	return exp.Variation(variationID)
}
