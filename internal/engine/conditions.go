package engine

import (
	"reflect"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
)

// ValueOperatorMatcher evaluates a Match against a user value. The match holds
// when any configured value matches; for slice user values, when any element
// matches any configured value.
type ValueOperatorMatcher struct {
	values    *ValueMatcherFactory
	operators *OperatorMatcherFactory
}

func NewValueOperatorMatcher(values *ValueMatcherFactory, operators *OperatorMatcherFactory) *ValueOperatorMatcher {
	return &ValueOperatorMatcher{values: values, operators: operators}
}

func (m *ValueOperatorMatcher) Matches(userValue any, match model.Match) bool {
	valueMatcher, ok := m.values.Matcher(match.ValueType)
	if !ok {
		return false
	}
	operatorMatcher, ok := m.operators.Matcher(match.Operator)
	if !ok {
		return false
	}

	isMatched := false
	forEachUserValue(userValue, func(v any) bool {
		for _, matchValue := range match.Values {
			if valueMatcher.Matches(operatorMatcher, v, matchValue) {
				isMatched = true
				return false
			}
		}
		return true
	})
	return match.Type.Matches(isMatched)
}

// forEachUserValue calls fn for userValue, or for each element when it is a
// slice or array, until fn returns false.
func forEachUserValue(userValue any, fn func(any) bool) {
	switch values := userValue.(type) {
	case []any:
		for _, v := range values {
			if !fn(v) {
				return
			}
		}
		return
	case []string:
		for _, v := range values {
			if !fn(v) {
				return
			}
		}
		return
	}

	rv := reflect.ValueOf(userValue)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			if !fn(rv.Index(i).Interface()) {
				return
			}
		}
		return
	}
	fn(userValue)
}

// ConditionMatcher evaluates one target condition for a user.
type ConditionMatcher interface {
	Matches(ws model.Workspace, u user.HackleUser, condition model.Condition) (bool, error)
}

// UserConditionMatcher reads the condition value from the user's identifiers,
// properties or hackle properties. A missing value never matches.
type UserConditionMatcher struct {
	values *ValueOperatorMatcher
}

func NewUserConditionMatcher(values *ValueOperatorMatcher) *UserConditionMatcher {
	return &UserConditionMatcher{values: values}
}

func (m *UserConditionMatcher) Matches(_ model.Workspace, u user.HackleUser, condition model.Condition) (bool, error) {
	userValue, ok := resolveUserValue(u, condition.Key)
	if !ok {
		return false, nil
	}
	return m.values.Matches(userValue, condition.Match), nil
}

func resolveUserValue(u user.HackleUser, key model.Key) (any, bool) {
	switch key.Type {
	case model.KeyUserID:
		v, ok := u.Identifiers[key.Name]
		return v, ok
	case model.KeyUserProperty:
		v, ok := u.Properties[key.Name]
		return v, ok && v != nil
	case model.KeyHackleProperty:
		v, ok := u.HackleProperties[key.Name]
		return v, ok && v != nil
	default:
		return nil, false
	}
}

// SegmentConditionMatcher treats the match values as segment keys. The user
// is in a segment when any of the segment's targets matches.
type SegmentConditionMatcher struct {
	users *UserConditionMatcher
}

func NewSegmentConditionMatcher(users *UserConditionMatcher) *SegmentConditionMatcher {
	return &SegmentConditionMatcher{users: users}
}

func (m *SegmentConditionMatcher) Matches(ws model.Workspace, u user.HackleUser, condition model.Condition) (bool, error) {
	if condition.Key.Type != model.KeySegment {
		return false, model.Errorf("unsupported key type [%s] for segment condition", condition.Key.Type)
	}

	isMatched := false
	for _, value := range condition.Match.Values {
		matched, err := m.matchesSegment(ws, u, value)
		if err != nil {
			return false, err
		}
		if matched {
			isMatched = true
			break
		}
	}
	return condition.Match.Type.Matches(isMatched), nil
}

func (m *SegmentConditionMatcher) matchesSegment(ws model.Workspace, u user.HackleUser, value model.HackleValue) (bool, error) {
	segmentKey, ok := value.AsString()
	if !ok {
		return false, model.Errorf("segment key must be a string [%s]", value)
	}
	segment, ok := ws.Segment(segmentKey)
	if !ok {
		return false, model.Errorf("segment[%s]", segmentKey)
	}

	for _, target := range segment.Targets {
		matched, err := matchesAll(ws, u, target, m.users)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// TargetMatcher matches a target when every condition matches, dispatching
// each condition on its key type.
type TargetMatcher struct {
	conditions ConditionMatcher
}

func NewTargetMatcher(users *UserConditionMatcher, segments *SegmentConditionMatcher) *TargetMatcher {
	return &TargetMatcher{conditions: keyTypeDispatcher{users: users, segments: segments}}
}

// NewDefaultTargetMatcher wires a TargetMatcher with the standard matchers.
func NewDefaultTargetMatcher() *TargetMatcher {
	values := NewValueOperatorMatcher(NewValueMatcherFactory(), NewOperatorMatcherFactory())
	users := NewUserConditionMatcher(values)
	return NewTargetMatcher(users, NewSegmentConditionMatcher(users))
}

func (m *TargetMatcher) Matches(ws model.Workspace, u user.HackleUser, target model.Target) (bool, error) {
	return matchesAll(ws, u, target, m.conditions)
}

type keyTypeDispatcher struct {
	users    *UserConditionMatcher
	segments *SegmentConditionMatcher
}

func (d keyTypeDispatcher) Matches(ws model.Workspace, u user.HackleUser, condition model.Condition) (bool, error) {
	switch condition.Key.Type {
	case model.KeyUserID, model.KeyUserProperty, model.KeyHackleProperty:
		return d.users.Matches(ws, u, condition)
	case model.KeySegment:
		return d.segments.Matches(ws, u, condition)
	default:
		return false, model.Errorf("unsupported condition key type [%s]", condition.Key.Type)
	}
}

func matchesAll(ws model.Workspace, u user.HackleUser, target model.Target, matcher ConditionMatcher) (bool, error) {
	for _, condition := range target.Conditions {
		matched, err := matcher.Matches(ws, u, condition)
		if err != nil {
			return false, err
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}
