// Package engine implements the typed matching primitives used by targeting:
// operator matchers, value matchers and condition/target matchers.
package engine

import (
	"strings"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Masterminds/semver/v3"
)

// OperatorMatcher compares an already coerced user value with one match
// value. Operators without a meaning for a type return false.
type OperatorMatcher interface {
	MatchString(userValue, matchValue string) bool
	MatchNumber(userValue, matchValue float64) bool
	MatchBool(userValue, matchValue bool) bool
	MatchVersion(userValue, matchValue *semver.Version) bool
}

var operatorMatchers = map[model.Operator]OperatorMatcher{
	model.OpIn:         inMatcher{},
	model.OpContains:   containsMatcher{},
	model.OpStartsWith: startsWithMatcher{},
	model.OpEndsWith:   endsWithMatcher{},
	model.OpGT:         compareMatcher{ok: func(c int) bool { return c > 0 }},
	model.OpGTE:        compareMatcher{ok: func(c int) bool { return c >= 0 }},
	model.OpLT:         compareMatcher{ok: func(c int) bool { return c < 0 }},
	model.OpLTE:        compareMatcher{ok: func(c int) bool { return c <= 0 }},
}

// OperatorMatcherFactory selects the matcher for an operator.
type OperatorMatcherFactory struct{}

func NewOperatorMatcherFactory() *OperatorMatcherFactory {
	return &OperatorMatcherFactory{}
}

// Matcher returns the matcher for op; ok is false for unknown operators.
func (f *OperatorMatcherFactory) Matcher(op model.Operator) (OperatorMatcher, bool) {
	m, ok := operatorMatchers[op]
	return m, ok
}

type inMatcher struct{}

func (inMatcher) MatchString(userValue, matchValue string) bool { return userValue == matchValue }

func (inMatcher) MatchNumber(userValue, matchValue float64) bool { return userValue == matchValue }

func (inMatcher) MatchBool(userValue, matchValue bool) bool { return userValue == matchValue }

func (inMatcher) MatchVersion(userValue, matchValue *semver.Version) bool {
	return userValue.Equal(matchValue)
}

type containsMatcher struct{ notComparable }

func (containsMatcher) MatchString(userValue, matchValue string) bool {
	return strings.Contains(userValue, matchValue)
}

type startsWithMatcher struct{ notComparable }

func (startsWithMatcher) MatchString(userValue, matchValue string) bool {
	return strings.HasPrefix(userValue, matchValue)
}

type endsWithMatcher struct{ notComparable }

func (endsWithMatcher) MatchString(userValue, matchValue string) bool {
	return strings.HasSuffix(userValue, matchValue)
}

// notComparable supplies the non-string methods of the substring operators.
type notComparable struct{}

func (notComparable) MatchNumber(float64, float64) bool { return false }

func (notComparable) MatchBool(bool, bool) bool { return false }

func (notComparable) MatchVersion(*semver.Version, *semver.Version) bool { return false }

// compareMatcher implements the ordering operators on top of a three-way
// comparison. Strings compare lexicographically; bools are not ordered.
type compareMatcher struct {
	ok func(cmp int) bool
}

func (m compareMatcher) MatchString(userValue, matchValue string) bool {
	return m.ok(strings.Compare(userValue, matchValue))
}

func (m compareMatcher) MatchNumber(userValue, matchValue float64) bool {
	switch {
	case userValue < matchValue:
		return m.ok(-1)
	case userValue > matchValue:
		return m.ok(1)
	case userValue == matchValue:
		return m.ok(0)
	default:
		return false // NaN
	}
}

func (compareMatcher) MatchBool(bool, bool) bool { return false }

func (m compareMatcher) MatchVersion(userValue, matchValue *semver.Version) bool {
	return m.ok(userValue.Compare(matchValue))
}
