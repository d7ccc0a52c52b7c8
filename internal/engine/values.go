package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Masterminds/semver/v3"
)

// ValueMatcher coerces both sides of a match into one type and delegates the
// comparison to an OperatorMatcher. A value that cannot be coerced is a
// non-match, never an error.
type ValueMatcher interface {
	Matches(op OperatorMatcher, userValue any, matchValue model.HackleValue) bool
}

type StringMatcher struct{}

func (StringMatcher) Matches(op OperatorMatcher, userValue any, matchValue model.HackleValue) bool {
	user, ok := asString(userValue)
	if !ok {
		return false
	}
	match, ok := matchValue.AsString()
	if !ok {
		return false
	}
	return op.MatchString(user, match)
}

type NumberMatcher struct{}

func (NumberMatcher) Matches(op OperatorMatcher, userValue any, matchValue model.HackleValue) bool {
	user, ok := asNumber(userValue)
	if !ok {
		return false
	}
	match, ok := matchValue.AsNumber()
	if !ok {
		return false
	}
	return op.MatchNumber(user, match)
}

type BoolMatcher struct{}

func (BoolMatcher) Matches(op OperatorMatcher, userValue any, matchValue model.HackleValue) bool {
	user, ok := userValue.(bool)
	if !ok {
		return false
	}
	match, ok := matchValue.AsBool()
	if !ok {
		return false
	}
	return op.MatchBool(user, match)
}

// VersionMatcher requires both sides to parse as semantic versions.
type VersionMatcher struct{}

func (VersionMatcher) Matches(op OperatorMatcher, userValue any, matchValue model.HackleValue) bool {
	user, ok := parseVersion(userValue)
	if !ok {
		return false
	}
	literal, ok := matchValue.AsString()
	if !ok {
		return false
	}
	match, ok := parseVersion(literal)
	if !ok {
		return false
	}
	return op.MatchVersion(user, match)
}

// ValueMatcherFactory selects the matcher for a declared value type.
type ValueMatcherFactory struct {
	stringMatcher  StringMatcher
	numberMatcher  NumberMatcher
	boolMatcher    BoolMatcher
	versionMatcher VersionMatcher
}

func NewValueMatcherFactory() *ValueMatcherFactory {
	return &ValueMatcherFactory{}
}

// Matcher returns the matcher for valueType; ok is false for unknown types.
func (f *ValueMatcherFactory) Matcher(valueType model.ValueType) (ValueMatcher, bool) {
	switch valueType {
	case model.ValueString:
		return f.stringMatcher, true
	case model.ValueNumber:
		return f.numberMatcher, true
	case model.ValueBool:
		return f.boolMatcher, true
	case model.ValueVersion:
		return f.versionMatcher, true
	default:
		return nil, false
	}
}

// asString accepts strings and renders numbers in their shortest form, so a
// numeric property can still match a string condition.
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool, nil:
		return "", false
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	}
	if n, ok := model.ToFloat64(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

// asNumber accepts numbers and strings holding a finite number.
func asNumber(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return model.ToFloat64(v)
}

func parseVersion(v any) (*semver.Version, bool) {
	s, ok := v.(string)
	if !ok || s == "" || strings.HasPrefix(s, "v") || strings.HasPrefix(s, "V") {
		return nil, false
	}
	ver, err := semver.NewVersion(s)
	if err != nil {
		return nil, false
	}
	return ver, true
}
