package model

// Target matches when all of its conditions match.
type Target struct {
	Conditions []Condition
}

// KeyType selects where a condition reads its user-side value from.
type KeyType string

const (
	KeyUserID         KeyType = "USER_ID"
	KeyUserProperty   KeyType = "USER_PROPERTY"
	KeyHackleProperty KeyType = "HACKLE_PROPERTY"
	KeySegment        KeyType = "SEGMENT"
)

// Key names the user value a condition inspects.
type Key struct {
	Type KeyType
	Name string
}

// Condition is a single predicate of a target.
type Condition struct {
	Key   Key
	Match Match
}

// MatchType is MATCH or NOT_MATCH; NOT_MATCH negates the operator result.
type MatchType string

const (
	MatchTypeMatch    MatchType = "MATCH"
	MatchTypeNotMatch MatchType = "NOT_MATCH"
)

// Matches applies the match type to an operator result.
func (t MatchType) Matches(isMatched bool) bool {
	if t == MatchTypeNotMatch {
		return !isMatched
	}
	return isMatched
}

// Operator is the comparison applied between a user value and each match value.
type Operator string

const (
	OpIn         Operator = "IN"
	OpContains   Operator = "CONTAINS"
	OpStartsWith Operator = "STARTS_WITH"
	OpEndsWith   Operator = "ENDS_WITH"
	OpGT         Operator = "GT"
	OpGTE        Operator = "GTE"
	OpLT         Operator = "LT"
	OpLTE        Operator = "LTE"
)

// ValueType is the declared type both sides of a match are coerced to.
type ValueType string

const (
	ValueString  ValueType = "STRING"
	ValueNumber  ValueType = "NUMBER"
	ValueBool    ValueType = "BOOLEAN"
	ValueVersion ValueType = "VERSION"
)

// Match is the configuration side of a condition.
type Match struct {
	Type      MatchType
	Operator  Operator
	ValueType ValueType
	Values    []HackleValue
}
