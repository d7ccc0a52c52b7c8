// Package model defines the immutable workspace entities the decision engine
// evaluates against.
package model

// ExperimentType distinguishes A/B tests from feature flags. Each type runs
// its own evaluation flow.
type ExperimentType string

const (
	TypeABTest      ExperimentType = "AB_TEST"
	TypeFeatureFlag ExperimentType = "FEATURE_FLAG"
)

// ExperimentStatus is the lifecycle state of an experiment.
type ExperimentStatus string

const (
	StatusDraft     ExperimentStatus = "DRAFT"
	StatusRunning   ExperimentStatus = "RUNNING"
	StatusPaused    ExperimentStatus = "PAUSED"
	StatusCompleted ExperimentStatus = "COMPLETED"
)

// Identifier types present on every user built with the user package.
const (
	IdentifierID       = "$id"
	IdentifierUserID   = "$userId"
	IdentifierDeviceID = "$deviceId"
)

// Experiment is one A/B test or feature flag definition.
type Experiment struct {
	ID             int64
	Key            int64
	Type           ExperimentType
	Status         ExperimentStatus
	Version        int
	IdentifierType string
	Variations     []Variation

	// UserOverrides maps a user identifier to the variation it is forced into.
	UserOverrides    map[string]int64
	SegmentOverrides []TargetRule
	TargetAudiences  []Target
	TargetRules      []TargetRule
	DefaultRule      Action

	ContainerID       *int64
	WinnerVariationID *int64
}

// Variation returns the variation with the given id.
func (e *Experiment) Variation(id int64) (*Variation, bool) {
	for i := range e.Variations {
		if e.Variations[i].ID == id {
			return &e.Variations[i], true
		}
	}
	return nil, false
}

// VariationByKey returns the variation with the given key.
func (e *Experiment) VariationByKey(key string) (*Variation, bool) {
	for i := range e.Variations {
		if e.Variations[i].Key == key {
			return &e.Variations[i], true
		}
	}
	return nil, false
}

// WinnerVariation returns the winner of a completed experiment.
func (e *Experiment) WinnerVariation() (*Variation, bool) {
	if e.WinnerVariationID == nil {
		return nil, false
	}
	return e.Variation(*e.WinnerVariationID)
}

// Variation is one treatment of an experiment. A dropped variation no longer
// receives traffic even when bucketing selects it.
type Variation struct {
	ID                       int64
	Key                      string
	IsDropped                bool
	ParameterConfigurationID *int64
}

// ActionType selects how an Action resolves to a variation.
type ActionType string

const (
	ActionVariation ActionType = "VARIATION"
	ActionBucket    ActionType = "BUCKET"
)

// Action resolves to a variation either directly or through a bucket.
type Action struct {
	Type        ActionType
	VariationID *int64
	BucketID    *int64
}

// TargetRule pairs a target with the action applied when it matches.
type TargetRule struct {
	Target Target
	Action Action
}

// Bucket partitions the identifier space into SlotSize slots.
type Bucket struct {
	ID       int64
	Seed     int32
	SlotSize int
	Slots    []Slot
}

// Slot returns the slot covering slotNumber.
func (b *Bucket) Slot(slotNumber int) (Slot, bool) {
	for _, s := range b.Slots {
		if s.Contains(slotNumber) {
			return s, true
		}
	}
	return Slot{}, false
}

// Slot maps the slot numbers in [StartInclusive, EndExclusive) to a variation
// id, or to a container group id when the bucket belongs to a container.
type Slot struct {
	StartInclusive int
	EndExclusive   int
	VariationID    int64
}

func (s Slot) Contains(slotNumber int) bool {
	return s.StartInclusive <= slotNumber && slotNumber < s.EndExclusive
}

// Container groups mutually exclusive experiments. Its bucket assigns each
// identifier to exactly one group.
type Container struct {
	ID       int64
	BucketID int64
	Groups   []ContainerGroup
}

// Group returns the container group with the given id.
func (c *Container) Group(id int64) (*ContainerGroup, bool) {
	for i := range c.Groups {
		if c.Groups[i].ID == id {
			return &c.Groups[i], true
		}
	}
	return nil, false
}

type ContainerGroup struct {
	ID          int64
	Experiments []int64
}

// Contains reports whether the experiment id belongs to the group.
func (g *ContainerGroup) Contains(experimentID int64) bool {
	for _, id := range g.Experiments {
		if id == experimentID {
			return true
		}
	}
	return false
}

// Segment is a reusable audience. A user is in the segment when any of its
// targets matches.
type Segment struct {
	ID      int64
	Key     string
	Type    string
	Targets []Target
}

// ParameterConfiguration holds the typed parameters attached to a variation.
type ParameterConfiguration struct {
	ID         int64
	Parameters map[string]any
}

// Workspace is an immutable snapshot of all configuration needed for
// evaluation. Lookups report false when the entity is not configured.
type Workspace interface {
	Experiment(key int64) (*Experiment, bool)
	FeatureFlag(key int64) (*Experiment, bool)
	Bucket(id int64) (*Bucket, bool)
	Container(id int64) (*Container, bool)
	Segment(key string) (*Segment, bool)
	ParameterConfiguration(id int64) (*ParameterConfiguration, bool)
}
