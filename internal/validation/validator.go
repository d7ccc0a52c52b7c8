// Package validation checks workspace documents for broken references and
// impossible bucket layouts before they are loaded.
//
// The parser tolerates unknown enum values so that older SDKs survive newer
// workspaces. Validation is the strict counterpart used by tooling: it reports
// every problem it finds instead of dropping entities.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/workspace"
)

// ValidationResult holds the result of validation
type ValidationResult struct {
	Valid  bool
	Errors map[string]string
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:  true,
		Errors: make(map[string]string),
	}
}

// AddError adds a field error and marks the result as invalid
func (v *ValidationResult) AddError(field, message string) {
	v.Valid = false
	v.Errors[field] = message
}

// Merge combines another validation result into this one
func (v *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for field, message := range other.Errors {
		v.AddError(field, message)
	}
}

// Fields returns the failing fields in order.
func (v *ValidationResult) Fields() []string {
	fields := make([]string, 0, len(v.Errors))
	for field := range v.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// references indexes the ids a document can point at.
type references struct {
	experiments   map[int64]bool
	buckets       map[int64]bool
	containers    map[int64]bool
	segments      map[string]bool
	configuration map[int64]bool
}

func index(doc workspace.Document) references {
	refs := references{
		experiments:   make(map[int64]bool),
		buckets:       make(map[int64]bool),
		containers:    make(map[int64]bool),
		segments:      make(map[string]bool),
		configuration: make(map[int64]bool),
	}
	for _, e := range doc.Experiments {
		refs.experiments[e.ID] = true
	}
	for _, e := range doc.FeatureFlags {
		refs.experiments[e.ID] = true
	}
	for _, b := range doc.Buckets {
		refs.buckets[b.ID] = true
	}
	for _, c := range doc.Containers {
		refs.containers[c.ID] = true
	}
	for _, s := range doc.Segments {
		refs.segments[s.Key] = true
	}
	for _, p := range doc.ParameterConfigurations {
		refs.configuration[p.ID] = true
	}
	return refs
}

// ValidateDocument validates every entity of doc and returns a validation result
func ValidateDocument(doc workspace.Document) *ValidationResult {
	result := NewValidationResult()
	refs := index(doc)

	result.Merge(validateExperiments("experiments", doc.Experiments, refs))
	result.Merge(validateExperiments("featureFlags", doc.FeatureFlags, refs))

	for i, b := range doc.Buckets {
		result.Merge(ValidateBucket(fmt.Sprintf("buckets[%d]", i), b))
	}
	for i, c := range doc.Containers {
		result.Merge(validateContainer(fmt.Sprintf("containers[%d]", i), c, refs))
	}

	seen := make(map[string]bool)
	for i, s := range doc.Segments {
		field := fmt.Sprintf("segments[%d]", i)
		if strings.TrimSpace(s.Key) == "" {
			result.AddError(field+".key", "Segment key is required")
			continue
		}
		if seen[s.Key] {
			result.AddError(field+".key", "Duplicate segment key: "+s.Key)
		}
		seen[s.Key] = true
		for j, t := range s.Targets {
			result.Merge(validateTarget(fmt.Sprintf("%s.targets[%d]", field, j), t, refs))
		}
	}

	return result
}

func validateExperiments(field string, dtos []workspace.ExperimentDTO, refs references) *ValidationResult {
	result := NewValidationResult()
	seenKeys := make(map[int64]bool)

	for i, e := range dtos {
		f := fmt.Sprintf("%s[%d]", field, i)
		if e.Key <= 0 {
			result.AddError(f+".key", "Key must be a positive integer")
		} else if seenKeys[e.Key] {
			result.AddError(f+".key", fmt.Sprintf("Duplicate key: %d", e.Key))
		}
		seenKeys[e.Key] = true

		result.Merge(validateExperiment(f, e, refs))
	}
	return result
}

func validateExperiment(field string, e workspace.ExperimentDTO, refs references) *ValidationResult {
	result := NewValidationResult()

	variations := make(map[int64]bool)
	variationKeys := make(map[string]bool)
	for i, v := range e.Variations {
		f := fmt.Sprintf("%s.variations[%d]", field, i)
		if strings.TrimSpace(v.Key) == "" {
			result.AddError(f+".key", "Variation key cannot be empty")
		} else if variationKeys[v.Key] {
			result.AddError(f+".key", "Duplicate variation key: "+v.Key)
		}
		if variations[v.ID] {
			result.AddError(f+".id", fmt.Sprintf("Duplicate variation id: %d", v.ID))
		}
		variations[v.ID] = true
		variationKeys[v.Key] = true

		if v.ParameterConfigurationID != nil && !refs.configuration[*v.ParameterConfigurationID] {
			result.AddError(f+".parameterConfigurationId", fmt.Sprintf("Unknown parameter configuration: %d", *v.ParameterConfigurationID))
		}
	}

	for i, o := range e.UserOverrides {
		if !variations[o.VariationID] {
			result.AddError(fmt.Sprintf("%s.userOverrides[%d]", field, i), fmt.Sprintf("Unknown variation: %d", o.VariationID))
		}
	}
	for i, r := range e.SegmentOverrides {
		f := fmt.Sprintf("%s.segmentOverrides[%d]", field, i)
		result.Merge(validateTarget(f+".target", r.Target, refs))
		result.Merge(validateAction(f+".action", r.Action, variations, refs))
	}
	for i, t := range e.TargetAudiences {
		result.Merge(validateTarget(fmt.Sprintf("%s.targetAudiences[%d]", field, i), t, refs))
	}
	for i, r := range e.TargetRules {
		f := fmt.Sprintf("%s.targetRules[%d]", field, i)
		result.Merge(validateTarget(f+".target", r.Target, refs))
		result.Merge(validateAction(f+".action", r.Action, variations, refs))
	}
	if e.DefaultRule.Type != "" {
		result.Merge(validateAction(field+".defaultRule", e.DefaultRule, variations, refs))
	}

	if e.ContainerID != nil && !refs.containers[*e.ContainerID] {
		result.AddError(field+".containerId", fmt.Sprintf("Unknown container: %d", *e.ContainerID))
	}
	if e.WinnerVariationID != nil && !variations[*e.WinnerVariationID] {
		result.AddError(field+".winnerVariationId", fmt.Sprintf("Unknown variation: %d", *e.WinnerVariationID))
	}

	return result
}

func validateAction(field string, a workspace.ActionDTO, variations map[int64]bool, refs references) *ValidationResult {
	result := NewValidationResult()

	switch model.ActionType(a.Type) {
	case model.ActionVariation:
		if a.VariationID == nil {
			result.AddError(field, "Variation action requires variationId")
		} else if !variations[*a.VariationID] {
			result.AddError(field, fmt.Sprintf("Unknown variation: %d", *a.VariationID))
		}
	case model.ActionBucket:
		if a.BucketID == nil {
			result.AddError(field, "Bucket action requires bucketId")
		} else if !refs.buckets[*a.BucketID] {
			result.AddError(field, fmt.Sprintf("Unknown bucket: %d", *a.BucketID))
		}
	default:
		result.AddError(field, "Unsupported action type: "+a.Type)
	}

	return result
}

func validateTarget(field string, t workspace.TargetDTO, refs references) *ValidationResult {
	result := NewValidationResult()

	for i, c := range t.Conditions {
		f := fmt.Sprintf("%s.conditions[%d]", field, i)
		if len(c.Match.Values) == 0 {
			result.AddError(f+".match.values", "Condition must have at least one value")
		}
		if model.KeyType(c.Key.Type) != model.KeySegment {
			continue
		}
		for _, v := range c.Match.Values {
			key, ok := v.(string)
			if !ok || !refs.segments[key] {
				result.AddError(f+".match.values", fmt.Sprintf("Unknown segment: %v", v))
				break
			}
		}
	}

	return result
}

// ValidateBucket checks that slots lie inside the slot range and never
// overlap, so every slot number maps to at most one slot.
func ValidateBucket(field string, b workspace.BucketDTO) *ValidationResult {
	result := NewValidationResult()

	if b.SlotSize <= 0 {
		result.AddError(field+".slotSize", "Slot size must be positive")
		return result
	}

	slots := make([]workspace.SlotDTO, len(b.Slots))
	copy(slots, b.Slots)
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartInclusive < slots[j].StartInclusive })

	for i, s := range slots {
		if s.StartInclusive < 0 || s.EndExclusive > b.SlotSize || s.StartInclusive >= s.EndExclusive {
			result.AddError(field+".slots", fmt.Sprintf("Slot [%d, %d) is outside [0, %d)", s.StartInclusive, s.EndExclusive, b.SlotSize))
			continue
		}
		if i > 0 && s.StartInclusive < slots[i-1].EndExclusive {
			result.AddError(field+".slots", fmt.Sprintf("Slot [%d, %d) overlaps [%d, %d)",
				s.StartInclusive, s.EndExclusive, slots[i-1].StartInclusive, slots[i-1].EndExclusive))
		}
	}

	return result
}

func validateContainer(field string, c workspace.ContainerDTO, refs references) *ValidationResult {
	result := NewValidationResult()

	if !refs.buckets[c.BucketID] {
		result.AddError(field+".bucketId", fmt.Sprintf("Unknown bucket: %d", c.BucketID))
	}
	for i, g := range c.Groups {
		for _, id := range g.Experiments {
			if !refs.experiments[id] {
				result.AddError(fmt.Sprintf("%s.groups[%d]", field, i), fmt.Sprintf("Unknown experiment: %d", id))
				break
			}
		}
	}

	return result
}
