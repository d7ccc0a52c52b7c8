package model

// DecisionReason explains why a variation was chosen. Values are logged
// verbatim by exposure events and must stay stable.
type DecisionReason string

const (
	ReasonSDKNotReady  DecisionReason = "SDK_NOT_READY"
	ReasonException    DecisionReason = "EXCEPTION"
	ReasonInvalidInput DecisionReason = "INVALID_INPUT"

	ReasonExperimentNotFound             DecisionReason = "EXPERIMENT_NOT_FOUND"
	ReasonExperimentDraft                DecisionReason = "EXPERIMENT_DRAFT"
	ReasonExperimentPaused               DecisionReason = "EXPERIMENT_PAUSED"
	ReasonExperimentCompleted            DecisionReason = "EXPERIMENT_COMPLETED"
	ReasonOverridden                     DecisionReason = "OVERRIDDEN"
	ReasonTrafficNotAllocated            DecisionReason = "TRAFFIC_NOT_ALLOCATED"
	ReasonTrafficAllocated               DecisionReason = "TRAFFIC_ALLOCATED"
	ReasonNotInMutualExclusionExperiment DecisionReason = "NOT_IN_MUTUAL_EXCLUSION_EXPERIMENT"
	ReasonIdentifierNotFound             DecisionReason = "IDENTIFIER_NOT_FOUND"
	ReasonVariationDropped               DecisionReason = "VARIATION_DROPPED"
	ReasonNotInExperimentTarget          DecisionReason = "NOT_IN_EXPERIMENT_TARGET"

	ReasonFeatureFlagNotFound   DecisionReason = "FEATURE_FLAG_NOT_FOUND"
	ReasonFeatureFlagInactive   DecisionReason = "FEATURE_FLAG_INACTIVE"
	ReasonIndividualTargetMatch DecisionReason = "INDIVIDUAL_TARGET_MATCH"
	ReasonTargetRuleMatch       DecisionReason = "TARGET_RULE_MATCH"
	ReasonDefaultRule           DecisionReason = "DEFAULT_RULE"
)

func (r DecisionReason) String() string { return string(r) }
