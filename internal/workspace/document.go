package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned when a workspace document cannot be decoded.
var ErrInvalidDocument = errors.New("invalid workspace document")

// Document is the wire form of a workspace, as published by the dashboard
// and loaded by the config collaborator.
type Document struct {
	Experiments             []ExperimentDTO             `json:"experiments" yaml:"experiments"`
	FeatureFlags            []ExperimentDTO             `json:"featureFlags" yaml:"featureFlags"`
	Buckets                 []BucketDTO                 `json:"buckets" yaml:"buckets"`
	Containers              []ContainerDTO              `json:"containers" yaml:"containers"`
	Segments                []SegmentDTO                `json:"segments" yaml:"segments"`
	ParameterConfigurations []ParameterConfigurationDTO `json:"parameterConfigurations" yaml:"parameterConfigurations"`
}

type ExperimentDTO struct {
	ID                int64             `json:"id" yaml:"id"`
	Key               int64             `json:"key" yaml:"key"`
	Status            string            `json:"status" yaml:"status"`
	Version           int               `json:"version" yaml:"version"`
	IdentifierType    string            `json:"identifierType" yaml:"identifierType"`
	Variations        []VariationDTO    `json:"variations" yaml:"variations"`
	UserOverrides     []UserOverrideDTO `json:"userOverrides" yaml:"userOverrides"`
	SegmentOverrides  []TargetRuleDTO   `json:"segmentOverrides" yaml:"segmentOverrides"`
	TargetAudiences   []TargetDTO       `json:"targetAudiences" yaml:"targetAudiences"`
	TargetRules       []TargetRuleDTO   `json:"targetRules" yaml:"targetRules"`
	DefaultRule       ActionDTO         `json:"defaultRule" yaml:"defaultRule"`
	ContainerID       *int64            `json:"containerId,omitempty" yaml:"containerId,omitempty"`
	WinnerVariationID *int64            `json:"winnerVariationId,omitempty" yaml:"winnerVariationId,omitempty"`
}

type VariationDTO struct {
	ID                       int64  `json:"id" yaml:"id"`
	Key                      string `json:"key" yaml:"key"`
	Status                   string `json:"status" yaml:"status"` // ACTIVE or DROPPED
	ParameterConfigurationID *int64 `json:"parameterConfigurationId,omitempty" yaml:"parameterConfigurationId,omitempty"`
}

type UserOverrideDTO struct {
	UserID      string `json:"userId" yaml:"userId"`
	VariationID int64  `json:"variationId" yaml:"variationId"`
}

type TargetRuleDTO struct {
	Target TargetDTO `json:"target" yaml:"target"`
	Action ActionDTO `json:"action" yaml:"action"`
}

type ActionDTO struct {
	Type        string `json:"type" yaml:"type"`
	VariationID *int64 `json:"variationId,omitempty" yaml:"variationId,omitempty"`
	BucketID    *int64 `json:"bucketId,omitempty" yaml:"bucketId,omitempty"`
}

type TargetDTO struct {
	Conditions []ConditionDTO `json:"conditions" yaml:"conditions"`
}

type ConditionDTO struct {
	Key struct {
		Type string `json:"type" yaml:"type"`
		Name string `json:"name" yaml:"name"`
	} `json:"key" yaml:"key"`
	Match struct {
		Type      string `json:"type" yaml:"type"`
		Operator  string `json:"operator" yaml:"operator"`
		ValueType string `json:"valueType" yaml:"valueType"`
		Values    []any  `json:"values" yaml:"values"`
	} `json:"match" yaml:"match"`
}

type BucketDTO struct {
	ID       int64     `json:"id" yaml:"id"`
	Seed     int32     `json:"seed" yaml:"seed"`
	SlotSize int       `json:"slotSize" yaml:"slotSize"`
	Slots    []SlotDTO `json:"slots" yaml:"slots"`
}

type SlotDTO struct {
	StartInclusive int   `json:"startInclusive" yaml:"startInclusive"`
	EndExclusive   int   `json:"endExclusive" yaml:"endExclusive"`
	VariationID    int64 `json:"variationId" yaml:"variationId"`
}

type ContainerDTO struct {
	ID       int64 `json:"id" yaml:"id"`
	BucketID int64 `json:"bucketId" yaml:"bucketId"`
	Groups   []struct {
		ID          int64   `json:"id" yaml:"id"`
		Experiments []int64 `json:"experiments" yaml:"experiments"`
	} `json:"groups" yaml:"groups"`
}

type SegmentDTO struct {
	ID      int64       `json:"id" yaml:"id"`
	Key     string      `json:"key" yaml:"key"`
	Type    string      `json:"type" yaml:"type"`
	Targets []TargetDTO `json:"targets" yaml:"targets"`
}

type ParameterConfigurationDTO struct {
	ID         int64 `json:"id" yaml:"id"`
	Parameters []struct {
		Key   string `json:"key" yaml:"key"`
		Value any    `json:"value" yaml:"value"`
	} `json:"parameters" yaml:"parameters"`
}

// Parser converts documents into workspaces. Entities carrying values this
// SDK does not understand are dropped with a warning instead of failing the
// whole document, so that older SDKs keep working against newer workspaces.
type Parser struct {
	logger zerolog.Logger
}

func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseJSON decodes a JSON document.
func (p *Parser) ParseJSON(data []byte) (*Workspace, error) {
	doc, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return p.Build(doc), nil
}

// ParseYAML decodes a YAML document.
func (p *Parser) ParseYAML(data []byte) (*Workspace, error) {
	doc, err := DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return p.Build(doc), nil
}

// LoadFile reads a document from disk, choosing the decoder by extension.
// It also returns the raw bytes, which callers use to fingerprint the snapshot.
func (p *Parser) LoadFile(path string) (*Workspace, []byte, error) {
	doc, data, err := ReadDocument(path)
	if err != nil {
		return nil, nil, err
	}
	return p.Build(doc), data, nil
}

func DecodeJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

func DecodeYAML(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// ReadDocument reads and decodes a document without building it. Files ending
// in .yaml or .yml are YAML; anything else is JSON.
func ReadDocument(path string) (Document, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, nil, fmt.Errorf("failed to read workspace file: %w", err)
	}
	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = DecodeYAML(data)
	default:
		doc, err = DecodeJSON(data)
	}
	if err != nil {
		return Document{}, nil, err
	}
	return doc, data, nil
}

// Build converts a decoded document into a Workspace.
func (p *Parser) Build(doc Document) *Workspace {
	var c Contents
	for _, dto := range doc.Experiments {
		if e, ok := p.experiment(dto, model.TypeABTest); ok {
			c.Experiments = append(c.Experiments, e)
		}
	}
	for _, dto := range doc.FeatureFlags {
		if e, ok := p.experiment(dto, model.TypeFeatureFlag); ok {
			c.FeatureFlags = append(c.FeatureFlags, e)
		}
	}
	for _, dto := range doc.Buckets {
		c.Buckets = append(c.Buckets, bucket(dto))
	}
	for _, dto := range doc.Containers {
		c.Containers = append(c.Containers, container(dto))
	}
	for _, dto := range doc.Segments {
		c.Segments = append(c.Segments, model.Segment{
			ID:      dto.ID,
			Key:     dto.Key,
			Type:    dto.Type,
			Targets: p.segmentTargets(dto),
		})
	}
	for _, dto := range doc.ParameterConfigurations {
		params := make(map[string]any, len(dto.Parameters))
		for _, param := range dto.Parameters {
			params[param.Key] = param.Value
		}
		c.ParameterConfigurations = append(c.ParameterConfigurations, model.ParameterConfiguration{ID: dto.ID, Parameters: params})
	}
	return New(c)
}

func (p *Parser) experiment(dto ExperimentDTO, experimentType model.ExperimentType) (model.Experiment, bool) {
	status, ok := parseStatus(dto.Status)
	if !ok {
		p.logger.Warn().Int64("experiment_key", dto.Key).Str("status", dto.Status).Msg("unsupported experiment status, skipping experiment")
		return model.Experiment{}, false
	}
	defaultRule, ok := p.action(dto.DefaultRule)
	if !ok {
		p.logger.Warn().Int64("experiment_key", dto.Key).Str("action_type", dto.DefaultRule.Type).Msg("unsupported default rule, skipping experiment")
		return model.Experiment{}, false
	}

	audiences, ok := p.audiences(dto)
	if !ok {
		p.logger.Warn().Int64("experiment_key", dto.Key).Msg("no supported target audience, skipping experiment")
		return model.Experiment{}, false
	}

	identifierType := dto.IdentifierType
	if identifierType == "" {
		identifierType = model.IdentifierID
	}

	e := model.Experiment{
		ID:                dto.ID,
		Key:               dto.Key,
		Type:              experimentType,
		Status:            status,
		Version:           dto.Version,
		IdentifierType:    identifierType,
		UserOverrides:     make(map[string]int64, len(dto.UserOverrides)),
		SegmentOverrides:  p.targetRules(dto.SegmentOverrides),
		TargetAudiences:   audiences,
		TargetRules:       p.targetRules(dto.TargetRules),
		DefaultRule:       defaultRule,
		ContainerID:       dto.ContainerID,
		WinnerVariationID: dto.WinnerVariationID,
	}
	for _, v := range dto.Variations {
		e.Variations = append(e.Variations, model.Variation{
			ID:                       v.ID,
			Key:                      v.Key,
			IsDropped:                strings.EqualFold(v.Status, "DROPPED"),
			ParameterConfigurationID: v.ParameterConfigurationID,
		})
	}
	for _, o := range dto.UserOverrides {
		e.UserOverrides[o.UserID] = o.VariationID
	}
	return e, true
}

func (p *Parser) targetRules(dtos []TargetRuleDTO) []model.TargetRule {
	rules := make([]model.TargetRule, 0, len(dtos))
	for _, dto := range dtos {
		action, ok := p.action(dto.Action)
		if !ok {
			p.logger.Warn().Str("action_type", dto.Action.Type).Msg("unsupported action, skipping target rule")
			continue
		}
		target, err := p.target(dto.Target)
		if err != nil {
			p.logger.Warn().Err(err).Msg("unsupported condition, skipping target rule")
			continue
		}
		rules = append(rules, model.TargetRule{Target: target, Action: action})
	}
	return rules
}

func (p *Parser) action(dto ActionDTO) (model.Action, bool) {
	switch model.ActionType(dto.Type) {
	case model.ActionVariation:
		return model.Action{Type: model.ActionVariation, VariationID: dto.VariationID}, true
	case model.ActionBucket:
		return model.Action{Type: model.ActionBucket, BucketID: dto.BucketID}, true
	default:
		return model.Action{}, false
	}
}

// audiences drops audience targets that cannot be parsed. Audiences are OR'd,
// so a dropped target only narrows the experiment, except when every target is
// dropped: an empty list would admit everyone, so ok is false instead.
func (p *Parser) audiences(dto ExperimentDTO) ([]model.Target, bool) {
	targets := p.parseTargets(dto.TargetAudiences, "experiment_key", strconv.FormatInt(dto.Key, 10))
	return targets, len(targets) > 0 || len(dto.TargetAudiences) == 0
}

// segmentTargets drops segment targets that cannot be parsed. A segment left
// without targets matches no user.
func (p *Parser) segmentTargets(dto SegmentDTO) []model.Target {
	return p.parseTargets(dto.Targets, "segment_key", dto.Key)
}

func (p *Parser) parseTargets(dtos []TargetDTO, owner, key string) []model.Target {
	targets := make([]model.Target, 0, len(dtos))
	for _, dto := range dtos {
		target, err := p.target(dto)
		if err != nil {
			p.logger.Warn().Err(err).Str(owner, key).Msg("unsupported condition, skipping target")
			continue
		}
		targets = append(targets, target)
	}
	return targets
}

// target fails when any condition fails. Conditions are AND'd, so keeping the
// rest would widen the target.
func (p *Parser) target(dto TargetDTO) (model.Target, error) {
	conditions := make([]model.Condition, 0, len(dto.Conditions))
	for _, c := range dto.Conditions {
		condition, err := condition(c)
		if err != nil {
			return model.Target{}, fmt.Errorf("condition on %q: %w", c.Key.Name, err)
		}
		conditions = append(conditions, condition)
	}
	return model.Target{Conditions: conditions}, nil
}

func condition(dto ConditionDTO) (model.Condition, error) {
	keyType := model.KeyType(dto.Key.Type)
	switch keyType {
	case model.KeyUserID, model.KeyUserProperty, model.KeyHackleProperty, model.KeySegment:
	default:
		return model.Condition{}, fmt.Errorf("unsupported key type %q", dto.Key.Type)
	}

	matchType := model.MatchType(dto.Match.Type)
	if matchType != model.MatchTypeMatch && matchType != model.MatchTypeNotMatch {
		return model.Condition{}, fmt.Errorf("unsupported match type %q", dto.Match.Type)
	}

	operator := model.Operator(dto.Match.Operator)
	switch operator {
	case model.OpIn, model.OpContains, model.OpStartsWith, model.OpEndsWith,
		model.OpGT, model.OpGTE, model.OpLT, model.OpLTE:
	default:
		return model.Condition{}, fmt.Errorf("unsupported operator %q", dto.Match.Operator)
	}

	valueType := model.ValueType(dto.Match.ValueType)
	switch valueType {
	case model.ValueString, model.ValueNumber, model.ValueBool, model.ValueVersion:
	default:
		return model.Condition{}, fmt.Errorf("unsupported value type %q", dto.Match.ValueType)
	}

	values := make([]model.HackleValue, 0, len(dto.Match.Values))
	for _, raw := range dto.Match.Values {
		v, ok := model.ValueOf(raw)
		if !ok {
			return model.Condition{}, fmt.Errorf("unsupported value %v", raw)
		}
		values = append(values, v)
	}

	return model.Condition{
		Key: model.Key{Type: keyType, Name: dto.Key.Name},
		Match: model.Match{
			Type:      matchType,
			Operator:  operator,
			ValueType: valueType,
			Values:    values,
		},
	}, nil
}

func parseStatus(s string) (model.ExperimentStatus, bool) {
	switch status := model.ExperimentStatus(strings.ToUpper(s)); status {
	case model.StatusDraft, model.StatusRunning, model.StatusPaused, model.StatusCompleted:
		return status, true
	default:
		return "", false
	}
}

func bucket(dto BucketDTO) model.Bucket {
	b := model.Bucket{ID: dto.ID, Seed: dto.Seed, SlotSize: dto.SlotSize}
	for _, s := range dto.Slots {
		b.Slots = append(b.Slots, model.Slot{
			StartInclusive: s.StartInclusive,
			EndExclusive:   s.EndExclusive,
			VariationID:    s.VariationID,
		})
	}
	return b
}

func container(dto ContainerDTO) model.Container {
	c := model.Container{ID: dto.ID, BucketID: dto.BucketID}
	for _, g := range dto.Groups {
		c.Groups = append(c.Groups, model.ContainerGroup{ID: g.ID, Experiments: g.Experiments})
	}
	return c
}
