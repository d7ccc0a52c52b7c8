// Package workspace builds immutable model.Workspace snapshots from workspace
// documents.
package workspace

import (
	"cmp"
	"slices"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
)

// Workspace is the in-memory model.Workspace implementation. It is never
// modified after New returns and is safe for concurrent readers.
type Workspace struct {
	experiments             map[int64]*model.Experiment
	featureFlags            map[int64]*model.Experiment
	buckets                 map[int64]*model.Bucket
	containers              map[int64]*model.Container
	segments                map[string]*model.Segment
	parameterConfigurations map[int64]*model.ParameterConfiguration
}

// Contents lists the entities of a workspace. Experiments and feature flags
// are indexed by key, segments by key, everything else by id.
type Contents struct {
	Experiments             []model.Experiment
	FeatureFlags            []model.Experiment
	Buckets                 []model.Bucket
	Containers              []model.Container
	Segments                []model.Segment
	ParameterConfigurations []model.ParameterConfiguration
}

func New(c Contents) *Workspace {
	ws := &Workspace{
		experiments:             make(map[int64]*model.Experiment, len(c.Experiments)),
		featureFlags:            make(map[int64]*model.Experiment, len(c.FeatureFlags)),
		buckets:                 make(map[int64]*model.Bucket, len(c.Buckets)),
		containers:              make(map[int64]*model.Container, len(c.Containers)),
		segments:                make(map[string]*model.Segment, len(c.Segments)),
		parameterConfigurations: make(map[int64]*model.ParameterConfiguration, len(c.ParameterConfigurations)),
	}
	for i := range c.Experiments {
		e := c.Experiments[i]
		ws.experiments[e.Key] = &e
	}
	for i := range c.FeatureFlags {
		f := c.FeatureFlags[i]
		ws.featureFlags[f.Key] = &f
	}
	for i := range c.Buckets {
		b := c.Buckets[i]
		ws.buckets[b.ID] = &b
	}
	for i := range c.Containers {
		ct := c.Containers[i]
		ws.containers[ct.ID] = &ct
	}
	for i := range c.Segments {
		s := c.Segments[i]
		ws.segments[s.Key] = &s
	}
	for i := range c.ParameterConfigurations {
		p := c.ParameterConfigurations[i]
		ws.parameterConfigurations[p.ID] = &p
	}
	return ws
}

func (w *Workspace) Experiment(key int64) (*model.Experiment, bool) {
	e, ok := w.experiments[key]
	return e, ok
}

func (w *Workspace) FeatureFlag(key int64) (*model.Experiment, bool) {
	f, ok := w.featureFlags[key]
	return f, ok
}

func (w *Workspace) Bucket(id int64) (*model.Bucket, bool) {
	b, ok := w.buckets[id]
	return b, ok
}

func (w *Workspace) Container(id int64) (*model.Container, bool) {
	c, ok := w.containers[id]
	return c, ok
}

func (w *Workspace) Segment(key string) (*model.Segment, bool) {
	s, ok := w.segments[key]
	return s, ok
}

func (w *Workspace) ParameterConfiguration(id int64) (*model.ParameterConfiguration, bool) {
	p, ok := w.parameterConfigurations[id]
	return p, ok
}

// Experiments returns the A/B tests ordered by key.
func (w *Workspace) Experiments() []*model.Experiment { return sortedByKey(w.experiments) }

// FeatureFlags returns the feature flags ordered by key.
func (w *Workspace) FeatureFlags() []*model.Experiment { return sortedByKey(w.featureFlags) }

func sortedByKey(m map[int64]*model.Experiment) []*model.Experiment {
	out := make([]*model.Experiment, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *model.Experiment) int { return cmp.Compare(a.Key, b.Key) })
	return out
}
