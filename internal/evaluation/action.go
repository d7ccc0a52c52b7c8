package evaluation

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/rollout"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
)

// ActionResolver turns a rule action into a variation of the experiment.
type ActionResolver struct {
	bucketer *rollout.Bucketer
}

func NewActionResolver(bucketer *rollout.Bucketer) *ActionResolver {
	return &ActionResolver{bucketer: bucketer}
}

// Resolve reports false when a bucket action does not allocate the user: the
// user lacks the experiment's identifier or lands in an unassigned slot.
// References to missing variations or buckets are errors.
func (r *ActionResolver) Resolve(ws model.Workspace, exp *model.Experiment, u user.HackleUser, action model.Action) (*model.Variation, bool, error) {
	switch action.Type {
	case model.ActionVariation:
		return r.resolveVariation(exp, action)
	case model.ActionBucket:
		return r.resolveBucket(ws, exp, u, action)
	default:
		return nil, false, model.Errorf("unsupported action type [%s]", action.Type)
	}
}

func (r *ActionResolver) resolveVariation(exp *model.Experiment, action model.Action) (*model.Variation, bool, error) {
	if action.VariationID == nil {
		return nil, false, model.Errorf("action variation [%d]", exp.ID)
	}
	variation, ok := exp.Variation(*action.VariationID)
	if !ok {
		return nil, false, model.Errorf("variation[%d]", *action.VariationID)
	}
	return variation, true, nil
}

func (r *ActionResolver) resolveBucket(ws model.Workspace, exp *model.Experiment, u user.HackleUser, action model.Action) (*model.Variation, bool, error) {
	if action.BucketID == nil {
		return nil, false, model.Errorf("action bucket [%d]", exp.ID)
	}
	bucket, ok := ws.Bucket(*action.BucketID)
	if !ok {
		return nil, false, model.Errorf("bucket[%d]", *action.BucketID)
	}

	identifier, ok := u.Identifier(exp.IdentifierType)
	if !ok {
		return nil, false, nil
	}
	slot, ok := r.bucketer.Bucketing(bucket, identifier)
	if !ok {
		return nil, false, nil
	}

	variation, ok := exp.Variation(slot.VariationID)
	if !ok {
		return nil, false, model.Errorf("variation[%d]", slot.VariationID)
	}
	return variation, true, nil
}
