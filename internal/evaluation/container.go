package evaluation

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/rollout"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
)

// ContainerResolver decides mutual exclusion membership. The container's
// bucket assigns every identifier to at most one group, so a user can be a
// member of at most one experiment group per container.
type ContainerResolver struct {
	bucketer *rollout.Bucketer
}

func NewContainerResolver(bucketer *rollout.Bucketer) *ContainerResolver {
	return &ContainerResolver{bucketer: bucketer}
}

// IsUserInContainerGroup reports whether the user's group contains exp. A slot
// naming a group the container does not have is an error.
func (r *ContainerResolver) IsUserInContainerGroup(container *model.Container, bucket *model.Bucket, exp *model.Experiment, u user.HackleUser) (bool, error) {
	identifier, ok := u.Identifier(exp.IdentifierType)
	if !ok {
		return false, nil
	}
	slot, ok := r.bucketer.Bucketing(bucket, identifier)
	if !ok {
		return false, nil
	}
	group, ok := container.Group(slot.VariationID)
	if !ok {
		return false, model.Errorf("ContainerGroup[%d]", slot.VariationID)
	}
	return group.Contains(exp.ID), nil
}
