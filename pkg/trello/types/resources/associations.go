package resources

import (
	"context"
	"fmt"

	trelloerrors "github.com/diwise/trello-client/pkg/trello/errors"
)

// Resolve returns the resource referred to by a belongs-to relation. The first
// call looks the related resource up through the owner's transport, later calls
// return the same instance until Reload is called on the owner.
func (r *Resource) Resolve(ctx context.Context, relation string) (*Resource, error) {
	rel, ok := r.kind.relations[relation]
	if !ok || rel.Many {
		return nil, fmt.Errorf("%s has no single valued relation named %q", r.kind.name, relation)
	}

	if related, ok := r.related[relation]; ok {
		return related, nil
	}

	foreignKey := r.String(rel.ForeignKey)
	if foreignKey == "" {
		return nil, trelloerrors.NewNotFoundError(rel.Kind.name, "", nil)
	}

	related, err := Find(ctx, r.transport, rel.Kind, foreignKey, nil)
	if err != nil {
		return nil, err
	}

	r.related[relation] = related

	return related, nil
}

// ResolveMany lists the resources of a has-many relation. The result is not
// cached.
func (r *Resource) ResolveMany(ctx context.Context, relation string, queryOptions map[string]string) ([]*Resource, error) {
	rel, ok := r.kind.relations[relation]
	if !ok || !rel.Many {
		return nil, fmt.Errorf("%s has no collection relation named %q", r.kind.name, relation)
	}

	if r.id == "" {
		return nil, trelloerrors.NewNotFoundError(r.kind.name, "", nil)
	}

	return FindAll(ctx, r.transport, rel.Kind, r.kind.ItemPath(r.id)+"/"+rel.Kind.collection, queryOptions)
}
