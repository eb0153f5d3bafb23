package service

import (
	"context"
	"errors"

	"github.com/cliptube/cliptube/internal/domain"
)

// ToggleResult reports the net effect of a toggle. Callers learn only whether
// the relation now exists, never internal relation IDs.
type ToggleResult struct {
	Created bool `json:"created"`
}

// toggleRelation flips existence of an at-most-one relation per
// (subject, object). The find-then-act sequence has a race window; the
// store's unique index is the correctness backstop. A create that loses the
// race surfaces domain.ErrRelationAlreadyExists, and the toggle re-reads and
// deletes so two concurrent toggles still net out to one flip each.
func toggleRelation(
	ctx context.Context,
	find func(ctx context.Context) (id string, err error),
	create func(ctx context.Context) error,
	remove func(ctx context.Context, id string) error,
) (*ToggleResult, error) {
	id, err := find(ctx)
	switch {
	case err == nil:
		if err := remove(ctx, id); err != nil && !errors.Is(err, domain.ErrRelationNotFound) {
			return nil, internalErr(err)
		}
		return &ToggleResult{Created: false}, nil

	case errors.Is(err, domain.ErrRelationNotFound):
		err := create(ctx)
		if err == nil {
			return &ToggleResult{Created: true}, nil
		}
		if !errors.Is(err, domain.ErrRelationAlreadyExists) {
			return nil, internalErr(err)
		}

		// Lost the race: a concurrent toggle created the relation after our
		// read. Flip it back by deleting what won.
		id, err := find(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrRelationNotFound) {
				// Deleted again in the meantime; existence already flipped.
				return &ToggleResult{Created: false}, nil
			}
			return nil, internalErr(err)
		}
		if err := remove(ctx, id); err != nil && !errors.Is(err, domain.ErrRelationNotFound) {
			return nil, internalErr(err)
		}
		return &ToggleResult{Created: false}, nil

	default:
		return nil, internalErr(err)
	}
}
