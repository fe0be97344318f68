package driven

import (
	"context"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

// EntityStore persists canonical entities keyed by (type, external id),
// and the set of detail field names discovered during adaptive merge.
type EntityStore interface {
	// Get retrieves an entity by its reconciliation join key.
	Get(ctx context.Context, t domain.EntityType, externalID string) (*domain.Entity, error)

	// Save stores or updates an entity.
	Save(ctx context.Context, entity *domain.Entity) error

	// ListByType returns up to limit entities of one type, in external
	// id order. A limit of 0 returns all.
	ListByType(ctx context.Context, t domain.EntityType, limit int) ([]domain.Entity, error)

	// CountByType returns the number of entities of one type.
	CountByType(ctx context.Context, t domain.EntityType) (int, error)

	// RegisterDetailFields records newly observed detail field names in
	// the discovery set. Already-known names are ignored.
	RegisterDetailFields(ctx context.Context, names []string) error

	// DetailFields returns the discovery set in lexical order.
	DetailFields(ctx context.Context) ([]string, error)
}
