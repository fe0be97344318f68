package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
	"github.com/recsync/recsync-cli/internal/logger"
)

// ReconcileOutcome classifies the result of reconciling one fetched record.
type ReconcileOutcome int

const (
	OutcomeCreated ReconcileOutcome = iota
	OutcomeUpdated
	OutcomeUnchanged
)

// ReconcileResult carries the stored entity and, for created or updated
// outcomes, the change record describing what differed.
type ReconcileResult struct {
	Outcome ReconcileOutcome
	Entity  *domain.Entity
	Change  *domain.ChangeRecord
}

// Reconciler merges fetched records into the entity store and computes
// field-level diffs restricted to the per-type comparable field sets.
type Reconciler struct {
	entityStore driven.EntityStore
}

// NewReconciler creates a reconciler backed by the given entity store.
func NewReconciler(entityStore driven.EntityStore) *Reconciler {
	return &Reconciler{entityStore: entityStore}
}

// Reconcile looks up the entity identified by the record's type and external
// ID, then creates or updates it. The returned change record is nil when the
// record matched the stored snapshot on every comparable field.
func (r *Reconciler) Reconcile(ctx context.Context, record domain.Record) (*ReconcileResult, error) {
	if record.ExternalID == "" {
		return nil, fmt.Errorf("%w: record has no external id", domain.ErrInvalidInput)
	}
	if !record.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidInput, record.Type)
	}

	existing, err := r.entityStore.Get(ctx, record.Type, record.ExternalID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up entity: %w", err)
	}

	now := time.Now().UTC()

	if existing == nil {
		entity := &domain.Entity{
			ID:         uuid.New().String(),
			Type:       record.Type,
			ExternalID: record.ExternalID,
			Fields:     record.Fields,
			Raw:        record.Raw,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.entityStore.Save(ctx, entity); err != nil {
			return nil, fmt.Errorf("failed to save entity: %w", err)
		}
		return &ReconcileResult{
			Outcome: OutcomeCreated,
			Entity:  entity,
			Change: &domain.ChangeRecord{
				EntityType: record.Type,
				EntityID:   entity.ID,
				ExternalID: record.ExternalID,
				Type:       domain.ChangeCreated,
				Changes:    creationChanges(record),
			},
		}, nil
	}

	changes := diffFields(existing.Fields, record.Fields, domain.SyncableFields(record.Type))
	if len(changes) == 0 {
		return &ReconcileResult{Outcome: OutcomeUnchanged, Entity: existing}, nil
	}

	existing.Fields = record.Fields
	existing.Raw = record.Raw
	existing.UpdatedAt = now
	if err := r.entityStore.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to save entity: %w", err)
	}

	return &ReconcileResult{
		Outcome: OutcomeUpdated,
		Entity:  existing,
		Change: &domain.ChangeRecord{
			EntityType: record.Type,
			EntityID:   existing.ID,
			ExternalID: record.ExternalID,
			Type:       domain.ChangeUpdated,
			Changes:    changes,
		},
	}, nil
}

// MergeDetail overlays detail fields onto a project entity without touching
// list-level fields, registers any field names not seen before, and returns
// the names that were newly discovered.
func (r *Reconciler) MergeDetail(ctx context.Context, entity *domain.Entity, detail map[string]string) ([]string, error) {
	if len(detail) == 0 {
		return nil, nil
	}

	known, err := r.entityStore.DetailFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load detail field set: %w", err)
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, name := range known {
		knownSet[name] = struct{}{}
	}

	var discovered []string
	for name := range detail {
		if _, ok := knownSet[name]; !ok {
			discovered = append(discovered, name)
		}
	}
	sort.Strings(discovered)

	if len(discovered) > 0 {
		if err := r.entityStore.RegisterDetailFields(ctx, discovered); err != nil {
			return nil, fmt.Errorf("failed to register detail fields: %w", err)
		}
		logger.Debug("Discovered %d new detail field(s) for %s", len(discovered), entity.Type)
	}

	if entity.Detail == nil {
		entity.Detail = make(map[string]string, len(detail))
	}
	for name, value := range detail {
		entity.Detail[name] = value
	}
	entity.UpdatedAt = time.Now().UTC()

	if err := r.entityStore.Save(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to save entity detail: %w", err)
	}
	return discovered, nil
}

// creationChanges builds the change list for a brand-new entity: one entry
// per populated comparable field, with no prior value.
func creationChanges(record domain.Record) []domain.FieldChange {
	var changes []domain.FieldChange
	for _, spec := range domain.SyncableFields(record.Type) {
		value, ok := record.Fields[spec.Name]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		v := value
		changes = append(changes, domain.FieldChange{Field: spec.Name, New: &v})
	}
	return changes
}

// diffFields compares stored and fetched values over the comparable field
// set, returning one FieldChange per differing field.
func diffFields(old, new map[string]string, specs []domain.FieldSpec) []domain.FieldChange {
	var changes []domain.FieldChange
	for _, spec := range specs {
		oldVal, oldOK := old[spec.Name]
		newVal, newOK := new[spec.Name]
		if !oldOK && !newOK {
			continue
		}
		if fieldsEqual(spec.Kind, oldVal, newVal) {
			continue
		}
		change := domain.FieldChange{Field: spec.Name}
		if oldOK {
			o := oldVal
			change.Old = &o
		}
		if newOK {
			n := newVal
			change.New = &n
		}
		changes = append(changes, change)
	}
	return changes
}

// fieldsEqual applies the kind-specific equality rule. Values that fail to
// parse as their declared kind fall back to trimmed string comparison.
func fieldsEqual(kind domain.FieldKind, a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)

	switch kind {
	case domain.FieldInteger:
		ia, errA := strconv.ParseInt(a, 10, 64)
		ib, errB := strconv.ParseInt(b, 10, 64)
		if errA == nil && errB == nil {
			return ia == ib
		}
	case domain.FieldDecimal:
		fa, errA := strconv.ParseFloat(a, 64)
		fb, errB := strconv.ParseFloat(b, 64)
		if errA == nil && errB == nil {
			return math.Abs(fa-fb) <= domain.DecimalEpsilon
		}
	}
	return a == b
}
