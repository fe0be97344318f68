package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
)

// Ensure EntityStore implements the interface.
var _ driven.EntityStore = (*EntityStore)(nil)

type entityKey struct {
	t          domain.EntityType
	externalID string
}

// EntityStore is an in-memory implementation of driven.EntityStore.
type EntityStore struct {
	mu           sync.RWMutex
	entities     map[entityKey]domain.Entity
	detailFields map[string]struct{}
}

// NewEntityStore creates a new in-memory entity store.
func NewEntityStore() *EntityStore {
	return &EntityStore{
		entities:     make(map[entityKey]domain.Entity),
		detailFields: make(map[string]struct{}),
	}
}

// Get retrieves an entity by type and external ID.
func (s *EntityStore) Get(_ context.Context, t domain.EntityType, externalID string) (*domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.entities[entityKey{t, externalID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEntity(entity), nil
}

// Save stores or updates an entity.
func (s *EntityStore) Save(_ context.Context, entity *domain.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[entityKey{entity.Type, entity.ExternalID}] = *cloneEntity(*entity)
	return nil
}

// ListByType returns up to limit entities of one type in external id order.
func (s *EntityStore) ListByType(_ context.Context, t domain.EntityType, limit int) ([]domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Entity
	for key, entity := range s.entities {
		if key.t == t {
			result = append(result, *cloneEntity(entity))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ExternalID < result[j].ExternalID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountByType returns the number of entities of one type.
func (s *EntityStore) CountByType(_ context.Context, t domain.EntityType) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for key := range s.entities {
		if key.t == t {
			count++
		}
	}
	return count, nil
}

// RegisterDetailFields records newly observed detail field names.
func (s *EntityStore) RegisterDetailFields(_ context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		s.detailFields[name] = struct{}{}
	}
	return nil
}

// DetailFields returns the discovery set in lexical order.
func (s *EntityStore) DetailFields(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]string, 0, len(s.detailFields))
	for name := range s.detailFields {
		result = append(result, name)
	}
	sort.Strings(result)
	return result, nil
}

// cloneEntity deep-copies the maps so callers cannot alias stored state.
func cloneEntity(e domain.Entity) *domain.Entity {
	clone := e
	if e.Fields != nil {
		clone.Fields = make(map[string]string, len(e.Fields))
		for k, v := range e.Fields {
			clone.Fields[k] = v
		}
	}
	if e.Detail != nil {
		clone.Detail = make(map[string]string, len(e.Detail))
		for k, v := range e.Detail {
			clone.Detail[k] = v
		}
	}
	return &clone
}
