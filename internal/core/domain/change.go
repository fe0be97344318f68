package domain

// ChangeType classifies a reconciliation outcome that produced a
// change record. UNCHANGED outcomes never produce one.
type ChangeType string

const (
	// ChangeCreated means the entity was seen for the first time.
	ChangeCreated ChangeType = "CREATED"

	// ChangeUpdated means at least one syncable field drifted.
	ChangeUpdated ChangeType = "UPDATED"
)

// FieldChange records one field-level difference.
type FieldChange struct {
	// Field is the syncable field name.
	Field string

	// Old is the previous value. Nil for CREATED changes.
	Old *string

	// New is the freshly fetched value.
	New *string
}

// ChangeRecord is the append-only audit row written once per reconciled
// entity within a sync run. It is never mutated after the run completes.
type ChangeRecord struct {
	// SyncRunID links to the producing run.
	SyncRunID string

	// EntityType identifies the kind of entity changed.
	EntityType EntityType

	// EntityID is the local entity identifier.
	EntityID string

	// ExternalID is the upstream identifier.
	ExternalID string

	// Type is CREATED or UPDATED.
	Type ChangeType

	// Changes lists the field differences in allow-list order.
	// UPDATED records always carry at least one.
	Changes []FieldChange
}

// EntityChanges groups the change records of one entity within a run,
// the shape returned by history reads.
type EntityChanges struct {
	// EntityType identifies the kind of entity.
	EntityType EntityType

	// ExternalID is the upstream identifier.
	ExternalID string

	// Records are the change records for this entity, in write order.
	Records []ChangeRecord
}
