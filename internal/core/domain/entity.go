package domain

import "time"

// EntityType identifies the kind of business record an entity holds.
type EntityType string

const (
	// EntityTypeProject is a project summary record.
	EntityTypeProject EntityType = "PROJECT"

	// EntityTypeOpportunity is a sales opportunity record.
	EntityTypeOpportunity EntityType = "OPPORTUNITY"

	// EntityTypeServiceTicket is a service/helpdesk ticket record.
	EntityTypeServiceTicket EntityType = "SERVICE_TICKET"
)

// IsValid returns true if the entity type is recognised.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeProject, EntityTypeOpportunity, EntityTypeServiceTicket:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t EntityType) String() string {
	return string(t)
}

// Record is a canonical business record as parsed from feed content,
// before reconciliation against the store.
type Record struct {
	// Type identifies the kind of record.
	Type EntityType

	// ExternalID is the stable identifier assigned by the upstream
	// business system. (Type, ExternalID) is the reconciliation join key.
	ExternalID string

	// Fields holds the raw field values as fetched, keyed by normalised
	// field name. Values are the untyped string forms from the feed.
	Fields map[string]string

	// Raw is the snapshot payload as fetched, kept for audit.
	Raw string
}

// Entity is the persisted canonical record for a project, opportunity
// or service ticket. Entities are created by the first CREATED
// reconciliation, mutated on UPDATED, and never deleted by the sync path.
type Entity struct {
	// ID is the local unique identifier.
	ID string

	// Type identifies the kind of record.
	Type EntityType

	// ExternalID is the upstream identifier. (Type, ExternalID) is
	// globally unique.
	ExternalID string

	// Fields is the last reconciled summary snapshot.
	Fields map[string]string

	// Detail holds extended fields merged from a linked PROJECT_DETAIL
	// feed. Only populated for projects. Detail fields never participate
	// in drift comparison.
	Detail map[string]string

	// Raw is the last snapshot payload as fetched.
	Raw string

	// CreatedAt is when the entity was first reconciled.
	CreatedAt time.Time

	// UpdatedAt is when the entity was last written.
	UpdatedAt time.Time
}
