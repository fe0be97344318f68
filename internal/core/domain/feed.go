package domain

import "time"

// FeedType classifies what kind of business records a feed publishes.
type FeedType string

const (
	// FeedTypeProjects publishes project summary records.
	FeedTypeProjects FeedType = "PROJECTS"

	// FeedTypeOpportunities publishes sales opportunity records.
	FeedTypeOpportunities FeedType = "OPPORTUNITIES"

	// FeedTypeServiceTickets publishes service/helpdesk ticket records.
	FeedTypeServiceTickets FeedType = "SERVICE_TICKETS"

	// FeedTypeProjectDetail publishes extended per-project fields.
	// Detail feeds are never synced on their own; they are merged into
	// project entities via a link on a PROJECTS feed.
	FeedTypeProjectDetail FeedType = "PROJECT_DETAIL"
)

// IsValid returns true if the feed type is recognised.
func (t FeedType) IsValid() bool {
	switch t {
	case FeedTypeProjects, FeedTypeOpportunities, FeedTypeServiceTickets, FeedTypeProjectDetail:
		return true
	default:
		return false
	}
}

// IsSyncable returns true if the feed type can be the subject of a sync run.
// Detail feeds are only fetched as part of a project sync.
func (t FeedType) IsSyncable() bool {
	switch t {
	case FeedTypeProjects, FeedTypeOpportunities, FeedTypeServiceTickets:
		return true
	default:
		return false
	}
}

// EntityType returns the entity type a syncable feed produces.
// Returns false for PROJECT_DETAIL and unknown types.
func (t FeedType) EntityType() (EntityType, bool) {
	switch t {
	case FeedTypeProjects:
		return EntityTypeProject, true
	case FeedTypeOpportunities:
		return EntityTypeOpportunity, true
	case FeedTypeServiceTickets:
		return EntityTypeServiceTicket, true
	default:
		return "", false
	}
}

// String returns the string representation.
func (t FeedType) String() string {
	return string(t)
}

// SyncableFeedTypes lists the feed types a sync run can be requested for,
// in the order an "all" request fans out.
func SyncableFeedTypes() []FeedType {
	return []FeedType{FeedTypeProjects, FeedTypeOpportunities, FeedTypeServiceTickets}
}

// FeedDescriptor represents a configured report feed imported from an
// ATOMSVC subscription document.
type FeedDescriptor struct {
	// ID is the unique identifier for the feed.
	ID string

	// Name is the human-readable name resolved at import time.
	Name string

	// Type is the classified feed type.
	Type FeedType

	// URL is the report feed URL, fully entity-decoded.
	URL string

	// DetailFeedID references a linked PROJECT_DETAIL feed.
	// Empty means no detail feed is linked. Only legal on PROJECTS feeds.
	// This is a plain foreign key; resolve it through FeedStore.Get.
	DetailFeedID string

	// Active indicates whether the feed participates in sync runs.
	Active bool

	// LastSync is when the feed was last successfully synced.
	// The sync orchestrator is the only writer of this field.
	LastSync time.Time

	// CreatedAt is when the feed was imported.
	CreatedAt time.Time

	// UpdatedAt is when the feed was last modified.
	UpdatedAt time.Time
}

// CanLinkDetail returns true if a detail feed may be linked to this feed.
func (f *FeedDescriptor) CanLinkDetail() bool {
	return f.Type == FeedTypeProjects
}

// FeedTemplate is a portable preset of a feed configuration, used to share
// feed setups between installations without exporting local state.
type FeedTemplate struct {
	// Name is the feed display name.
	Name string `toml:"name"`

	// URL is the fully decoded feed URL.
	URL string `toml:"url"`

	// Type is the feed type.
	Type FeedType `toml:"type"`
}
