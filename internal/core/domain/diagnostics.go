package domain

// FeedLink describes one summary-to-detail feed relationship.
type FeedLink struct {
	// FeedID is the PROJECTS feed carrying the link.
	FeedID string

	// FeedName is its display name.
	FeedName string

	// DetailFeedID is the referenced PROJECT_DETAIL feed.
	DetailFeedID string

	// DetailFeedName is its display name, empty when dangling.
	DetailFeedName string

	// Dangling is true when DetailFeedID resolves to no feed.
	Dangling bool

	// DetailInactive is true when the target feed exists but is disabled.
	DetailInactive bool
}

// FeedLinkageSummary is a read-only projection over feed linkage.
type FeedLinkageSummary struct {
	// TotalFeeds is the number of configured feeds.
	TotalFeeds int

	// ActiveFeeds is the number of active feeds.
	ActiveFeeds int

	// ByType counts feeds per type.
	ByType map[FeedType]int

	// Links lists every configured detail link.
	Links []FeedLink
}

// DetailFieldCoverage reports how widely one discovered detail field is
// populated across project entities.
type DetailFieldCoverage struct {
	// Field is the discovered detail field name.
	Field string

	// ProjectsWithField counts sampled projects carrying the field.
	ProjectsWithField int

	// ProjectsSampled is the sample size.
	ProjectsSampled int
}

// Coverage returns the populated fraction, 0 when nothing was sampled.
func (c DetailFieldCoverage) Coverage() float64 {
	if c.ProjectsSampled == 0 {
		return 0
	}
	return float64(c.ProjectsWithField) / float64(c.ProjectsSampled)
}
