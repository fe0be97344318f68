package domain

// FeedEntry is one raw ATOM entry fetched from a report feed, before it
// is keyed and typed into a Record. Field names are normalised to
// lower_snake_case by the connector.
type FeedEntry struct {
	// Fields holds the entry's property values keyed by field name.
	Fields map[string]string

	// Raw is the entry payload as fetched, kept for audit.
	Raw string
}
