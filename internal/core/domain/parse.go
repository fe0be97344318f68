package domain

// ParseOutcomeKind tags the result of parsing one collection element.
type ParseOutcomeKind string

const (
	// OutcomeFound means a feed descriptor candidate was produced.
	OutcomeFound ParseOutcomeKind = "found"

	// OutcomeSkipped means the element was silently ignored, e.g. an
	// empty placeholder collection without an href.
	OutcomeSkipped ParseOutcomeKind = "skipped"

	// OutcomeFailed means the element could not be interpreted.
	OutcomeFailed ParseOutcomeKind = "failed"
)

// ParseOutcome is the tagged per-collection result of ATOMSVC parsing.
// Exactly one of Descriptor, Reason or Err is meaningful, selected by Kind.
// The explicit tag replaces "skip if field missing" truthiness chains.
type ParseOutcome struct {
	// Kind selects the variant.
	Kind ParseOutcomeKind

	// Descriptor is the candidate feed, set when Kind is OutcomeFound.
	Descriptor FeedDescriptor

	// Reason explains a skip, set when Kind is OutcomeSkipped.
	Reason string

	// Err is the cause, set when Kind is OutcomeFailed.
	Err error
}

// Found returns an outcome carrying a descriptor candidate.
func Found(d FeedDescriptor) ParseOutcome {
	return ParseOutcome{Kind: OutcomeFound, Descriptor: d}
}

// Skipped returns an outcome for a silently ignored element.
func Skipped(reason string) ParseOutcome {
	return ParseOutcome{Kind: OutcomeSkipped, Reason: reason}
}

// Failed returns an outcome for an element that could not be parsed.
func Failed(err error) ParseOutcome {
	return ParseOutcome{Kind: OutcomeFailed, Err: err}
}
