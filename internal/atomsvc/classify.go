package atomsvc

import (
	"strings"

	"github.com/recsync/recsync-cli/internal/core/domain"

	"github.com/recsync/recsync-cli/internal/logger"
)

// Keyword groups in precedence order: ticket keywords outrank
// opportunity keywords, which outrank project keywords. The heuristic is
// deliberately deterministic so classification is reproducible.
var (
	ticketKeywords      = []string{"ticket", "service", "helpdesk", "support", "incident", "sr "}
	opportunityKeywords = []string{"opportunit", "sales", "pipeline", "opp "}
	projectKeywords     = []string{"project", "pm "}
)

// Classify infers a feed type from the decoded href and resolved title.
// When nothing matches it defaults to PROJECTS; ambiguity is logged but
// never an error.
func Classify(href, title string) domain.FeedType {
	haystack := strings.ToLower(href + " " + title)

	if containsAny(haystack, ticketKeywords) {
		return domain.FeedTypeServiceTickets
	}
	if containsAny(haystack, opportunityKeywords) {
		return domain.FeedTypeOpportunities
	}
	if containsAny(haystack, projectKeywords) {
		return domain.FeedTypeProjects
	}

	logger.Debug("No classification keywords matched for %q; defaulting to PROJECTS", title)
	return domain.FeedTypeProjects
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
