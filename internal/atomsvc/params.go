package atomsvc

import (
	"net/url"
	"strings"
)

// ExtractReportParameters parses the query string of a report URL into
// a mapping from parameter name to its ordered list of decoded values.
// SSRS repeats a key for multi-select parameters, so values are lists.
//
// Parameters whose names start with "rs:" or "rc:" are report-engine
// control parameters, not report data, and are dropped. Malformed URLs
// yield an empty mapping rather than an error.
func ExtractReportParameters(rawURL string) map[string][]string {
	out := make(map[string][]string)

	u, err := url.Parse(rawURL)
	if err != nil {
		return out
	}

	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return out
	}

	for name, vals := range values {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "rs:") || strings.HasPrefix(lower, "rc:") {
			continue
		}
		out[name] = vals
	}

	return out
}
