package ssrs

import (
	"encoding/xml"
	"io"
	"strings"
	"unicode"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

// ParseEntries extracts the entries of an SSRS ATOM data feed. Each
// entry's content properties become one field map; elements outside
// entry content (ids, timestamps, links) are ignored. Tag names are
// matched case-insensitively because SSRS is inconsistent about casing.
func ParseEntries(content string) ([]domain.FeedEntry, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var entries []domain.FeedEntry

	// Element name stack tracking position in the document.
	var path []string
	var current map[string]string
	var entryStart int64
	var leaf string
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewParseError("feed", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			path = append(path, t.Name.Local)
			if strings.EqualFold(t.Name.Local, "entry") {
				current = make(map[string]string)
				entryStart = dec.InputOffset()
			}
			if current != nil && isPropertyPath(path) {
				leaf = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if leaf != "" {
				text.Write(t)
			}
		case xml.EndElement:
			if leaf != "" && strings.EqualFold(t.Name.Local, leaf) {
				name := NormalizeFieldName(leaf)
				if name != "" {
					current[name] = strings.TrimSpace(text.String())
				}
				leaf = ""
			}
			if strings.EqualFold(t.Name.Local, "entry") && current != nil {
				entries = append(entries, domain.FeedEntry{
					Fields: current,
					Raw:    rawSlice(content, entryStart, dec.InputOffset()),
				})
				current = nil
			}
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		}
	}

	return entries, nil
}

// isPropertyPath reports whether the current element is a leaf property
// of an entry's content block: entry → content → [properties →] field.
func isPropertyPath(path []string) bool {
	// Find the innermost entry.
	entryIdx := -1
	for i, name := range path {
		if strings.EqualFold(name, "entry") {
			entryIdx = i
		}
	}
	if entryIdx < 0 {
		return false
	}
	rest := path[entryIdx+1:]
	if len(rest) < 2 || !strings.EqualFold(rest[0], "content") {
		return false
	}
	switch len(rest) {
	case 2:
		// entry/content/field - some renderers skip the properties
		// wrapper.
		return !strings.EqualFold(rest[1], "properties")
	case 3:
		return strings.EqualFold(rest[1], "properties")
	default:
		return false
	}
}

// rawSlice returns a best-effort slice of the source document between
// two decoder offsets for the audit payload.
func rawSlice(content string, start, end int64) string {
	if start < 0 || end > int64(len(content)) || start >= end {
		return ""
	}
	return content[start:end]
}

// NormalizeFieldName converts an SSRS property name (ProjectID,
// Percent_Complete, closeDate) into lower_snake_case.
func NormalizeFieldName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			b.WriteRune('_')
		case unicode.IsUpper(r):
			// Start of an upper run gets an underscore, but an upper
			// run itself stays together (ID -> id, not i_d). The last
			// upper of a run followed by lowers starts a new word
			// (SRNumber -> sr_number).
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteRune('_')
			} else if i > 0 && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}
