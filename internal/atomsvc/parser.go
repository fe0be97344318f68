package atomsvc

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

// genericTitle matches report-designer element names (Tablix1, Chart3…)
// that make poor display names and trigger the workspace-title fallback.
var genericTitle = regexp.MustCompile(`(?i)^(tablix|table|chart|matrix)\d*$`)

// Recognized returns true if the trimmed input plausibly is an ATOMSVC
// service document or an ATOM feed. A false result is a soft rejection,
// not a parse failure.
func Recognized(content string) bool {
	trimmed := strings.TrimSpace(content)
	for _, prefix := range []string{"<?xml", "<service", "<feed>"} {
		if len(trimmed) >= len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}

// Parse interprets an ATOMSVC subscription document, or a raw ATOM
// feed, into per-collection parse outcomes. Unrecognized input yields
// domain.ErrNotRecognized; XML that cannot be parsed at all yields a
// *domain.ParseError and no outcomes.
func Parse(content string) ([]domain.ParseOutcome, error) {
	if !Recognized(content) {
		return nil, domain.ErrNotRecognized
	}

	root, err := parseTree(strings.NewReader(content))
	if err != nil {
		return nil, domain.NewParseError("", err)
	}
	if root == nil {
		return nil, domain.NewParseError("", io.ErrUnexpectedEOF)
	}

	switch {
	case root.is("service"):
		return parseService(root), nil
	case root.is("feed"):
		// Degenerate input: a direct ATOM feed carries no subscription
		// metadata, so the URL must be supplied by the caller.
		d := domain.FeedDescriptor{
			Name: feedTitle(root),
			Type: domain.FeedTypeProjects,
		}
		return []domain.ParseOutcome{domain.Found(d)}, nil
	default:
		return nil, domain.ErrNotRecognized
	}
}

// parseService walks service → workspace* → collection*.
func parseService(root *node) []domain.ParseOutcome {
	var outcomes []domain.ParseOutcome
	for _, ws := range root.children("workspace") {
		outcomes = append(outcomes, parseWorkspace(ws)...)
	}
	return outcomes
}

// parseWorkspace resolves names and classifies every collection of one
// workspace. Ordinal suffixes are only assigned when two or more
// collections fall back to the same workspace title.
func parseWorkspace(ws *node) []domain.ParseOutcome {
	wsTitle := strings.TrimSpace(ws.childText("title"))

	type candidate struct {
		href     string
		name     string
		fallback bool
	}

	var candidates []candidate
	var outcomes []domain.ParseOutcome
	// index into candidates per outcome slot, -1 for skips
	var slots []int

	for _, coll := range ws.children("collection") {
		href, ok := coll.attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			// Empty placeholder collections are common in SSRS exports.
			outcomes = append(outcomes, domain.Skipped("collection without href"))
			slots = append(slots, -1)
			continue
		}

		title := strings.TrimSpace(coll.childText("title"))
		name := title
		fallback := false
		if title == "" || genericTitle.MatchString(title) {
			name = wsTitle
			fallback = true
		}
		if name == "" {
			name = "Feed"
		}

		decoded := DecodeEntities(href)
		if _, err := url.Parse(decoded); err != nil {
			outcomes = append(outcomes, domain.Failed(fmt.Errorf("collection %q: unusable href: %w", name, err)))
			slots = append(slots, -1)
			continue
		}

		candidates = append(candidates, candidate{href: decoded, name: name, fallback: fallback})
		outcomes = append(outcomes, domain.ParseOutcome{})
		slots = append(slots, len(candidates)-1)
	}

	// Count how many collections resolved to each fallback name.
	fallbackUses := make(map[string]int)
	for _, c := range candidates {
		if c.fallback {
			fallbackUses[c.name]++
		}
	}

	ordinals := make(map[string]int)
	for i, slot := range slots {
		if slot < 0 {
			continue
		}
		c := candidates[slot]
		name := c.name
		if c.fallback && fallbackUses[c.name] > 1 {
			ordinals[c.name]++
			name = c.name + " (" + strconv.Itoa(ordinals[c.name]) + ")"
		}
		outcomes[i] = domain.Found(domain.FeedDescriptor{
			Name: name,
			Type: Classify(c.href, name),
			URL:  c.href,
		})
	}

	return outcomes
}

// feedTitle extracts a best-effort display name from a raw ATOM feed.
func feedTitle(root *node) string {
	if t := strings.TrimSpace(root.childText("title")); t != "" {
		return t
	}
	return "Imported Feed"
}

// node is a minimal XML tree with case-insensitive name matching.
type node struct {
	name  string
	attrs []xml.Attr
	text  strings.Builder
	kids  []*node
}

// is reports whether the element's local name matches, ignoring case.
func (n *node) is(name string) bool {
	return strings.EqualFold(n.name, name)
}

// children returns child elements with the given local name.
func (n *node) children(name string) []*node {
	var out []*node
	for _, k := range n.kids {
		if k.is(name) {
			out = append(out, k)
		}
	}
	return out
}

// childText returns the text of the first child with the given name.
func (n *node) childText(name string) string {
	for _, k := range n.kids {
		if k.is(name) {
			return k.text.String()
		}
	}
	return ""
}

// attr looks up an attribute by local name, ignoring case.
func (n *node) attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

// parseTree decodes the document into a node tree. Namespaces are
// ignored; only local names matter to SSRS exports.
func parseTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	// SSRS exports occasionally declare legacy encodings.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var root *node
	var stack []*node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return root, nil
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.kids = append(parent.kids, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	return root, nil
}
