package atomsvc

import "strings"

// entityReplacer decodes the HTML entities SSRS leaves in href values
// after XML-level decoding. A single left-to-right pass decodes exactly
// one level, so a double-encoded "&amp;amp;" becomes "&amp;", never "&".
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// DecodeEntities decodes one level of HTML entity encoding.
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}
