package ingest

import (
	"regexp"
	"strings"
)

var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&amp;", "&",
	"&nbsp;", " ",
)

// A tag starts with a letter, "/" or "!" right after "<", so a bare
// comparison such as "x < y" survives.
var tagPattern = regexp.MustCompile(`</?[A-Za-z!][^<>]*>`)

// DecodeText turns HTML-encoded source text into plain text. Entities are
// replaced in one pass (so "&amp;lt;" becomes "&lt;"), then tags are
// stripped, whitespace runs collapsed and the result trimmed.
func DecodeText(s string) string {
	if s == "" {
		return ""
	}
	s = entityReplacer.Replace(s)
	s = tagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
