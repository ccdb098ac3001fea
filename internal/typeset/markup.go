package typeset

import "strings"

// The engine consumes a minimal inline markup: an explicit line-break
// marker plus the three escaped characters and the non-breaking-space
// entity produced by the normalizer. Nothing else is interpreted.

// splitSegments splits a typesetting unit on its inline break marker.
// Each segment ends in a hard line break.
func splitSegments(unit, marker string) []string {
	if marker == "" {
		marker = DefaultLineBreak
	}
	return strings.Split(unit, marker)
}

// entityDecoder maps entities back to runes. &amp; is decoded last so a
// literal "&amp;nbsp;" in the source round-trips as "&nbsp;" text.
var entityDecoder = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

// decodeEntities resolves the escaped characters of a segment.
func decodeEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	return entityDecoder.Replace(s)
}
