package text2img

import (
	"regexp"
	"strings"
)

// Characters and entities involved in text normalization.
const nbspEntity = "&nbsp;"

var (
	spaceRuns       = regexp.MustCompile(` {2,}`)
	markupEscaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	controlStripper = strings.NewReplacer("­", "", "​", "")
)

// Normalize prepares raw text for typesetting: it strips soft hyphens
// and zero-width spaces, escapes markup-significant characters, replaces
// every run of two or more literal spaces with an equal-length run of
// non-breaking-space markers, and splits the result into logical lines.
// A single space stays a plain breakable space, so natural word wrap
// survives while intentional multi-space alignment does not collapse.
// Pure function: no I/O, deterministic.
func Normalize(raw string) []string {
	text := controlStripper.Replace(raw)
	text = markupEscaper.Replace(text)
	text = spaceRuns.ReplaceAllStringFunc(text, func(run string) string {
		return strings.Repeat(nbspEntity, len(run))
	})
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// groupUnits joins consecutive batches of size lines with the inline
// break marker, producing the typesetting units handed to the flow
// engine. One line per unit would explode paragraph count; one unit for
// the whole text would put intra-text breaks at the wrong style
// boundary. Batching is the middle ground.
func groupUnits(lines []string, size int, marker string) []string {
	if size < 1 {
		size = 1
	}
	units := make([]string, 0, (len(lines)+size-1)/size)
	for start := 0; start < len(lines); start += size {
		end := start + size
		if end > len(lines) {
			end = len(lines)
		}
		units = append(units, strings.Join(lines[start:end], marker))
	}
	return units
}
