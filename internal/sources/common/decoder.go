package common

import (
	"strings"

	"sleuth/internal/core/domain"
)

// LineDecoder turns one line of tool output into a FoundEvent.
// The boolean is false for lines that carry no match.
type LineDecoder interface {
	Decode(line string) (domain.FoundEvent, bool)
}

// FoundMarker prefixes every positive hit in sherlock and naminter output.
const FoundMarker = "[+]"

// MarkerDecoder accepts lines of exactly three whitespace-separated tokens
// whose first token equals Marker. The second token is the site name with
// TrimLeading and TrimTrailing characters removed, possibly leaving it
// empty; the third is the URL.
type MarkerDecoder struct {
	Source       domain.ToolName
	Marker       string
	TrimLeading  int
	TrimTrailing int
}

func (d MarkerDecoder) Decode(line string) (domain.FoundEvent, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != d.Marker {
		return domain.FoundEvent{}, false
	}

	// a name shorter than the trim width decodes to ""
	name := []rune(fields[1])
	start := min(d.TrimLeading, len(name))
	end := max(start, len(name)-d.TrimTrailing)

	return domain.FoundEvent{
		Source: d.Source,
		Name:   string(name[start:end]),
		URL:    fields[2],
	}, true
}
