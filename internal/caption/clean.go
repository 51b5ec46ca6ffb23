package caption

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	timestampArtifact = regexp.MustCompile(`\[\d+\.\d+s\s*-\s*\d+\.\d+s\]`)
	cueTimePattern    = regexp.MustCompile(`<00:\d+:\d+\.\d+>`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
)

// Cleaner flattens caption segments into a deduplicated text blob.
// MinTextLength is the inclusive floor below which a cleaned segment is
// discarded as fragment noise; it is a heuristic, not a correctness
// requirement.
type Cleaner struct {
	MinTextLength int
}

// NewCleaner returns a Cleaner with the default length filter.
func NewCleaner() Cleaner {
	return Cleaner{MinTextLength: 10}
}

// Clean processes segments in input order: strip markup artifacts,
// collapse whitespace, drop short fragments, dedupe on exact text
// (first seen wins), then join survivors with single spaces. The step
// order is a fixed contract; reordering changes output byte-for-byte.
func (c Cleaner) Clean(segments []Segment) string {
	cleaned := make([]string, 0, len(segments))
	seen := make(map[string]struct{}, len(segments))

	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}

		text = tagPattern.ReplaceAllString(text, "")
		text = timestampArtifact.ReplaceAllString(text, "")
		text = cueTimePattern.ReplaceAllString(text, "")
		text = strings.ReplaceAll(text, "<c>", "")
		text = strings.ReplaceAll(text, "</c>", "")

		text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

		if text == "" || len(text) <= c.MinTextLength {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		cleaned = append(cleaned, text)
	}

	return strings.Join(cleaned, " ")
}
