// Package videoid normalizes YouTube URLs and raw identifiers into a video ID.
package videoid

import (
	"regexp"
	"strings"
)

// Length is the length of a canonical YouTube video ID.
const Length = 11

// Matched in priority order; the first sub-match wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/v/)([a-zA-Z0-9_-]{11})`),
}

// Resolve returns the video ID contained in input. Unrecognized input is
// returned unchanged.
func Resolve(input string) string {
	input = strings.TrimSpace(input)

	if len(input) == Length && !strings.ContainsAny(input, "/.") {
		return input
	}

	for _, re := range patterns {
		if m := re.FindStringSubmatch(input); m != nil {
			return m[1]
		}
	}

	return input
}
