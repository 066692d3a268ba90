// Package bucket groups timed snippets into fixed 3-minute windows.
package bucket

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

// WidthMinutes is the width of one bucket.
const WidthMinutes = 3

// Index returns the bucket index of a start offset, expressed as the
// bucket's first minute (0, 3, 6, ...).
func Index(startSeconds float64) int {
	if startSeconds < 0 {
		startSeconds = 0
	}
	minutes := int(startSeconds) / 60
	return (minutes / WidthMinutes) * WidthMinutes
}

// Label renders a bucket index as "MM:00".
func Label(index int) string {
	return fmt.Sprintf("%02d:00", index)
}

// Format partitions snippets into buckets in a single left-to-right pass.
// Consecutive snippets sharing an index are joined with single spaces.
func Format(snippets []models.TimedSnippet) []models.TranscriptBucket {
	buckets := make([]models.TranscriptBucket, 0)

	current := 0
	var texts []string

	for _, s := range snippets {
		idx := Index(s.Start)

		if len(texts) > 0 && idx != current {
			buckets = append(buckets, models.TranscriptBucket{
				Label: Label(current),
				Text:  strings.Join(texts, " "),
			})
			texts = []string{s.Text}
			current = idx
			continue
		}

		texts = append(texts, s.Text)
		current = idx
	}

	if len(texts) > 0 {
		buckets = append(buckets, models.TranscriptBucket{
			Label: Label(current),
			Text:  strings.Join(texts, " "),
		})
	}

	return buckets
}

// Group collects snippets by bucket index regardless of their order and
// returns the buckets sorted by ascending index.
func Group(snippets []models.TimedSnippet) []models.TranscriptBucket {
	grouped := make(map[int][]string)
	for _, s := range snippets {
		idx := Index(s.Start)
		grouped[idx] = append(grouped[idx], s.Text)
	}

	indexes := make([]int, 0, len(grouped))
	for idx := range grouped {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	buckets := make([]models.TranscriptBucket, 0, len(indexes))
	for _, idx := range indexes {
		buckets = append(buckets, models.TranscriptBucket{
			Label: Label(idx),
			Text:  strings.Join(grouped[idx], " "),
		})
	}
	return buckets
}

// JoinText concatenates bucket texts with single spaces, in order.
func JoinText(buckets []models.TranscriptBucket) string {
	texts := make([]string, len(buckets))
	for i, b := range buckets {
		texts[i] = b.Text
	}
	return strings.Join(texts, " ")
}

// Render writes buckets in the transcript file layout: "[MM:00] text" followed
// by a blank line per bucket.
func Render(buckets []models.TranscriptBucket) string {
	var sb strings.Builder
	for _, b := range buckets {
		fmt.Fprintf(&sb, "[%s] %s\n\n", b.Label, b.Text)
	}
	return sb.String()
}
