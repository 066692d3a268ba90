package storage

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

// ErrFileNotFound is returned when a requested transcript artifact does not exist
// or its name is not a plain file name.
var ErrFileNotFound = errors.New("file not found")

// HistoryStore keeps the rolling most-recent-first usage log. Every call
// round-trips through the history document on disk.
type HistoryStore interface {
	// Append assigns the entry id (count before insert + 1), inserts it at the
	// front and drops entries beyond the cap.
	Append(ctx context.Context, entry models.HistoryEntry) (models.HistoryEntry, error)
	List(ctx context.Context) ([]models.HistoryEntry, error)
}

// TranscriptStore writes and locates transcript artifacts.
type TranscriptStore interface {
	// Save writes the bucketed transcript of snippets and returns the file name.
	Save(ctx context.Context, videoID string, snippets []models.TimedSnippet, fetchedAt time.Time) (string, error)
	// SaveDocx writes a Word sibling of the transcript file and returns its name.
	SaveDocx(ctx context.Context, filename, videoID string, buckets []models.TranscriptBucket, summary *models.SummaryResult) (string, error)
	// Resolve maps a file name to its path inside the transcript directory.
	Resolve(filename string) (string, error)
}
