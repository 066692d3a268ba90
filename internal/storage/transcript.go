package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/bucket"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

const fileTimestampLayout = "20060102_150405"

type implTranscripts struct {
	dir    string
	logger logger.Logger
}

// TranscriptFileName is the deterministic artifact name for a fetch.
func TranscriptFileName(videoID string, fetchedAt time.Time) string {
	return fmt.Sprintf("transcript_%s_%s.txt", videoID, fetchedAt.Format(fileTimestampLayout))
}

// Save regroups the raw snippets by bucket index rather than reusing already
// formatted buckets, so the file always reflects uncorrected source text.
func (s *implTranscripts) Save(ctx context.Context, videoID string, snippets []models.TimedSnippet, fetchedAt time.Time) (string, error) {
	filename := TranscriptFileName(videoID, fetchedAt)
	content := bucket.Render(bucket.Group(snippets))

	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}

	s.logger.Info(ctx, "Saved transcript: %s", path)
	return filename, nil
}

func (s *implTranscripts) Resolve(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", ErrFileNotFound
	}

	path := filepath.Join(s.dir, filename)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrFileNotFound
	}
	return path, nil
}
