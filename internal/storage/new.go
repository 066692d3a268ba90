package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

const (
	historyFileName   = "history.json"
	MaxHistoryEntries = 100
	timestampLayout   = "2006-01-02 15:04:05"
)

// NewHistoryStore creates the history directory if needed. The history
// document itself is created on first append.
func NewHistoryStore(dir string, log logger.Logger) (HistoryStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &implHistory{
		path:   filepath.Join(dir, historyFileName),
		logger: log,
		now:    time.Now,
	}, nil
}

// NewTranscriptStore creates the transcript directory if needed.
func NewTranscriptStore(dir string, log logger.Logger) (TranscriptStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	return &implTranscripts{
		dir:    dir,
		logger: log,
	}, nil
}
