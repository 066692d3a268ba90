package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

type implHistory struct {
	mu     sync.RWMutex
	path   string
	logger logger.Logger
	now    func() time.Time
}

func (h *implHistory) Append(ctx context.Context, entry models.HistoryEntry) (models.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.loadLocked()
	if err != nil {
		return models.HistoryEntry{}, err
	}

	entry.ID = len(entries) + 1
	if entry.TimestampCreated == "" {
		entry.TimestampCreated = h.now().Format(timestampLayout)
	}

	entries = append([]models.HistoryEntry{entry}, entries...)
	if len(entries) > MaxHistoryEntries {
		h.logger.Debug(ctx, "Dropping %d history entries beyond cap", len(entries)-MaxHistoryEntries)
		entries = entries[:MaxHistoryEntries]
	}

	if err := h.saveLocked(entries); err != nil {
		return models.HistoryEntry{}, err
	}
	return entry, nil
}

func (h *implHistory) List(ctx context.Context) ([]models.HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loadLocked()
}

// loadLocked reads the history document; a missing or empty document is an empty history.
func (h *implHistory) loadLocked() ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}

	file, err := os.Open(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

func (h *implHistory) saveLocked(entries []models.HistoryEntry) error {
	tmp, err := os.CreateTemp(filepath.Dir(h.path), "history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(entries); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode history: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp history: %w", err)
	}

	if err := os.Rename(tmp.Name(), h.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
