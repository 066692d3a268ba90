// Package app wires the extraction pipeline from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/enrich"
	"github.com/nguyentantai21042004/transcript-flow/internal/llm"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
	"github.com/nguyentantai21042004/transcript-flow/internal/storage"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
	"github.com/nguyentantai21042004/transcript-flow/pkg/executor"
)

type App struct {
	Processor   processor.Processor
	History     storage.HistoryStore
	Transcripts storage.TranscriptStore
}

// Build creates the directories named in cfg and assembles the pipeline.
func Build(cfg *config.Config, log logger.Logger) (*App, error) {
	ctx := context.Background()

	if err := os.MkdirAll(cfg.Paths.Temp, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	transcripts, err := storage.NewTranscriptStore(cfg.Paths.Transcripts, log)
	if err != nil {
		return nil, err
	}
	history, err := storage.NewHistoryStore(cfg.Paths.History, log)
	if err != nil {
		return nil, err
	}

	fetcher := transcript.New(cfg.Transcript, cfg.Paths.Temp, executor.New(), log)
	if cfg.Transcript.YtDlpPath != "" {
		log.Info(ctx, "yt-dlp fallback enabled: %s", cfg.Transcript.YtDlpPath)
	}

	enricher := enrich.New(llm.New(cfg.LLM, log), cfg.LLM, log)

	return &App{
		Processor:   processor.New(cfg, fetcher, enricher, transcripts, history, log),
		History:     history,
		Transcripts: transcripts,
	}, nil
}
