package processor

import (
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/enrich"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/storage"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

type implProcessor struct {
	cfg         *config.Config
	fetcher     transcript.Fetcher
	enricher    enrich.Enricher
	transcripts storage.TranscriptStore
	history     storage.HistoryStore
	logger      logger.Logger
	now         func() time.Time
}

// New creates a new Processor instance
func New(cfg *config.Config, fetcher transcript.Fetcher, enricher enrich.Enricher, transcripts storage.TranscriptStore, history storage.HistoryStore, log logger.Logger) Processor {
	return &implProcessor{
		cfg:         cfg,
		fetcher:     fetcher,
		enricher:    enricher,
		transcripts: transcripts,
		history:     history,
		logger:      log,
		now:         time.Now,
	}
}
