package enrich

import (
	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/llm"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

type implEnricher struct {
	client          llm.Client
	logger          logger.Logger
	correctionModel string
	summaryModel    string
	maxConcurrent   int
}

// New creates an Enricher that calls client with the models named in cfg.
func New(client llm.Client, cfg config.LLMConfig, log logger.Logger) Enricher {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &implEnricher{
		client:          client,
		logger:          log,
		correctionModel: cfg.CorrectionModel,
		summaryModel:    cfg.SummaryModel,
		maxConcurrent:   maxConcurrent,
	}
}
