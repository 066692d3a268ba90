package processor

import (
	"context"

	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

// Processor runs one extraction: resolve, fetch, format, optional correction,
// optional summary, then best-effort persistence.
type Processor interface {
	// Extract returns an *models.InputError for an empty URL and a
	// *models.RetrievalError when no transcript can be fetched. Enrichment
	// and persistence failures never produce an error.
	Extract(ctx context.Context, req models.ExtractRequest) (*models.ExtractResult, error)
}
