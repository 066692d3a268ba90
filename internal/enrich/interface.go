package enrich

import (
	"context"

	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

// Enricher runs the optional language-service stages over a formatted transcript.
// Neither stage returns an error: failures are folded into the returned values.
type Enricher interface {
	// Correct proofreads every bucket. The result has the same length and order as buckets.
	Correct(ctx context.Context, buckets []models.TranscriptBucket) []models.CorrectedBucket
	// Summarize produces a structured summary of the whole transcript, or a degraded value.
	Summarize(ctx context.Context, buckets []models.TranscriptBucket) models.SummaryResult
}
