package processor

import (
	"context"
	"strings"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/bucket"
	"github.com/nguyentantai21042004/transcript-flow/internal/models"
	"github.com/nguyentantai21042004/transcript-flow/pkg/videoid"
)

// Extract orchestrates the whole extraction pipeline
func (p *implProcessor) Extract(ctx context.Context, req models.ExtractRequest) (*models.ExtractResult, error) {
	startTime := time.Now()

	input := strings.TrimSpace(req.URL)
	if input == "" {
		return nil, &models.InputError{Msg: "url or video id is required"}
	}

	// Step 1: Resolve the video identifier
	videoID := videoid.Resolve(input)
	p.logger.Info(ctx, "Extracting transcript for %s (spellcheck=%t, summary=%t)", videoID, req.UseSpellCheck, req.UseSummary)

	// Step 2: Fetch timed snippets
	snippets, err := p.fetcher.Fetch(ctx, videoID, p.cfg.Transcript.Languages)
	if err != nil {
		p.logger.Warn(ctx, "Fetch failed for %s: %v", videoID, err)
		return nil, err
	}
	if len(snippets) == 0 {
		return nil, &models.RetrievalError{VideoID: videoID, Err: models.ErrNoTranscript}
	}
	fetchedAt := p.now()

	// Step 3: Bucket into 3-minute windows
	buckets := bucket.Format(snippets)

	result := &models.ExtractResult{
		VideoID:    videoID,
		Transcript: buckets,
		TotalCount: len(buckets),
	}

	// Step 4: Optional correction
	if req.UseSpellCheck {
		result.CorrectedTranscript = p.enricher.Correct(ctx, buckets)
	}

	// Step 5: Optional summary, always over the uncorrected text
	if req.UseSummary {
		summary := p.enricher.Summarize(ctx, buckets)
		result.Summary = &summary
	}

	// Step 6: Persist transcript file and history
	result.Filename, result.Persistence = p.persist(ctx, req, videoID, snippets, buckets, result.Summary, fetchedAt)

	p.logger.Info(ctx, "Extraction of %s finished: %d buckets in %s", videoID, len(buckets), time.Since(startTime))
	return result, nil
}

// persist performs the best-effort writes. Failures are logged and reported
// in the returned status.
func (p *implProcessor) persist(ctx context.Context, req models.ExtractRequest, videoID string, snippets []models.TimedSnippet, buckets []models.TranscriptBucket, summary *models.SummaryResult, fetchedAt time.Time) (string, models.PersistenceStatus) {
	var status models.PersistenceStatus
	record := func(target string, err error) {
		perr := &models.PersistenceError{Target: target, Err: err}
		p.logger.Error(ctx, "%v", perr)
		status.Errors = append(status.Errors, perr.Error())
	}

	filename, err := p.transcripts.Save(ctx, videoID, snippets, fetchedAt)
	if err != nil {
		record("transcript file", err)
		filename = ""
	} else {
		status.TranscriptSaved = true
	}

	if p.cfg.Export.Docx && status.TranscriptSaved {
		if _, err := p.transcripts.SaveDocx(ctx, filename, videoID, buckets, summary); err != nil {
			record("docx", err)
		} else {
			status.DocxSaved = true
		}
	}

	entry := models.HistoryEntry{
		VideoID:               videoID,
		VideoURL:              req.URL,
		TranscriptBucketCount: len(buckets),
		HasCorrection:         req.UseSpellCheck,
	}
	if _, err := p.history.Append(ctx, entry); err != nil {
		record("history", err)
	} else {
		status.HistorySaved = true
	}

	return filename, status
}
