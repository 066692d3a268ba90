package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/transcript-flow/internal/llm"
	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

const correctionInstructions = `You are a professional proofreader. Check and fix the spelling, spacing and grammar of the text you are given.

Rules:
1. Fix spelling mistakes.
2. Fix word spacing.
3. Fix grammatical errors.
4. Smooth the sentences so they read naturally.
5. Never change the meaning of the original.
6. Keep timestamp markup such as [MM:SS] exactly as it is.
7. Answer in the language of the text.
8. Output only the corrected text, with no explanation or extra information.`

const (
	correctionTemperature = 0.3
	correctionMaxTokens   = 4000
)

var errEmptyCorrection = errors.New("empty correction response")

// Correct implements Enricher. Buckets are proofread concurrently, bounded by
// maxConcurrent; a failing bucket keeps its original text.
func (e *implEnricher) Correct(ctx context.Context, buckets []models.TranscriptBucket) []models.CorrectedBucket {
	out := make([]models.CorrectedBucket, len(buckets))
	sem := newSemaphore(e.maxConcurrent)

	var wg sync.WaitGroup
	for i, b := range buckets {
		if err := sem.acquire(ctx); err != nil {
			out[i] = failedBucket(b, err)
			continue
		}
		wg.Add(1)
		go func(i int, b models.TranscriptBucket) {
			defer wg.Done()
			defer sem.release()
			out[i] = e.correctBucket(ctx, b)
		}(i, b)
	}
	wg.Wait()

	failed := 0
	for _, cb := range out {
		if !cb.Corrected {
			failed++
		}
	}
	if failed > 0 {
		e.logger.Warn(ctx, "Correction failed for %d of %d buckets", failed, len(out))
	} else {
		e.logger.Info(ctx, "Corrected %d buckets", len(out))
	}
	return out
}

func (e *implEnricher) correctBucket(ctx context.Context, b models.TranscriptBucket) models.CorrectedBucket {
	text, err := e.client.Complete(ctx, llm.Request{
		Model:        e.correctionModel,
		Instructions: correctionInstructions,
		Prompt:       "Proofread the following text:\n\n" + b.Text,
		Temperature:  correctionTemperature,
		MaxTokens:    correctionMaxTokens,
	})
	if err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			err = errEmptyCorrection
		}
	}
	if err != nil {
		serr := &models.ServiceError{Op: "correct " + b.Label, Err: err}
		e.logger.Debug(ctx, "%v", serr)
		return failedBucket(b, serr)
	}

	return models.CorrectedBucket{
		Label:     b.Label,
		Text:      text,
		Corrected: true,
		Original:  b.Text,
	}
}

func failedBucket(b models.TranscriptBucket, err error) models.CorrectedBucket {
	return models.CorrectedBucket{
		Label:     b.Label,
		Text:      b.Text,
		Corrected: false,
		Error:     err.Error(),
	}
}
