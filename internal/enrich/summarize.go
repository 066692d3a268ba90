package enrich

import (
	"context"
	"errors"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/bucket"
	"github.com/nguyentantai21042004/transcript-flow/internal/llm"
	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

const summaryInstructions = `You are a professional content analyst. Analyze the video transcript you are given and provide:

1. summary: the core content of the video in 3-5 paragraphs
2. key_points: the main points as a list of 5-10 short statements
3. examples: concrete examples, cases or case studies mentioned in the video, each with a title, a description and the time it was mentioned (empty string if unknown)

Answer in the language of the transcript. Respond with a single JSON document of this shape:
{"summary": "...", "key_points": ["..."], "examples": [{"title": "...", "description": "...", "timestamp": "..."}]}

Leave examples empty if there are none. Output only the JSON.`

const (
	summaryTemperature = 0.5
	summaryMaxTokens   = 2000

	// UnavailableSummary is the summary text of a degraded result.
	UnavailableSummary = "unavailable"
)

type summaryExample struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// summaryDocument is the JSON shape requested from the model.
type summaryDocument struct {
	Summary   string           `json:"summary"`
	KeyPoints []string         `json:"key_points"`
	Examples  []summaryExample `json:"examples"`
}

var summarySchema = llm.GenerateSchema[summaryDocument]()

var errEmptySummary = errors.New("summary document has no summary text")

// Summarize implements Enricher.
func (e *implEnricher) Summarize(ctx context.Context, buckets []models.TranscriptBucket) models.SummaryResult {
	fullText := bucket.JoinText(buckets)

	output, err := e.client.Complete(ctx, llm.Request{
		Model:        e.summaryModel,
		Instructions: summaryInstructions,
		Prompt:       "Analyze the following video transcript:\n\n" + fullText,
		Temperature:  summaryTemperature,
		MaxTokens:    summaryMaxTokens,
		Format: &llm.JSONFormat{
			Name:        "TranscriptSummary",
			Description: "Summary, key points and examples of a video transcript",
			Schema:      summarySchema,
		},
	})
	if err != nil {
		return e.degraded(ctx, &models.ServiceError{Op: "summarize", Err: err})
	}

	result, err := parseSummary(output)
	if err != nil {
		return e.degraded(ctx, &models.ServiceError{Op: "parse summary", Err: err})
	}

	e.logger.Info(ctx, "Summary ready: %d key points, %d examples", len(result.KeyPoints), len(result.Examples))
	return result
}

// parseSummary decodes model output, tolerating a surrounding code fence.
func parseSummary(output string) (models.SummaryResult, error) {
	var doc summaryDocument
	if err := llm.DecodeJSON(output, &doc); err != nil {
		return models.SummaryResult{}, err
	}
	if strings.TrimSpace(doc.Summary) == "" {
		return models.SummaryResult{}, errEmptySummary
	}

	result := models.SummaryResult{
		Summary:   strings.TrimSpace(doc.Summary),
		KeyPoints: make([]string, 0, len(doc.KeyPoints)),
		Examples:  make([]models.Example, 0, len(doc.Examples)),
	}
	for _, kp := range doc.KeyPoints {
		if kp = strings.TrimSpace(kp); kp != "" {
			result.KeyPoints = append(result.KeyPoints, kp)
		}
	}
	for _, ex := range doc.Examples {
		result.Examples = append(result.Examples, models.Example{
			Title:       strings.TrimSpace(ex.Title),
			Description: strings.TrimSpace(ex.Description),
			Timestamp:   strings.TrimSpace(ex.Timestamp),
		})
	}
	return result, nil
}

func (e *implEnricher) degraded(ctx context.Context, err error) models.SummaryResult {
	e.logger.Warn(ctx, "Summary degraded: %v", err)
	return Degraded(err)
}

// Degraded returns the substitute SummaryResult for a failed summarization.
func Degraded(err error) models.SummaryResult {
	return models.SummaryResult{
		Error:     err.Error(),
		Summary:   UnavailableSummary,
		KeyPoints: []string{},
		Examples:  []models.Example{},
	}
}
