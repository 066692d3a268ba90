package processor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/models"
	"github.com/nguyentantai21042004/transcript-flow/internal/storage"
)

type fakeFetcher struct {
	snippets []models.TimedSnippet
	err      error
	gotID    string
	gotLangs []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoID string, languages []string) ([]models.TimedSnippet, error) {
	f.gotID = videoID
	f.gotLangs = languages
	return f.snippets, f.err
}

type fakeEnricher struct {
	correctCalls   int
	summarizeCalls int
	summarized     []models.TranscriptBucket
}

func (f *fakeEnricher) Correct(ctx context.Context, buckets []models.TranscriptBucket) []models.CorrectedBucket {
	f.correctCalls++
	out := make([]models.CorrectedBucket, len(buckets))
	for i, b := range buckets {
		out[i] = models.CorrectedBucket{Label: b.Label, Text: b.Text + "!", Corrected: true, Original: b.Text}
	}
	return out
}

func (f *fakeEnricher) Summarize(ctx context.Context, buckets []models.TranscriptBucket) models.SummaryResult {
	f.summarizeCalls++
	f.summarized = buckets
	return models.SummaryResult{Summary: "sum", KeyPoints: []string{}, Examples: []models.Example{}}
}

type failingHistory struct{}

func (failingHistory) Append(ctx context.Context, entry models.HistoryEntry) (models.HistoryEntry, error) {
	return models.HistoryEntry{}, errors.New("disk full")
}

func (failingHistory) List(ctx context.Context) ([]models.HistoryEntry, error) {
	return nil, errors.New("disk full")
}

type testEnv struct {
	proc      *implProcessor
	fetcher   *fakeFetcher
	enricher  *fakeEnricher
	history   storage.HistoryStore
	transDir  string
	fetchedAt time.Time
}

func newTestEnv(t *testing.T, docx bool) *testEnv {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, "debug", "text")
	dir := t.TempDir()

	cfg := &config.Config{
		Paths:  config.PathsConfig{Transcripts: filepath.Join(dir, "transcripts"), History: filepath.Join(dir, "history")},
		Export: config.ExportConfig{Docx: docx},
	}
	require.NoError(t, cfg.Validate())

	transcripts, err := storage.NewTranscriptStore(cfg.Paths.Transcripts, log)
	require.NoError(t, err)
	history, err := storage.NewHistoryStore(cfg.Paths.History, log)
	require.NoError(t, err)

	env := &testEnv{
		fetcher: &fakeFetcher{snippets: []models.TimedSnippet{
			{Start: 0, Text: "a"},
			{Start: 30, Text: "b"},
			{Start: 200, Text: "c"},
			{Start: 210, Text: "d"},
			{Start: 400, Text: "e"},
		}},
		enricher:  &fakeEnricher{},
		history:   history,
		transDir:  cfg.Paths.Transcripts,
		fetchedAt: time.Date(2026, 5, 6, 7, 8, 9, 0, time.Local),
	}
	env.proc = New(cfg, env.fetcher, env.enricher, transcripts, history, log).(*implProcessor)
	env.proc.now = func() time.Time { return env.fetchedAt }
	return env
}

func TestExtractPlain(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	res, err := env.proc.Extract(ctx, models.ExtractRequest{URL: " https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10 "})
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", env.fetcher.gotID)
	assert.Equal(t, []string{"ko", "en"}, env.fetcher.gotLangs)

	assert.Equal(t, "dQw4w9WgXcQ", res.VideoID)
	assert.Equal(t, []models.TranscriptBucket{
		{Label: "00:00", Text: "a b"},
		{Label: "03:00", Text: "c d"},
		{Label: "06:00", Text: "e"},
	}, res.Transcript)
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, "transcript_dQw4w9WgXcQ_20260506_070809.txt", res.Filename)
	assert.Nil(t, res.CorrectedTranscript)
	assert.Nil(t, res.Summary)
	assert.Equal(t, 0, env.enricher.correctCalls)
	assert.Equal(t, 0, env.enricher.summarizeCalls)

	assert.True(t, res.Persistence.TranscriptSaved)
	assert.True(t, res.Persistence.HistorySaved)
	assert.False(t, res.Persistence.DocxSaved)
	assert.Empty(t, res.Persistence.Errors)

	data, err := os.ReadFile(filepath.Join(env.transDir, res.Filename))
	require.NoError(t, err)
	assert.Equal(t, "[00:00] a b\n\n[03:00] c d\n\n[06:00] e\n\n", string(data))

	entries, err := env.history.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].ID)
	assert.Equal(t, "dQw4w9WgXcQ", entries[0].VideoID)
	assert.Equal(t, " https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10 ", entries[0].VideoURL)
	assert.Equal(t, 3, entries[0].TranscriptBucketCount)
	assert.False(t, entries[0].HasCorrection)
}

func TestExtractWithEnrichment(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	res, err := env.proc.Extract(ctx, models.ExtractRequest{URL: "dQw4w9WgXcQ", UseSpellCheck: true, UseSummary: true})
	require.NoError(t, err)

	require.Len(t, res.CorrectedTranscript, 3)
	assert.Equal(t, "a b!", res.CorrectedTranscript[0].Text)
	require.NotNil(t, res.Summary)
	assert.Equal(t, "sum", res.Summary.Summary)

	// summary is computed from the uncorrected buckets
	assert.Equal(t, res.Transcript, env.enricher.summarized)

	// the file keeps the uncorrected text
	data, err := os.ReadFile(filepath.Join(env.transDir, res.Filename))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "!")

	assert.True(t, res.Persistence.DocxSaved)
	_, err = os.Stat(filepath.Join(env.transDir, "transcript_dQw4w9WgXcQ_20260506_070809.docx"))
	assert.NoError(t, err)

	entries, err := env.history.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].HasCorrection)
}

func TestExtractEmptyURL(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.proc.Extract(context.Background(), models.ExtractRequest{URL: "   "})
	var inputErr *models.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Empty(t, env.fetcher.gotID)
}

func TestExtractRetrievalFailure(t *testing.T) {
	env := newTestEnv(t, false)
	env.fetcher.err = &models.RetrievalError{VideoID: "dQw4w9WgXcQ", Err: errors.New("proxy refused")}

	_, err := env.proc.Extract(context.Background(), models.ExtractRequest{URL: "dQw4w9WgXcQ"})
	var re *models.RetrievalError
	require.ErrorAs(t, err, &re)
	assert.NotErrorIs(t, err, models.ErrNoTranscript)

	entries, err := env.history.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries, "failed extractions are not recorded")
}

func TestExtractEmptyTranscript(t *testing.T) {
	env := newTestEnv(t, false)
	env.fetcher.snippets = nil

	_, err := env.proc.Extract(context.Background(), models.ExtractRequest{URL: "dQw4w9WgXcQ"})
	assert.ErrorIs(t, err, models.ErrNoTranscript)
}

func TestExtractPersistenceIsBestEffort(t *testing.T) {
	env := newTestEnv(t, true)
	env.proc.history = failingHistory{}
	require.NoError(t, os.RemoveAll(env.transDir))

	res, err := env.proc.Extract(context.Background(), models.ExtractRequest{URL: "dQw4w9WgXcQ"})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalCount)
	assert.Empty(t, res.Filename)
	assert.False(t, res.Persistence.TranscriptSaved)
	assert.False(t, res.Persistence.DocxSaved)
	assert.False(t, res.Persistence.HistorySaved)
	require.Len(t, res.Persistence.Errors, 2)
	assert.Contains(t, res.Persistence.Errors[0], "persist transcript file")
	assert.Contains(t, res.Persistence.Errors[1], "disk full")
}
