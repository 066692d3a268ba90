package enrich

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/llm"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

type fakeClient struct {
	mu       sync.Mutex
	requests []llm.Request
	complete func(req llm.Request) (string, error)
}

func (f *fakeClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.complete(req)
}

func newTestEnricher(client llm.Client, maxConcurrent int) Enricher {
	return New(client, config.LLMConfig{
		CorrectionModel: "correct-model",
		SummaryModel:    "summary-model",
		MaxConcurrent:   maxConcurrent,
	}, logger.NewWithWriter(io.Discard, "debug", "text"))
}

func sampleBuckets() []models.TranscriptBucket {
	return []models.TranscriptBucket{
		{Label: "00:00", Text: "first bucket"},
		{Label: "03:00", Text: "second bucket"},
		{Label: "06:00", Text: "third bucket"},
	}
}

func promptText(req llm.Request) string {
	return req.Prompt[strings.LastIndex(req.Prompt, "\n")+1:]
}

func TestCorrectSuccess(t *testing.T) {
	client := &fakeClient{complete: func(req llm.Request) (string, error) {
		return "  " + strings.ToUpper(promptText(req)) + "\n", nil
	}}

	got := newTestEnricher(client, 2).Correct(context.Background(), sampleBuckets())

	require.Len(t, got, 3)
	for i, b := range sampleBuckets() {
		assert.Equal(t, b.Label, got[i].Label)
		assert.True(t, got[i].Corrected)
		assert.Equal(t, strings.ToUpper(b.Text), got[i].Text)
		assert.Equal(t, b.Text, got[i].Original)
		assert.Empty(t, got[i].Error)
	}

	for _, req := range client.requests {
		assert.Equal(t, "correct-model", req.Model)
		assert.Contains(t, req.Instructions, "[MM:SS]")
		assert.Nil(t, req.Format)
	}
}

func TestCorrectFailureIsolation(t *testing.T) {
	client := &fakeClient{complete: func(req llm.Request) (string, error) {
		switch promptText(req) {
		case "second bucket":
			return "", errors.New("connection reset")
		case "third bucket":
			return "   ", nil
		}
		return "fixed", nil
	}}

	got := newTestEnricher(client, 4).Correct(context.Background(), sampleBuckets())

	require.Len(t, got, 3)
	assert.True(t, got[0].Corrected)
	assert.Equal(t, "fixed", got[0].Text)

	assert.False(t, got[1].Corrected)
	assert.Equal(t, "second bucket", got[1].Text)
	assert.Empty(t, got[1].Original)
	assert.Contains(t, got[1].Error, "connection reset")

	assert.False(t, got[2].Corrected)
	assert.Equal(t, "third bucket", got[2].Text)
	assert.Contains(t, got[2].Error, "empty correction response")
}

func TestCorrectPreservesOrderUnderConcurrency(t *testing.T) {
	var inflight, peak int32
	client := &fakeClient{complete: func(req llm.Request) (string, error) {
		n := atomic.AddInt32(&inflight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		// later buckets finish first
		if promptText(req) == "first bucket" {
			time.Sleep(20 * time.Millisecond)
		}
		atomic.AddInt32(&inflight, -1)
		return "ok " + promptText(req), nil
	}}

	buckets := sampleBuckets()
	got := newTestEnricher(client, 2).Correct(context.Background(), buckets)

	require.Len(t, got, len(buckets))
	for i, b := range buckets {
		assert.Equal(t, b.Label, got[i].Label)
		assert.Equal(t, "ok "+b.Text, got[i].Text)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestCorrectCanceledContext(t *testing.T) {
	client := &fakeClient{complete: func(req llm.Request) (string, error) {
		return "never", nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := newTestEnricher(client, 1).Correct(ctx, sampleBuckets())
	require.Len(t, got, 3)
	for i, b := range sampleBuckets() {
		assert.False(t, got[i].Corrected)
		assert.Equal(t, b.Text, got[i].Text)
		assert.Contains(t, got[i].Error, "context canceled")
	}
	assert.Empty(t, client.requests)
}

func TestCorrectEmpty(t *testing.T) {
	client := &fakeClient{complete: func(req llm.Request) (string, error) {
		t.Fatal("no call expected")
		return "", nil
	}}
	got := newTestEnricher(client, 2).Correct(context.Background(), nil)
	assert.Empty(t, got)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"plain JSON", `{"summary":"A talk.","key_points":["one","two"],"examples":[{"title":"Case","description":"Desc","timestamp":"03:00"}]}`},
		{"fenced JSON", "```json\n{\"summary\":\"A talk.\",\"key_points\":[\"one\",\"two\"],\"examples\":[{\"title\":\"Case\",\"description\":\"Desc\",\"timestamp\":\"03:00\"}]}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{complete: func(req llm.Request) (string, error) {
				return tt.output, nil
			}}

			got := newTestEnricher(client, 1).Summarize(context.Background(), sampleBuckets())

			assert.False(t, got.Degraded())
			assert.Equal(t, "A talk.", got.Summary)
			assert.Equal(t, []string{"one", "two"}, got.KeyPoints)
			assert.Equal(t, []models.Example{{Title: "Case", Description: "Desc", Timestamp: "03:00"}}, got.Examples)

			require.Len(t, client.requests, 1)
			req := client.requests[0]
			assert.Equal(t, "summary-model", req.Model)
			assert.True(t, strings.HasSuffix(req.Prompt, "first bucket second bucket third bucket"))
			require.NotNil(t, req.Format)
			assert.Equal(t, "object", req.Format.Schema["type"])
		})
	}
}

func TestSummarizeDegraded(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		wantErr string
	}{
		{"service error", "", errors.New("timeout"), "summarize: timeout"},
		{"malformed JSON", "this is not json", nil, "parse summary"},
		{"empty summary", `{"summary":"","key_points":[],"examples":[]}`, nil, "no summary text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{complete: func(req llm.Request) (string, error) {
				return tt.output, tt.err
			}}

			got := newTestEnricher(client, 1).Summarize(context.Background(), sampleBuckets())

			assert.True(t, got.Degraded())
			assert.Contains(t, got.Error, tt.wantErr)
			assert.Equal(t, UnavailableSummary, got.Summary)
			assert.NotNil(t, got.KeyPoints)
			assert.Empty(t, got.KeyPoints)
			assert.NotNil(t, got.Examples)
			assert.Empty(t, got.Examples)
		})
	}
}

func TestParseSummaryMissingLists(t *testing.T) {
	got, err := parseSummary(`{"summary":"only text"}`)
	require.NoError(t, err)
	assert.Equal(t, "only text", got.Summary)
	assert.NotNil(t, got.KeyPoints)
	assert.NotNil(t, got.Examples)
}
