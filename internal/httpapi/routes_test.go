package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/models"
	"github.com/nguyentantai21042004/transcript-flow/internal/storage"
)

type fakeProcessor struct {
	got models.ExtractRequest
	res *models.ExtractResult
	err error
}

func (f *fakeProcessor) Extract(ctx context.Context, req models.ExtractRequest) (*models.ExtractResult, error) {
	f.got = req
	return f.res, f.err
}

type testServer struct {
	engine      *gin.Engine
	proc        *fakeProcessor
	history     storage.HistoryStore
	transcripts string
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewWithWriter(io.Discard, "debug", "text")
	dir := t.TempDir()

	history, err := storage.NewHistoryStore(filepath.Join(dir, "history"), log)
	require.NoError(t, err)
	transcriptDir := filepath.Join(dir, "transcripts")
	transcripts, err := storage.NewTranscriptStore(transcriptDir, log)
	require.NoError(t, err)

	proc := &fakeProcessor{}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	engine.Use(MaxBodySize(1024))
	engine.Use(CORS(nil))
	registerRoutes(engine, NewAPI(proc, history, transcripts, log))

	return &testServer{engine: engine, proc: proc, history: history, transcripts: transcriptDir}
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthHandler(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestExtractSuccess(t *testing.T) {
	s := setupTestServer(t)
	s.proc.res = &models.ExtractResult{
		VideoID:    "dQw4w9WgXcQ",
		Transcript: []models.TranscriptBucket{{Label: "00:00", Text: "hello"}},
		TotalCount: 1,
		Filename:   "transcript_dQw4w9WgXcQ_20260101_000000.txt",
		Summary:    &models.SummaryResult{Summary: "s", KeyPoints: []string{"k"}, Examples: []models.Example{}},
		Persistence: models.PersistenceStatus{
			TranscriptSaved: true,
			HistorySaved:    true,
		},
	}

	rec := s.do(http.MethodPost, "/extract", `{"url":"dQw4w9WgXcQ","useSpellCheck":false,"use_summary":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, models.ExtractRequest{URL: "dQw4w9WgXcQ", UseSummary: true}, s.proc.got)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "dQw4w9WgXcQ", body["videoId"])
	assert.EqualValues(t, 1, body["totalCount"])
	assert.Equal(t, "transcript_dQw4w9WgXcQ_20260101_000000.txt", body["filename"])
	assert.NotContains(t, body, "correctedTranscript")

	transcript := body["transcript"].([]any)
	require.Len(t, transcript, 1)
	assert.Equal(t, "00:00", transcript[0].(map[string]any)["bucketLabel"])

	summary := body["summary"].(map[string]any)
	assert.Equal(t, []any{"k"}, summary["keyPoints"])
	assert.NotContains(t, summary, "error")

	persistence := body["persistence"].(map[string]any)
	assert.Equal(t, true, persistence["transcriptSaved"])
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed body", `{"url":`, nil, http.StatusBadRequest},
		{"missing url", `{}`, &models.InputError{Msg: "url or video id is required"}, http.StatusBadRequest},
		{"no transcript", `{"url":"x"}`, &models.RetrievalError{VideoID: "x", Err: models.ErrNoTranscript}, http.StatusNotFound},
		{"retrieval failure", `{"url":"x"}`, &models.RetrievalError{VideoID: "x", Err: errors.New("proxy refused")}, http.StatusInternalServerError},
		{"unexpected", `{"url":"x"}`, errors.New("boom"), http.StatusInternalServerError},
		{"body too large", `{"url":"` + strings.Repeat("a", 2048) + `"}`, nil, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestServer(t)
			s.proc.err = tt.err

			rec := s.do(http.MethodPost, "/extract", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			body := decodeBody(t, rec)
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body, "success")
		})
	}
}

func TestHistoryHandler(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	rec := s.do(http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{}, body["history"])
	assert.EqualValues(t, 0, body["total"])

	_, err := s.history.Append(ctx, models.HistoryEntry{VideoID: "aaaaaaaaaaa"})
	require.NoError(t, err)
	_, err = s.history.Append(ctx, models.HistoryEntry{VideoID: "bbbbbbbbbbb"})
	require.NoError(t, err)

	rec = s.do(http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.EqualValues(t, 2, body["total"])
	history := body["history"].([]any)
	assert.Equal(t, "bbbbbbbbbbb", history[0].(map[string]any)["videoId"])
}

func TestDownloadHandler(t *testing.T) {
	s := setupTestServer(t)
	name := "transcript_dQw4w9WgXcQ_20260101_000000.txt"
	require.NoError(t, os.WriteFile(filepath.Join(s.transcripts, name), []byte("[00:00] hello\n\n"), 0644))

	rec := s.do(http.MethodGet, "/download/"+name, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[00:00] hello\n\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), name)
}

func TestDownloadNotFound(t *testing.T) {
	s := setupTestServer(t)

	for _, target := range []string{"/download/missing.txt", "/download/.hidden"} {
		rec := s.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "file not found", decodeBody(t, rec)["error"])
	}
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errorStatus(&models.InputError{Msg: "x"}))
	assert.Equal(t, http.StatusNotFound, errorStatus(&models.RetrievalError{Err: models.ErrNoTranscript}))
	assert.Equal(t, http.StatusInternalServerError, errorStatus(&models.RetrievalError{Err: errors.New("x")}))
}
