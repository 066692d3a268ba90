package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/models"
	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
	"github.com/nguyentantai21042004/transcript-flow/internal/storage"
)

type API struct {
	processor   processor.Processor
	history     storage.HistoryStore
	transcripts storage.TranscriptStore
	logger      logger.Logger
}

func NewAPI(proc processor.Processor, history storage.HistoryStore, transcripts storage.TranscriptStore, log logger.Logger) *API {
	return &API{processor: proc, history: history, transcripts: transcripts, logger: log}
}

func registerRoutes(r *gin.Engine, api *API) {
	r.GET("/health", api.handleHealth)
	r.POST("/extract", api.handleExtract)
	r.GET("/history", api.handleHistory)
	r.GET("/download/:filename", api.handleDownload)
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// extractPayload accepts both camelCase and snake_case option names.
type extractPayload struct {
	URL                 string `json:"url"`
	UseSpellCheck       bool   `json:"useSpellCheck"`
	UseSummary          bool   `json:"useSummary"`
	LegacyUseSpellCheck bool   `json:"use_spell_check"`
	LegacyUseSummary    bool   `json:"use_summary"`
}

type extractResponse struct {
	Success bool `json:"success"`
	*models.ExtractResult
}

func (a *API) handleExtract(c *gin.Context) {
	var payload extractPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondMessage(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := a.processor.Extract(c.Request.Context(), models.ExtractRequest{
		URL:           payload.URL,
		UseSpellCheck: payload.UseSpellCheck || payload.LegacyUseSpellCheck,
		UseSummary:    payload.UseSummary || payload.LegacyUseSummary,
	})
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			a.logger.Error(c.Request.Context(), "Extract failed: %v", err)
		}
		respondError(c, status, err)
		return
	}

	c.JSON(http.StatusOK, extractResponse{Success: true, ExtractResult: res})
}

func (a *API) handleHistory(c *gin.Context) {
	entries, err := a.history.List(c.Request.Context())
	if err != nil {
		a.logger.Error(c.Request.Context(), "Load history failed: %v", err)
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": entries,
		"total":   len(entries),
	})
}

func (a *API) handleDownload(c *gin.Context) {
	filename := c.Param("filename")
	path, err := a.transcripts.Resolve(filename)
	if err != nil {
		respondMessage(c, http.StatusNotFound, "file not found")
		return
	}
	c.FileAttachment(path, filename)
}

// errorStatus maps pipeline errors onto HTTP status codes.
func errorStatus(err error) int {
	var inputErr *models.InputError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNoTranscript):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, status int, err error) {
	respondMessage(c, status, err.Error())
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
