package models

// TimedSnippet is one timed unit of transcript text.
type TimedSnippet struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration,omitempty"`
	Text     string  `json:"text"`
}

// TranscriptBucket aggregates the snippets of one 3-minute window.
type TranscriptBucket struct {
	Label string `json:"bucketLabel"`
	Text  string `json:"text"`
}

type CorrectedBucket struct {
	Label     string `json:"bucketLabel"`
	Text      string `json:"text"`
	Corrected bool   `json:"corrected"`
	Original  string `json:"original,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Example struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp,omitempty"`
}

type SummaryResult struct {
	Error     string    `json:"error,omitempty"`
	Summary   string    `json:"summary"`
	KeyPoints []string  `json:"keyPoints"`
	Examples  []Example `json:"examples"`
}

// Degraded reports whether the summary was substituted after a failure.
func (s SummaryResult) Degraded() bool {
	return s.Error != ""
}

type HistoryEntry struct {
	ID                    int    `json:"id"`
	VideoID               string `json:"videoId"`
	VideoURL              string `json:"videoUrl"`
	TimestampCreated      string `json:"timestampCreated"`
	TranscriptBucketCount int    `json:"transcriptBucketCount"`
	HasCorrection         bool   `json:"hasCorrection"`
}

// ExtractRequest is one pipeline invocation.
type ExtractRequest struct {
	URL           string `json:"url"`
	UseSpellCheck bool   `json:"useSpellCheck"`
	UseSummary    bool   `json:"useSummary"`
}

// PersistenceStatus reports the best-effort side effects of an extraction.
type PersistenceStatus struct {
	TranscriptSaved bool     `json:"transcriptSaved"`
	DocxSaved       bool     `json:"docxSaved,omitempty"`
	HistorySaved    bool     `json:"historySaved"`
	Errors          []string `json:"errors,omitempty"`
}

type ExtractResult struct {
	VideoID             string             `json:"videoId"`
	Transcript          []TranscriptBucket `json:"transcript"`
	TotalCount          int                `json:"totalCount"`
	Filename            string             `json:"filename"`
	CorrectedTranscript []CorrectedBucket  `json:"correctedTranscript,omitempty"`
	Summary             *SummaryResult     `json:"summary,omitempty"`
	Persistence         PersistenceStatus  `json:"persistence"`
}
