package transcript

import (
	"context"

	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

// Fetcher retrieves the ordered timed snippets of a video's captions.
type Fetcher interface {
	// Fetch returns the full snippet sequence in the first available language
	// of languages, or a *models.RetrievalError.
	Fetch(ctx context.Context, videoID string, languages []string) ([]models.TimedSnippet, error)
}
