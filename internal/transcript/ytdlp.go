package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/models"
	"github.com/nguyentantai21042004/transcript-flow/pkg/executor"
)

// fetchWithYtDlp downloads json3 subtitles with yt-dlp into a scratch
// directory and returns the first one matching the language preference.
func (f *implFetcher) fetchWithYtDlp(ctx context.Context, videoID string, languages []string) ([]models.TimedSnippet, error) {
	if f.executor == nil {
		return nil, fmt.Errorf("yt-dlp fallback: no executor configured")
	}
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	if f.tempDir != "" {
		if err := os.MkdirAll(f.tempDir, 0755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
	}

	dir, err := os.MkdirTemp(f.tempDir, "subs-"+videoID+"-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	cmd := executor.Command{
		Name: f.ytdlpPath,
		Args: []string{
			"--write-subs",
			"--write-auto-subs",
			"--skip-download",
			"--sub-format", "json3",
			"--sub-langs", strings.Join(languages, ","),
			"-o", "%(id)s",
			f.baseURL + "/watch?v=" + videoID,
		},
		Dir: dir,
	}
	if _, err := f.executor.Run(ctx, cmd); err != nil {
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	for _, lang := range languages {
		path := filepath.Join(dir, fmt.Sprintf("%s.%s.json3", videoID, lang))
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.logger.Debug(ctx, "Using yt-dlp %s subtitles for %s", lang, videoID)
		return parseJSON3(data)
	}
	return nil, models.ErrNoTranscript
}
