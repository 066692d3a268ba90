package inbox

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

// Handle extracts each listed video in order. Per-video failures are logged
// and do not stop the rest of the list.
func (i *implInbox) Handle(ctx context.Context, path string) error {
	urls, err := readList(path)
	if err != nil {
		return fmt.Errorf("read list: %w", err)
	}

	i.logger.Info(ctx, "Processing %d entries from %s", len(urls), filepath.Base(path))

	successCount := 0
	failCount := 0
	for n, url := range urls {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		reqCtx := logger.WithRequestID(ctx, uuid.NewString())
		res, err := i.processor.Extract(reqCtx, models.ExtractRequest{
			URL:           url,
			UseSpellCheck: i.useSpellCheck,
			UseSummary:    i.useSummary,
		})
		if err != nil {
			i.logger.Error(reqCtx, "[%d/%d] %s failed: %v", n+1, len(urls), url, err)
			failCount++
			continue
		}

		i.logger.Info(reqCtx, "[%d/%d] %s -> %s (%d buckets)", n+1, len(urls), res.VideoID, res.Filename, res.TotalCount)
		successCount++
	}

	i.logger.Info(ctx, "List complete: %d success, %d failed", successCount, failCount)

	// Move the list so it won't be re-processed
	dest, err := i.moveToDone(path)
	if err != nil {
		return fmt.Errorf("move to done: %w", err)
	}
	i.logger.Info(ctx, "[DONE] %s -> %s", path, dest)
	return nil
}

// readList returns the non-empty lines of path that are not # comments.
func readList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func (i *implInbox) moveToDone(path string) (string, error) {
	if err := os.MkdirAll(i.doneDir, 0755); err != nil {
		return "", err
	}

	dest := filepath.Join(i.doneDir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(path)
		stem := strings.TrimSuffix(filepath.Base(path), ext)
		dest = filepath.Join(i.doneDir, fmt.Sprintf("%s_%s%s", stem, i.now().Format("20060102_150405"), ext))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}
