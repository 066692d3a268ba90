package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

const (
	playerResponseMarker = "ytInitialPlayerResponse = "
	userAgent            = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxWatchPageBytes    = 6 << 20
	maxCaptionBytes      = 2 << 20
)

// errBlocked is returned when YouTube answers with a captcha page instead of the video.
var errBlocked = errors.New("request blocked by YouTube")

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type playerResponse struct {
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// Fetch implements Fetcher. The watch page is tried first; yt-dlp is used as
// a fallback when a binary is configured.
func (f *implFetcher) Fetch(ctx context.Context, videoID string, languages []string) ([]models.TimedSnippet, error) {
	if len(languages) == 0 {
		languages = f.languages
	}

	snippets, err := f.fetchFromWatchPage(ctx, videoID, languages)
	if err != nil && f.ytdlpPath != "" && ctx.Err() == nil {
		f.logger.Warn(ctx, "Watch page fetch failed for %s, trying yt-dlp: %v", videoID, err)
		var fallbackErr error
		snippets, fallbackErr = f.fetchWithYtDlp(ctx, videoID, languages)
		if fallbackErr != nil {
			err = fmt.Errorf("%v; fallback %w", err, fallbackErr)
		} else {
			err = nil
		}
	}
	if err != nil {
		return nil, &models.RetrievalError{VideoID: videoID, Err: err}
	}
	if len(snippets) == 0 {
		return nil, &models.RetrievalError{VideoID: videoID, Err: models.ErrNoTranscript}
	}

	f.logger.Info(ctx, "Fetched %d snippets for %s", len(snippets), videoID)
	return snippets, nil
}

// withTimeout bounds one retrieval stage. Each stage gets its own deadline so
// a stalled watch page still leaves time for the fallback.
func (f *implFetcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.timeout)
}

func (f *implFetcher) fetchFromWatchPage(ctx context.Context, videoID string, languages []string) ([]models.TimedSnippet, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	watchURL := f.baseURL + "/watch?v=" + url.QueryEscape(videoID)

	body, err := f.get(ctx, watchURL, maxWatchPageBytes, func(req *http.Request) {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	if strings.Contains(string(body), `class="g-recaptcha"`) {
		return nil, errBlocked
	}

	player, err := parsePlayerResponse(body)
	if err != nil {
		return nil, err
	}

	if player.Captions == nil {
		if ps := player.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
			return nil, fmt.Errorf("video unplayable (%s): %s", ps.Status, ps.Reason)
		}
		return nil, models.ErrNoTranscript
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	track, ok := pickTrack(tracks, languages)
	if !ok {
		return nil, models.ErrNoTranscript
	}
	f.logger.Debug(ctx, "Selected %s track (kind=%q) for %s", track.LanguageCode, track.Kind, videoID)

	data, err := f.get(ctx, captionURL(track.BaseURL), maxCaptionBytes, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch captions: %w", err)
	}
	return parseCaptions(data)
}

func (f *implFetcher) get(ctx context.Context, rawURL string, limit int64, decorate func(*http.Request)) ([]byte, error) {
	resp, err := f.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		if decorate != nil {
			decorate(req)
		}
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func parsePlayerResponse(page []byte) (*playerResponse, error) {
	idx := strings.Index(string(page), playerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	raw := extractJSON(page[idx+len(playerResponseMarker):])
	if raw == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var player playerResponse
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &player, nil
}

// pickTrack walks the language preference list in order. For each language a
// manually created track wins over an auto-generated one. Tracks that need a
// browser PoToken are ignored.
func pickTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	for _, lang := range languages {
		var asr *captionTrack
		for i := range tracks {
			t := tracks[i]
			if t.LanguageCode != lang || needsPoToken(t.BaseURL) {
				continue
			}
			if t.Kind != "asr" {
				return t, true
			}
			if asr == nil {
				asr = &tracks[i]
			}
		}
		if asr != nil {
			return *asr, true
		}
	}
	return captionTrack{}, false
}

// needsPoToken reports whether a caption track URL requires a PoToken.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// captionURL drops any fmt override so the default XML document is served.
func captionURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	if q.Get("fmt") == "" {
		return baseURL
	}
	q.Del("fmt")
	u.RawQuery = q.Encode()
	return u.String()
}

// extractJSON returns the JSON object starting at b[0] by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
