package transcript

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/pkg/executor"
)

const defaultBaseURL = "https://www.youtube.com"

type implFetcher struct {
	baseURL   string
	client    *http.Client
	executor  executor.Executor
	logger    logger.Logger
	languages []string
	timeout   time.Duration
	retry     retryConfig
	ytdlpPath string
	tempDir   string
}

// New creates a Fetcher that goes through the configured proxy relay.
// When no relay credentials are set, requests go out directly.
func New(cfg config.TranscriptConfig, tempDir string, exec executor.Executor, log logger.Logger) Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy := proxyURL(cfg); proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
		log.Info(context.Background(), "Transcript relay enabled: %s", proxy.Host)
	} else {
		log.Warn(context.Background(), "Transcript relay credentials not set, fetching directly")
	}

	f := newFetcher(&http.Client{Transport: transport, Timeout: cfg.Timeout}, exec, log)
	f.languages = cfg.Languages
	f.timeout = cfg.Timeout
	f.retry.MaxRetries = cfg.MaxRetries
	f.ytdlpPath = cfg.YtDlpPath
	f.tempDir = tempDir
	return f
}

func newFetcher(client *http.Client, exec executor.Executor, log logger.Logger) *implFetcher {
	return &implFetcher{
		baseURL:   defaultBaseURL,
		client:    client,
		executor:  exec,
		logger:    log,
		languages: []string{"ko", "en"},
		timeout:   30 * time.Second,
		retry:     defaultRetry,
	}
}

// proxyURL builds the rotating residential relay URL. Webshare rotates the
// exit IP when the username carries the "-rotate" suffix.
func proxyURL(cfg config.TranscriptConfig) *url.URL {
	if cfg.ProxyUsername == "" || cfg.ProxyPassword == "" {
		return nil
	}
	user := cfg.ProxyUsername
	if !strings.HasSuffix(user, "-rotate") {
		user += "-rotate"
	}
	return &url.URL{
		Scheme: "http",
		User:   url.UserPassword(user, cfg.ProxyPassword),
		Host:   cfg.ProxyHost,
	}
}
