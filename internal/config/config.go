package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Paths       PathsConfig       `yaml:"paths"`
	Transcript  TranscriptConfig  `yaml:"transcript"`
	LLM         LLMConfig         `yaml:"llm"`
	Export      ExportConfig      `yaml:"export"`
	Watcher     WatcherConfig     `yaml:"watcher"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type PathsConfig struct {
	Transcripts string `yaml:"transcripts"`
	History     string `yaml:"history"`
	Temp        string `yaml:"temp"`
}

type TranscriptConfig struct {
	Languages     []string      `yaml:"languages"`
	ProxyHost     string        `yaml:"proxy_host"`
	ProxyUsername string        `yaml:"-"`
	ProxyPassword string        `yaml:"-"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	YtDlpPath     string        `yaml:"ytdlp_path"`
}

type LLMConfig struct {
	Provider          string        `yaml:"provider"`
	CorrectionModel   string        `yaml:"correction_model"`
	SummaryModel      string        `yaml:"summary_model"`
	OpenAIAPIKey      string        `yaml:"-"`
	GeminiAPIKeys     []string      `yaml:"-"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	MaxConcurrent     int           `yaml:"max_concurrent"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

type ExportConfig struct {
	Docx bool `yaml:"docx"`
}

type WatcherConfig struct {
	InputDir      string `yaml:"input_dir"`
	DoneDir       string `yaml:"done_dir"`
	UseSpellCheck bool   `yaml:"use_spell_check"`
	UseSummary    bool   `yaml:"use_summary"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// UnsetRetries marks transcript.max_retries as absent so Validate applies
// the default; an explicit 0 disables retries.
const UnsetRetries = -1

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

func (c *Config) Validate() error {
	if c.Paths.Transcripts == "" {
		return fmt.Errorf("paths.transcripts is required")
	}
	if c.Paths.History == "" {
		return fmt.Errorf("paths.history is required")
	}
	switch c.LLM.Provider {
	case "":
		c.LLM.Provider = ProviderOpenAI
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.LLM.Provider)
	}
	if c.LLM.MaxConcurrent < 0 {
		return fmt.Errorf("llm.max_concurrent must not be negative")
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if len(c.Transcript.Languages) == 0 {
		c.Transcript.Languages = []string{"ko", "en"}
	}
	if c.Transcript.ProxyHost == "" {
		c.Transcript.ProxyHost = "p.webshare.io:80"
	}
	if c.Transcript.Timeout == 0 {
		c.Transcript.Timeout = 30 * time.Second
	}
	if c.Transcript.MaxRetries < 0 {
		c.Transcript.MaxRetries = 2
	}
	if c.LLM.CorrectionModel == "" {
		c.LLM.CorrectionModel = defaultModel(c.LLM.Provider)
	}
	if c.LLM.SummaryModel == "" {
		c.LLM.SummaryModel = defaultModel(c.LLM.Provider)
	}
	if c.LLM.RequestTimeout == 0 {
		c.LLM.RequestTimeout = 2 * time.Minute
	}
	if c.LLM.MaxConcurrent == 0 {
		c.LLM.MaxConcurrent = 4
	}
	if c.LLM.RequestsPerSecond == 0 {
		c.LLM.RequestsPerSecond = 5
	}
	if c.Watcher.InputDir == "" {
		c.Watcher.InputDir = "data/inbox"
	}
	if c.Watcher.DoneDir == "" {
		c.Watcher.DoneDir = "data/inbox/done"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.5-flash"
	}
	return "gpt-4o-mini"
}
