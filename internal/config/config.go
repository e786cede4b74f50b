package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. DOCQA_MODEL.
const EnvPrefix = "DOCQA_"

// LibraryConfig locates PDFs on disk.
type LibraryConfig struct {
	// Dir is scanned by /load, `docqa scan` and the HTTP scan endpoint.
	Dir string `yaml:"dir" env:"LIBRARY_DIR"`
	// StagingDir receives uploads; the system temp dir when empty.
	StagingDir string `yaml:"staging_dir" env:"STAGING_DIR"`
}

// ExtractConfig configures PDF text extraction.
type ExtractConfig struct {
	MaxPages int `yaml:"max_pages" env:"MAX_PAGES"`
}

// SummarizerConfig configures the prefix summarizer.
type SummarizerConfig struct {
	MaxLength  int `yaml:"max_length" env:"SUMMARY_MAX_LENGTH"`
	InputChars int `yaml:"input_chars" env:"SUMMARY_INPUT_CHARS"`
}

// PromptConfig bounds what is sent to the model.
type PromptConfig struct {
	SampleChars  int `yaml:"sample_chars" env:"SAMPLE_CHARS"`
	MaxDocuments int `yaml:"max_documents" env:"MAX_DOCUMENTS"`
	MaxChars     int `yaml:"max_chars" env:"MAX_PROMPT_CHARS"`
}

// RetryConfig bounds retries of transient completion failures.
type RetryConfig struct {
	Attempts   uint `yaml:"attempts" env:"RETRY_ATTEMPTS"`
	DelayMs    int  `yaml:"delay_ms" env:"RETRY_DELAY_MS"`
	MaxDelayMs int  `yaml:"max_delay_ms" env:"RETRY_MAX_DELAY_MS"`
}

// CompletionConfig holds configuration for the OpenAI-compatible chat endpoint.
type CompletionConfig struct {
	BaseURL          string      `yaml:"base_url" env:"BASE_URL"`
	APIKeyEnv        string      `yaml:"api_key_env" env:"API_KEY_ENV"`
	Model            string      `yaml:"model" env:"MODEL"`
	TimeoutSecs      int         `yaml:"timeout_secs" env:"TIMEOUT_SECS"`
	Temperature      float32     `yaml:"temperature" env:"TEMPERATURE"`
	TopP             float32     `yaml:"top_p" env:"TOP_P"`
	MaxTokens        int         `yaml:"max_tokens" env:"MAX_TOKENS"`
	FrequencyPenalty float32     `yaml:"frequency_penalty" env:"FREQUENCY_PENALTY"`
	PresencePenalty  float32     `yaml:"presence_penalty" env:"PRESENCE_PENALTY"`
	Retry            RetryConfig `yaml:"retry"`
}

// Timeout returns the request timeout.
func (c CompletionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ServerConfig configures `docqa serve`.
type ServerConfig struct {
	Addr           string `yaml:"addr" env:"SERVER_ADDR"`
	SessionTTLMins int    `yaml:"session_ttl_mins" env:"SESSION_TTL_MINS"`
	MaxUploadMB    int64  `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB"`
}

// SessionTTL returns how long an idle session lives. Zero disables expiry.
func (c ServerConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMins) * time.Minute
}

// MaxUploadBytes returns the request body limit for uploads.
func (c ServerConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// LogConfig configures zap.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	Debug bool   `yaml:"debug" env:"DEBUG"`
	// File receives logs while the terminal UI runs.
	File string `yaml:"file" env:"LOG_FILE"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Library    LibraryConfig    `yaml:"library"`
	Extract    ExtractConfig    `yaml:"extract"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Completion CompletionConfig `yaml:"completion"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Keys missing from the file keep their defaults; environment overrides are applied last.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/docqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	if err := Save(userPath, defaultConfig()); err != nil {
		return nil, "", err
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports every invalid setting at once.
func (c *AppConfig) Validate() error {
	var errs []error
	nonNegative := func(name string, v int) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", name, v))
		}
	}
	nonNegative("extract.max_pages", c.Extract.MaxPages)
	nonNegative("summarizer.max_length", c.Summarizer.MaxLength)
	nonNegative("summarizer.input_chars", c.Summarizer.InputChars)
	nonNegative("prompt.sample_chars", c.Prompt.SampleChars)
	nonNegative("prompt.max_documents", c.Prompt.MaxDocuments)
	nonNegative("prompt.max_chars", c.Prompt.MaxChars)
	nonNegative("completion.timeout_secs", c.Completion.TimeoutSecs)
	nonNegative("completion.max_tokens", c.Completion.MaxTokens)
	nonNegative("completion.retry.delay_ms", c.Completion.Retry.DelayMs)
	nonNegative("completion.retry.max_delay_ms", c.Completion.Retry.MaxDelayMs)
	nonNegative("server.session_ttl_mins", c.Server.SessionTTLMins)
	if c.Server.MaxUploadMB < 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must not be negative, got %d", c.Server.MaxUploadMB))
	}
	if c.Completion.Model == "" {
		errs = append(errs, errors.New("completion.model must be set"))
	}
	if t := c.Completion.Temperature; t < 0 || t > 2 {
		errs = append(errs, fmt.Errorf("completion.temperature must be within [0, 2], got %g", t))
	}
	if p := c.Completion.TopP; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("completion.top_p must be within [0, 1], got %g", p))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DefaultUserConfigPath returns ~/.config/docqa/config.yaml.
func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

func applyEnv(cfg *AppConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	return nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Library:    LibraryConfig{Dir: "."},
		Extract:    ExtractConfig{MaxPages: 10},
		Summarizer: SummarizerConfig{MaxLength: 200, InputChars: 5000},
		Prompt:     PromptConfig{SampleChars: 1000, MaxChars: 200000},
		Completion: CompletionConfig{
			BaseURL:     "https://api.openai.com/v1",
			APIKeyEnv:   "OPENAI_API_KEY",
			Model:       "gpt-4o-mini",
			TimeoutSecs: 60,
			Temperature: 0.7,
			TopP:        1.0,
			MaxTokens:   800,
			Retry:       RetryConfig{Attempts: 1, DelayMs: 500, MaxDelayMs: 5000},
		},
		Server: ServerConfig{Addr: "localhost:8080", SessionTTLMins: 60, MaxUploadMB: 64},
		Log:    LogConfig{Level: "info"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Library.Dir == "" {
		cfg.Library.Dir = "."
	}
	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Completion.APIKeyEnv == "" {
		cfg.Completion.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Completion.Retry.Attempts == 0 {
		cfg.Completion.Retry.Attempts = 1
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "localhost:8080"
	}
}
