// Package config loads the autoxliff settings from a YAML or TOML file, a
// .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZaguanLabs/autoxliff"
	"github.com/ZaguanLabs/autoxliff/catalog"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file settings.
const (
	EnvRoot          = "AUTOXLIFF_ROOT"
	EnvWhitelist     = "AUTOXLIFF_WHITELIST"
	EnvDebugWrap     = "AUTOXLIFF_DEBUG_WRAP"
	EnvDefaultLocale = "AUTOXLIFF_DEFAULT_LOCALE"
	EnvRedisURL      = "AUTOXLIFF_REDIS_URL"
	EnvOpenAIKey     = "OPENAI_API_KEY"
)

// Config holds the interceptor, store and provider settings.
type Config struct {
	Root                   string              `yaml:"root" toml:"root"`
	TranslationsDir        string              `yaml:"translationsDir" toml:"translationsDir"`
	DefaultLocale          string              `yaml:"defaultLocale" toml:"defaultLocale"`
	SourceLanguage         string              `yaml:"sourceLanguage" toml:"sourceLanguage"`
	AutoCreateTranslations bool                `yaml:"autoCreateTranslations" toml:"autoCreateTranslations"`
	AutoCreationWhitelist  []string            `yaml:"autoCreationWhitelist" toml:"autoCreationWhitelist"`
	DebugWrapTranslations  bool                `yaml:"debugWrapTranslations" toml:"debugWrapTranslations"`
	TranslationFallbacks   map[string][]string `yaml:"translationFallbacks" toml:"translationFallbacks"`

	Redis  RedisConfig  `yaml:"redis" toml:"redis"`
	OpenAI OpenAIConfig `yaml:"openai" toml:"openai"`
}

// RedisConfig configures the shared dedup memo. An empty URL keeps the memo
// in process.
type RedisConfig struct {
	URL       string `yaml:"url" toml:"url"`
	TTL       int    `yaml:"ttl" toml:"ttl"` // seconds
	KeyPrefix string `yaml:"keyPrefix" toml:"keyPrefix"`
}

// OpenAIConfig configures the suggestion provider.
type OpenAIConfig struct {
	Model             string `yaml:"model" toml:"model"`
	BaseURL           string `yaml:"baseURL" toml:"baseURL"`
	RequestsPerMinute int    `yaml:"requestsPerMinute" toml:"requestsPerMinute"`
	APIKey            string `yaml:"-" toml:"-"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Root:                   ".",
		TranslationsDir:        catalog.DefaultTranslationsDir,
		DefaultLocale:          "en",
		SourceLanguage:         "en",
		AutoCreateTranslations: true,
		OpenAI: OpenAIConfig{
			Model:             "gpt-4o-mini",
			RequestsPerMinute: 60,
		},
	}
}

// Load reads path (if not empty), applies .env and environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	// .env is optional when the variables come from the environment
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- only loading a config file
	if err != nil {
		return fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("config: failed to parse YAML from %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("config: failed to parse TOML from %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config: unsupported file extension %q", ext)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvRoot); v != "" {
		c.Root = v
	}
	if v := os.Getenv(EnvWhitelist); v != "" {
		c.AutoCreationWhitelist = splitList(v)
	}
	if v := os.Getenv(EnvDebugWrap); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvDebugWrap, err)
		}
		c.DebugWrapTranslations = b
	}
	if v := os.Getenv(EnvDefaultLocale); v != "" {
		c.DefaultLocale = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Redis.URL = v
	}
	c.OpenAI.APIKey = os.Getenv(EnvOpenAIKey)
	return nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.New("config: root is required")
	}
	if c.TranslationsDir == "" {
		c.TranslationsDir = catalog.DefaultTranslationsDir
	}
	if _, err := autoxliff.ParseLocale(c.DefaultLocale); err != nil {
		return fmt.Errorf("config: defaultLocale: %w", err)
	}
	if _, err := autoxliff.ParseLocale(c.SourceLanguage); err != nil {
		return fmt.Errorf("config: sourceLanguage: %w", err)
	}
	for i, pkg := range c.AutoCreationWhitelist {
		if strings.TrimSpace(pkg) == "" {
			return fmt.Errorf("config: autoCreationWhitelist[%d] is empty", i)
		}
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("config: redis.ttl must not be negative (got %d)", c.Redis.TTL)
	}
	if c.OpenAI.RequestsPerMinute < 0 {
		return fmt.Errorf("config: openai.requestsPerMinute must not be negative (got %d)", c.OpenAI.RequestsPerMinute)
	}
	return nil
}

// Layout returns the catalog layout for the configured root.
func (c *Config) Layout() catalog.Layout {
	return catalog.Layout{Root: c.Root, Dir: c.TranslationsDir}
}

// InterceptorOptions translates the settings into interceptor options.
func (c *Config) InterceptorOptions() ([]autoxliff.InterceptorOption, error) {
	tag, err := autoxliff.ParseLocale(c.DefaultLocale)
	if err != nil {
		return nil, err
	}
	return []autoxliff.InterceptorOption{
		autoxliff.WithAutoCreate(c.AutoCreateTranslations),
		autoxliff.WithWhitelist(c.AutoCreationWhitelist...),
		autoxliff.WithDebugWrap(c.DebugWrapTranslations),
		autoxliff.WithFallbacks(c.TranslationFallbacks),
		autoxliff.WithDefaultLocale(tag),
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
