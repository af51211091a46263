// Package config loads governed-client configuration from a YAML file,
// a .env file, and process environment variables, in that order of
// precedence (environment wins).
//
// # Basic Usage
//
//	cfg, err := config.Load("reins.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	clientCfg, err := cfg.Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//	c, err := client.New(ctx, clientCfg)
//
// # File Format
//
//	keys:
//	  anthropic: sk-ant-...
//	  google_search:
//	    key: AIza...
//	    cx: 017576662512468239146:omuauf_lfve
//	defaults:
//	  chat: claude-sonnet-4-5
//	retry:
//	  max_attempts: 3
//	  delay: 1s
//	rate_limit:
//	  max_requests: 10
//	  window: 1m
//	model_limits:
//	  openai/gpt-5.2:
//	    max_requests: 3
//	    window: 1h
//	storage:
//	  backend: file
//	  dir: /var/lib/reins
//	models:
//	  - id: openai/gpt-4o-mini
//	    provider: aipipe
//	    input_per_1k: 0.00015
//	    output_per_1k: 0.0006
//
// API keys are usually better kept out of the file; every key has an
// environment variable that overrides the file value (ANTHROPIC_API_KEY,
// OPENAI_API_KEY, GOOGLE_API_KEY, GOOGLE_SEARCH_KEY, GOOGLE_SEARCH_CX,
// AIPIPE_TOKEN). Knobs use REINS_-prefixed variables, e.g.
// REINS_STORAGE_BACKEND or REINS_RETRY_DELAY.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/client"
	"github.com/reins-ai/reins/model"
	"github.com/reins-ai/reins/ratelimit"
	"github.com/reins-ai/reins/retry"
	"github.com/reins-ai/reins/store"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the on-disk configuration. Zero values fall back to the
// defaults set by Load.
type Config struct {
	Keys        Keys             `yaml:"keys"`
	Defaults    Defaults         `yaml:"defaults"`
	Retry       Retry            `yaml:"retry"`
	RateLimit   Limit            `yaml:"rate_limit"`
	ModelLimits map[string]Limit `yaml:"model_limits"`
	Storage     Storage          `yaml:"storage"`
	Models      []Model          `yaml:"models"`
	Logging     Logging          `yaml:"logging"`
}

// Keys holds provider credentials.
type Keys struct {
	Anthropic    string       `yaml:"anthropic"`
	OpenAI       string       `yaml:"openai"`
	Google       string       `yaml:"google"`
	GoogleSearch GoogleSearch `yaml:"google_search"`
	AIPipe       AIPipe       `yaml:"aipipe"`
}

// GoogleSearch holds Custom Search credentials: the API key and the
// search engine id (cx).
type GoogleSearch struct {
	Key string `yaml:"key"`
	CX  string `yaml:"cx"`
}

// AIPipe holds AI Pipe credentials. BaseURL overrides the hosted
// endpoint for self-hosted deployments.
type AIPipe struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// Defaults names default models by catalog or extra-model id.
type Defaults struct {
	Chat string `yaml:"chat"`
}

// Retry configures the retry policy applied to transient failures.
type Retry struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
}

// Limit is an admission ceiling: at most MaxRequests calls per Window.
type Limit struct {
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
}

// Storage selects where the usage ledger persists.
type Storage struct {
	// Backend is one of memory, file, or redis. Default memory.
	Backend string `yaml:"backend"`

	// Key overrides the ledger's slot name in the store.
	Key string `yaml:"key"`

	// Dir is the data directory for the file backend.
	Dir string `yaml:"dir"`

	Redis Redis `yaml:"redis"`
}

// Redis holds connection settings for the redis backend.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Model registers a chat model beyond the built-in catalog. Pricing is
// USD per 1000 tokens; zero rates disable cost accounting.
type Model struct {
	ID          string  `yaml:"id"`
	Provider    string  `yaml:"provider"`
	InputPer1K  float64 `yaml:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k"`
}

// Logging holds log output settings for the CLI and server binaries.
type Logging struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads configuration from a YAML file and applies environment
// variable overrides. A .env file in the working directory is loaded
// first if present. An empty path skips the file and uses defaults
// plus environment only.
func Load(path string) (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Retry:     Retry{MaxAttempts: 3, Delay: time.Second},
		RateLimit: Limit{MaxRequests: 10, Window: time.Minute},
		Storage:   Storage{Backend: BackendMemory},
		Logging:   Logging{Level: "info"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Keys.Anthropic = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Keys.OpenAI = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.Keys.Google = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_KEY"); v != "" {
		c.Keys.GoogleSearch.Key = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_CX"); v != "" {
		c.Keys.GoogleSearch.CX = v
	}
	if v := os.Getenv("AIPIPE_TOKEN"); v != "" {
		c.Keys.AIPipe.Token = v
	}
	if v := os.Getenv("AIPIPE_BASE_URL"); v != "" {
		c.Keys.AIPipe.BaseURL = v
	}

	c.Defaults.Chat = getEnvOrDefault("REINS_DEFAULT_CHAT", c.Defaults.Chat)

	c.Retry.MaxAttempts = getEnvIntOrDefault("REINS_RETRY_ATTEMPTS", c.Retry.MaxAttempts)
	c.Retry.Delay = getEnvDurationOrDefault("REINS_RETRY_DELAY", c.Retry.Delay)

	c.RateLimit.MaxRequests = getEnvIntOrDefault("REINS_RATE_REQUESTS", c.RateLimit.MaxRequests)
	c.RateLimit.Window = getEnvDurationOrDefault("REINS_RATE_WINDOW", c.RateLimit.Window)

	c.Storage.Backend = getEnvOrDefault("REINS_STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.Key = getEnvOrDefault("REINS_STORAGE_KEY", c.Storage.Key)
	c.Storage.Dir = getEnvOrDefault("REINS_STORAGE_DIR", c.Storage.Dir)
	c.Storage.Redis.Addr = getEnvOrDefault("REINS_REDIS_ADDR", c.Storage.Redis.Addr)
	c.Storage.Redis.Password = getEnvOrDefault("REINS_REDIS_PASSWORD", c.Storage.Redis.Password)
	c.Storage.Redis.DB = getEnvIntOrDefault("REINS_REDIS_DB", c.Storage.Redis.DB)
	c.Storage.Redis.Prefix = getEnvOrDefault("REINS_REDIS_PREFIX", c.Storage.Redis.Prefix)

	c.Logging.Level = getEnvOrDefault("REINS_LOG_LEVEL", c.Logging.Level)
}

// Validate checks that the configuration is structurally usable. Model
// id resolution happens later, in Build, once the extra models are
// registered.
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry max_attempts must be at least 1", reins.ErrInvalidConfig)
	}
	if c.Retry.Delay < 0 {
		return fmt.Errorf("%w: retry delay must not be negative", reins.ErrInvalidConfig)
	}

	if err := validateLimit("rate_limit", c.RateLimit); err != nil {
		return err
	}
	for key, limit := range c.ModelLimits {
		if !strings.Contains(key, "/") {
			return fmt.Errorf("%w: model_limits key %q must be provider/model", reins.ErrInvalidConfig, key)
		}
		if err := validateLimit("model_limits "+key, limit); err != nil {
			return err
		}
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("%w: storage dir is required for the file backend", reins.ErrInvalidConfig)
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("%w: storage redis addr is required for the redis backend", reins.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q (must be memory, file, or redis)", reins.ErrInvalidConfig, c.Storage.Backend)
	}

	for _, m := range c.Models {
		if m.ID == "" {
			return fmt.Errorf("%w: models entries require an id", reins.ErrInvalidConfig)
		}
		if _, err := parseProvider(m.Provider); err != nil {
			return fmt.Errorf("%w: model %s: %v", reins.ErrInvalidConfig, m.ID, err)
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q (must be debug, info, warn, or error)", reins.ErrInvalidConfig, c.Logging.Level)
	}

	return nil
}

func validateLimit(name string, l Limit) error {
	if l.MaxRequests < 0 {
		return fmt.Errorf("%w: %s max_requests must not be negative", reins.ErrInvalidConfig, name)
	}
	if l.Window <= 0 {
		return fmt.Errorf("%w: %s window must be positive", reins.ErrInvalidConfig, name)
	}
	return nil
}

// Build assembles a client.Config from the loaded configuration,
// opening the configured storage backend. The client takes ownership
// of the returned config's Store and closes it on Close; if Build is
// called but the config is never passed to client.New, close the Store
// directly.
func (c *Config) Build() (client.Config, error) {
	cfg := client.Config{
		APIKeys: client.APIKeys{
			Anthropic: c.Keys.Anthropic,
			OpenAI:    c.Keys.OpenAI,
			Google:    c.Keys.Google,
			GoogleSearch: client.GoogleSearchKeys{
				Key: c.Keys.GoogleSearch.Key,
				CX:  c.Keys.GoogleSearch.CX,
			},
			AIPipe: client.AIPipeKeys{
				Token:   c.Keys.AIPipe.Token,
				BaseURL: c.Keys.AIPipe.BaseURL,
			},
		},
		RetryConfig: &retry.Config{
			MaxAttempts: c.Retry.MaxAttempts,
			Delay:       c.Retry.Delay,
		},
		RateLimit:  ratelimit.Limit{MaxRequests: c.RateLimit.MaxRequests, Window: c.RateLimit.Window},
		StorageKey: c.Storage.Key,
	}

	for _, m := range c.Models {
		p, err := parseProvider(m.Provider)
		if err != nil {
			return client.Config{}, fmt.Errorf("model %s: %w", m.ID, err)
		}
		cfg.ExtraModels = append(cfg.ExtraModels, model.NewChatModel(m.ID, p, model.ChatPricing{
			InputPer1K:  m.InputPer1K,
			OutputPer1K: m.OutputPer1K,
		}))
	}

	if c.Defaults.Chat != "" {
		m, ok := c.resolveChat(c.Defaults.Chat)
		if !ok {
			return client.Config{}, fmt.Errorf("default chat model %q is neither in the catalog nor in models", c.Defaults.Chat)
		}
		cfg.Defaults.Chat = m
	}

	if len(c.ModelLimits) > 0 {
		cfg.ModelLimits = make(map[string]ratelimit.Limit, len(c.ModelLimits))
		for key, l := range c.ModelLimits {
			cfg.ModelLimits[key] = ratelimit.Limit{MaxRequests: l.MaxRequests, Window: l.Window}
		}
	}

	adapter, err := c.Storage.open()
	if err != nil {
		return client.Config{}, err
	}
	cfg.Store = adapter

	return cfg, nil
}

// resolveChat finds the model behind an id, extra models first so they
// can shadow catalog entries.
func (c *Config) resolveChat(id string) (model.ChatModel, bool) {
	for _, m := range c.Models {
		if m.ID == id {
			p, err := parseProvider(m.Provider)
			if err != nil {
				return model.ChatModel{}, false
			}
			return model.NewChatModel(id, p, model.ChatPricing{
				InputPer1K:  m.InputPer1K,
				OutputPer1K: m.OutputPer1K,
			}), true
		}
	}
	return model.ChatByID(id)
}

func (s Storage) open() (store.Adapter, error) {
	switch s.Backend {
	case "", BackendMemory:
		return store.NewMemoryAdapter(), nil
	case BackendFile:
		return store.NewFileAdapter(s.Dir)
	case BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     s.Redis.Addr,
			Password: s.Redis.Password,
			DB:       s.Redis.DB,
		})
		var opts []store.RedisOption
		if s.Redis.Prefix != "" {
			opts = append(opts, store.WithPrefix(s.Redis.Prefix))
		}
		return store.NewRedisAdapter(rdb, opts...)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", s.Backend)
	}
}

func parseProvider(name string) (reins.Provider, error) {
	p := reins.Provider(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case reins.ProviderAnthropic, reins.ProviderOpenAI, reins.ProviderGoogle,
		reins.ProviderGoogleSearch, reins.ProviderAIPipe:
		return p, nil
	}
	return "", fmt.Errorf("unknown provider %q", name)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
