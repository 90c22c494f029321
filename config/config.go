// Package config loads salin settings. SALIN_* environment variables
// override the YAML file, which overrides the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ZaguanLabs/salin"
	"github.com/ZaguanLabs/salin/cache"
	"github.com/ZaguanLabs/salin/offline"
	"github.com/ZaguanLabs/salin/probe"
	"github.com/ZaguanLabs/salin/provider"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "SALIN"

// Config is the complete runtime configuration.
type Config struct {
	Memory   MemoryConfig   `mapstructure:"memory"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Offline  OfflineConfig  `mapstructure:"offline"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Server   ServerConfig   `mapstructure:"server"`
	Language LanguageConfig `mapstructure:"language"`
}

// MemoryConfig selects the translation memory store.
type MemoryConfig struct {
	Backend          string `mapstructure:"backend"` // file, redis or bolt
	Path             string `mapstructure:"path"`
	RedisURL         string `mapstructure:"redis_url"`
	RedisKey         string `mapstructure:"redis_key"`
	BoltPath         string `mapstructure:"bolt_path"`
	RecoverMalformed bool   `mapstructure:"recover_malformed"`
}

// RemoteConfig configures the generative translation backend.
type RemoteConfig struct {
	Provider          string        `mapstructure:"provider"` // openai, gemini or none
	Model             string        `mapstructure:"model"`
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	MaxExamples       int           `mapstructure:"max_examples"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	BreakerFailures   uint32        `mapstructure:"breaker_failures"`
	BreakerCooldown   time.Duration `mapstructure:"breaker_cooldown"`
}

// OfflineConfig configures the local neural engine. The engine is disabled
// when Vocab or Worker is empty.
type OfflineConfig struct {
	Vocab     string   `mapstructure:"vocab"`
	Worker    []string `mapstructure:"worker"`
	BeamWidth int      `mapstructure:"beam_width"`
	MaxLength int      `mapstructure:"max_length"`
}

// ProbeConfig configures the connectivity check.
type ProbeConfig struct {
	Address string        `mapstructure:"address"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ResolverConfig tunes the resolution pipeline.
type ResolverConfig struct {
	DecomposedPolicy string        `mapstructure:"decomposed_policy"`
	Decompose        bool          `mapstructure:"decompose"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
}

// JournalConfig enables the resolution journal when Path is set.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen         string   `mapstructure:"listen"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LanguageConfig sets the translation direction.
type LanguageConfig struct {
	Source string `mapstructure:"source"`
	Target string `mapstructure:"target"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("memory.backend", "file")
	v.SetDefault("memory.path", cache.DefaultFilePath)
	v.SetDefault("memory.redis_url", "redis://localhost:6379/0")
	v.SetDefault("memory.redis_key", cache.DefaultRedisKey)
	v.SetDefault("memory.bolt_path", "translation_memory.bbolt")
	v.SetDefault("memory.recover_malformed", false)

	v.SetDefault("remote.provider", "openai")
	v.SetDefault("remote.model", "")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.max_examples", 0)
	v.SetDefault("remote.requests_per_minute", 0)
	v.SetDefault("remote.breaker_failures", 5)
	v.SetDefault("remote.breaker_cooldown", 30*time.Second)

	v.SetDefault("offline.vocab", "")
	v.SetDefault("offline.worker", []string{})
	v.SetDefault("offline.beam_width", offline.DefaultBeamWidth)
	v.SetDefault("offline.max_length", offline.DefaultMaxLength)

	v.SetDefault("probe.address", probe.DefaultAddress)
	v.SetDefault("probe.timeout", probe.DefaultTimeout)

	v.SetDefault("resolver.decomposed_policy", string(salin.DecomposedPersist))
	v.SetDefault("resolver.decompose", true)
	v.SetDefault("resolver.request_timeout", 60*time.Second)

	v.SetDefault("journal.path", "")

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("language.source", salin.DefaultSourceLang)
	v.SetDefault("language.target", salin.DefaultTargetLang)
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration. An explicit path must exist; without one,
// .salin.yaml is looked up in the working and home directories and may be
// absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".salin")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Memory.Backend {
	case "file", "redis", "bolt":
	default:
		return fmt.Errorf("memory.backend: unknown backend %q", c.Memory.Backend)
	}

	switch c.Remote.Provider {
	case "openai", "gemini", "none", "":
	default:
		return fmt.Errorf("remote.provider: unknown provider %q", c.Remote.Provider)
	}

	switch salin.DecomposedPolicy(c.Resolver.DecomposedPolicy) {
	case salin.DecomposedPersist, salin.DecomposedSkip:
	default:
		return fmt.Errorf("resolver.decomposed_policy: unknown policy %q", c.Resolver.DecomposedPolicy)
	}

	return nil
}

// RemoteAPIKey returns the configured key, falling back to the provider's
// conventional environment variable.
func (c *Config) RemoteAPIKey() string {
	if c.Remote.APIKey != "" {
		return c.Remote.APIKey
	}
	switch c.Remote.Provider {
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	default:
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key
		}
		// Older deployments kept the key under KEY in .env.
		return os.Getenv("KEY")
	}
}

// RemoteModel returns the configured model or the provider default.
func (c *Config) RemoteModel() string {
	if c.Remote.Model != "" {
		return c.Remote.Model
	}
	if c.Remote.Provider == "gemini" {
		return provider.DefaultGeminiModel
	}
	return provider.DefaultOpenAIModel
}

// OfflineEnabled reports whether the offline engine is configured.
func (c *Config) OfflineEnabled() bool {
	return c.Offline.Vocab != "" && len(c.Offline.Worker) > 0
}
