package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PORTFOLIO"

type Config struct {
	Server     ServerConfig
	Knowledge  KnowledgeConfig
	LLM        LLMConfig
	RateLimit  RateLimitConfig
	Validation ValidationConfig
	Cache      CacheConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	BodyLimit       int
	ShutdownTimeout int
	AllowedOrigins  []string
}

type KnowledgeConfig struct {
	FAQPath      string
	TaxonomyPath string
}

type LLMConfig struct {
	Enabled         bool
	APIKey          string
	BaseURL         string
	Model           string
	Temperature     float32
	MaxTokens       int
	TimeoutSec      int
	RetryAttempts   int
	BreakerFailures int
	BreakerTimeout  int
}

type RateLimitConfig struct {
	MaxRequests int
	WindowSec   int
	MaxClients  int
}

type ValidationConfig struct {
	MaxMessageLength int
}

type CacheConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLSec   int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSec) * time.Second
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// Load reads config.yaml from the usual locations, then overlays .env and
// PORTFOLIO_* environment variables. Missing files are not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/portfolio-assistant")

	return load(v)
}

// LoadFile reads a single config file. Environment variables still apply.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.apiKey", envPrefix+"_LLM_APIKEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind llm api key: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("ratelimit.maxRequests must be positive, got %d", c.RateLimit.MaxRequests)
	}
	if c.RateLimit.WindowSec <= 0 {
		return fmt.Errorf("ratelimit.windowSec must be positive, got %d", c.RateLimit.WindowSec)
	}
	if c.Validation.MaxMessageLength <= 0 {
		return fmt.Errorf("validation.maxMessageLength must be positive, got %d", c.Validation.MaxMessageLength)
	}
	if c.Knowledge.FAQPath == "" {
		return errors.New("knowledge.faqPath is required")
	}
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return errors.New("llm.apiKey is required when llm.enabled is set")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.bodyLimit", 1048576)
	v.SetDefault("server.shutdownTimeout", 10)
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("knowledge.faqPath", "./data/faq-data.json")
	v.SetDefault("knowledge.taxonomyPath", "./data/taxonomy.yaml")

	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.baseURL", "")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.maxTokens", 200)
	v.SetDefault("llm.timeoutSec", 30)
	v.SetDefault("llm.retryAttempts", 3)
	v.SetDefault("llm.breakerFailures", 5)
	v.SetDefault("llm.breakerTimeout", 30)

	v.SetDefault("ratelimit.maxRequests", 10)
	v.SetDefault("ratelimit.windowSec", 60)
	v.SetDefault("ratelimit.maxClients", 10000)

	v.SetDefault("validation.maxMessageLength", 1000)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttlSec", 3600)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")
}
