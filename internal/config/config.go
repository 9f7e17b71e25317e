package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`
	StaticDir   string `yaml:"static_dir"`

	// S3 archive for original uploads. Empty endpoint disables it.
	S3Endpoint        string `yaml:"s3_endpoint"`
	S3AccessKeyID     string `yaml:"s3_access_key_id"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key"`
	S3BucketName      string `yaml:"s3_bucket_name"`
	S3UseSSL          bool   `yaml:"s3_use_ssl"`

	// OpenAI-compatible chat completions
	OpenAIAPIKey  string        `yaml:"openai_api_key"`
	OpenAIBaseURL string        `yaml:"openai_base_url"`
	OpenAIModel   string        `yaml:"openai_model"`
	OpenAITimeout time.Duration `yaml:"openai_timeout"`

	// Pipeline
	MaxInputChars         int     `yaml:"max_input_chars"`
	CostPerThousandTokens float64 `yaml:"cost_per_thousand_tokens"`
	EnableFactCheck       bool    `yaml:"enable_fact_check"`
	EnableCategory        bool    `yaml:"enable_category"`

	// HTTP
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MaxFileSize    int64         `yaml:"max_file_size"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

func defaults() *Config {
	return &Config{
		Port:                  "3000",
		DatabaseURL:           "data/papers.db",
		LogLevel:              "info",
		StaticDir:             "public",
		S3BucketName:          "papers",
		OpenAIBaseURL:         "https://api.openai.com/v1",
		OpenAIModel:           "gpt-3.5-turbo",
		OpenAITimeout:         120 * time.Second,
		MaxInputChars:         2000,
		CostPerThousandTokens: 0.002,
		EnableFactCheck:       true,
		EnableCategory:        true,
		AllowedOrigins: []string{
			"https://paper-simplifier.onrender.com",
			"http://localhost:3000",
			"https://readease.wtf",
		},
		MaxFileSize:  10 << 20, // 10MB
		WriteTimeout: 10 * time.Minute,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	cfg.S3Endpoint = getEnv("S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3AccessKeyID = getEnv("S3_ACCESS_KEY_ID", cfg.S3AccessKeyID)
	cfg.S3SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", cfg.S3SecretAccessKey)
	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", cfg.S3BucketName)
	cfg.S3UseSSL = getEnvBool("S3_USE_SSL", cfg.S3UseSSL)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.EnableFactCheck = getEnvBool("ENABLE_FACT_CHECK", cfg.EnableFactCheck)
	cfg.EnableCategory = getEnvBool("ENABLE_CATEGORY", cfg.EnableCategory)

	var err error
	if cfg.OpenAITimeout, err = getEnvDuration("OPENAI_TIMEOUT", cfg.OpenAITimeout); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getEnvDuration("WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return nil, err
	}
	if cfg.MaxInputChars, err = getEnvInt("MAX_INPUT_CHARS", cfg.MaxInputChars); err != nil {
		return nil, err
	}
	maxFileSize, err := getEnvInt("MAX_FILE_SIZE", int(cfg.MaxFileSize))
	if err != nil {
		return nil, err
	}
	cfg.MaxFileSize = int64(maxFileSize)

	if raw := os.Getenv("COST_PER_THOUSAND_TOKENS"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid COST_PER_THOUSAND_TOKENS %q: %w", raw, err)
		}
		cfg.CostPerThousandTokens = rate
	}

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		cfg.AllowedOrigins = splitList(raw)
	}

	if cfg.MaxInputChars <= 0 {
		return nil, fmt.Errorf("MAX_INPUT_CHARS must be positive")
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return cfg, nil
}

// RequireLLM reports whether the LLM credentials needed to summarize are present.
func (c *Config) RequireLLM() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

// ArchiveEnabled reports whether uploads should be copied to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Endpoint != ""
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1"
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
