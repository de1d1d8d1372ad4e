// Package config loads application settings from an optional YAML file,
// a .env file and AIREADY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/aiready/internal/commentary"
	"github.com/abhisek/aiready/internal/llm"
)

// EnvPrefix prefixes every environment variable, e.g. AIREADY_SERVER_ADDR.
const EnvPrefix = "AIREADY"

// Config is the top-level configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Report     ReportConfig     `mapstructure:"report"`
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Commentary CommentaryConfig `mapstructure:"commentary"`
	LLM        llm.Config       `mapstructure:"llm"`
}

// DatabaseConfig locates the SQLite file. Empty uses the XDG default.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`

	// Directory receives rotated JSON log files. Empty logs to the
	// console only.
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// ReportConfig holds export settings.
type ReportConfig struct {
	FontPath  string `mapstructure:"font_path" validate:"omitempty,file"`
	OutputDir string `mapstructure:"output_dir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

// CatalogConfig optionally replaces the built-in question catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path" validate:"omitempty,file"`
}

// CommentaryConfig controls LLM commentary on submissions.
type CommentaryConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxTokens   int           `mapstructure:"max_tokens" validate:"gte=64,lte=8192"`
	Temperature float64       `mapstructure:"temperature" validate:"gte=0,lte=1"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Service converts the settings into a commentary.Config.
func (c CommentaryConfig) Service() commentary.Config {
	return commentary.Config{
		Enabled:     c.Enabled,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.directory", "")
	v.SetDefault("logging.max_size", 10)   // MB
	v.SetDefault("logging.max_backups", 3) // files
	v.SetDefault("logging.max_age", 7)     // days
	v.SetDefault("logging.compress", true)

	v.SetDefault("report.font_path", "")
	v.SetDefault("report.output_dir", ".")

	v.SetDefault("server.addr", "127.0.0.1:8080")

	v.SetDefault("catalog.path", "")

	cd := commentary.DefaultConfig()
	v.SetDefault("commentary.enabled", cd.Enabled)
	v.SetDefault("commentary.max_tokens", cd.MaxTokens)
	v.SetDefault("commentary.temperature", cd.Temperature)
	v.SetDefault("commentary.timeout", cd.Timeout)

	ld := llm.DefaultConfig()
	v.SetDefault("llm.provider", ld.Provider)
	v.SetDefault("llm.timeout", ld.Timeout)
	v.SetDefault("llm.retry.max_attempts", ld.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", ld.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", ld.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", ld.Retry.Multiplier)
	for vendor, model := range map[string]string{
		"anthropic":  ld.Anthropic.Model,
		"openai":     ld.OpenAI.Model,
		"gemini":     ld.Gemini.Model,
		"openrouter": ld.OpenRouter.Model,
	} {
		v.SetDefault("llm."+vendor+".api_key", "")
		v.SetDefault("llm."+vendor+".model", model)
		v.SetDefault("llm."+vendor+".base_url", "")
	}
}

// Load reads configuration. file names an explicit config file; when
// empty, aiready.yaml is looked up in the working directory and then in
// $XDG_CONFIG_HOME/aiready, and a missing file is not an error.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("aiready")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configHome(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "aiready"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM.Discover()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the LLM provider settings.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func configHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}
