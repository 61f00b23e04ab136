// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TECHPACK_CSV_DELIMITER.
const EnvPrefix = "TECHPACK"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	PDF struct {
		Engine        string  `mapstructure:"engine" yaml:"engine"`
		LineTolerance float64 `mapstructure:"line_tolerance" yaml:"line_tolerance"`
		SpaceGap      float64 `mapstructure:"space_gap" yaml:"space_gap"`
	} `mapstructure:"pdf" yaml:"pdf"`

	Labels struct {
		File             string `mapstructure:"file" yaml:"file"`
		ArticleTypesFile string `mapstructure:"article_types_file" yaml:"article_types_file"`
	} `mapstructure:"labels" yaml:"labels"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Store struct {
		DBPath string `mapstructure:"db_path" yaml:"db_path"`
	} `mapstructure:"store" yaml:"store"`

	Server struct {
		Addr        string `mapstructure:"addr" yaml:"addr"`
		MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	} `mapstructure:"server" yaml:"server"`

	Batch struct {
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"batch" yaml:"batch"`

	Defaults struct {
		Designer string `mapstructure:"designer" yaml:"designer"`
		Status   string `mapstructure:"status" yaml:"status"`
	} `mapstructure:"defaults" yaml:"defaults"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration from configFile when it is set, or searches the
// standard locations otherwise. Unlike the search, an explicit file must exist.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.techpack-csv")
		v.AddConfigPath(".techpack-csv")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if !errors.As(err, &notFound) {
			logging.GetLogger().WithError(err).Warn("Error reading config file, using defaults",
				logging.Field{Key: logging.FieldFile, Value: v.ConfigFileUsed()})
		}
	}

	// 5. The API key is also read from the unprefixed variable
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "GEMINI_API_KEY"); err != nil {
		logging.GetLogger().WithError(err).Warn("Failed to bind GEMINI_API_KEY environment variable")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.include_headers", true)

	v.SetDefault("pdf.engine", "native")
	v.SetDefault("pdf.line_tolerance", 5.0)
	v.SetDefault("pdf.space_gap", 1.5)

	v.SetDefault("labels.file", "labels.yaml")
	v.SetDefault("labels.article_types_file", "article_types.yaml")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.api_key", "")

	v.SetDefault("store.db_path", "techpacks.db")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 10)

	v.SetDefault("batch.workers", 4)

	v.SetDefault("defaults.designer", models.DefaultDesigner)
	v.SetDefault("defaults.status", models.StatusDraft)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}

	switch config.PDF.Engine {
	case "native", "pdftotext":
	default:
		return fmt.Errorf("pdf.engine must be 'native' or 'pdftotext', got: %s", config.PDF.Engine)
	}
	if config.PDF.LineTolerance <= 0 {
		return fmt.Errorf("pdf.line_tolerance must be positive, got: %g", config.PDF.LineTolerance)
	}
	if config.PDF.SpaceGap < 0 {
		return fmt.Errorf("pdf.space_gap cannot be negative, got: %g", config.PDF.SpaceGap)
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if strings.TrimSpace(config.AI.Model) == "" {
			return fmt.Errorf("ai.model is required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	if strings.TrimSpace(config.Store.DBPath) == "" {
		return fmt.Errorf("store.db_path is required")
	}

	if config.Server.MaxUploadMB < 1 || config.Server.MaxUploadMB > 1024 {
		return fmt.Errorf("server.max_upload_mb must be between 1 and 1024, got: %d", config.Server.MaxUploadMB)
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 64 {
		return fmt.Errorf("batch.workers must be between 1 and 64, got: %d", config.Batch.Workers)
	}

	if !models.IsValidStatus(config.Defaults.Status) {
		return fmt.Errorf("defaults.status must be one of draft, submitted, approved, rejected, got: %s", config.Defaults.Status)
	}

	return nil
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
