// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is the development secret that production refuses to start with.
const DefaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret                string  `mapstructure:"JWT_SECRET"`
	Port                     string  `mapstructure:"PORT"`
	Env                      string  `mapstructure:"APP_ENV"`
	DBHost                   string  `mapstructure:"DB_HOST"`
	DBPort                   string  `mapstructure:"DB_PORT"`
	DBUser                   string  `mapstructure:"DB_USER"`
	DBPassword               string  `mapstructure:"DB_PASSWORD"`
	DBName                   string  `mapstructure:"DB_NAME"`
	DBSSLMode                string  `mapstructure:"DB_SSLMODE"`
	DBReadHost               string  `mapstructure:"DB_READ_HOST"`
	DBReadPort               string  `mapstructure:"DB_READ_PORT"`
	DBReadUser               string  `mapstructure:"DB_READ_USER"`
	DBReadPassword           string  `mapstructure:"DB_READ_PASSWORD"`
	DBMaxOpenConns           int     `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int     `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int     `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	RedisURL                 string  `mapstructure:"REDIS_URL"`
	AllowedOrigins           string  `mapstructure:"ALLOWED_ORIGINS"`
	PostsPerPage             int     `mapstructure:"POSTS_PER_PAGE"`
	PageCacheTTLSeconds      int     `mapstructure:"PAGE_CACHE_TTL_SECONDS"`
	MediaRoot                string  `mapstructure:"MEDIA_ROOT"`
	ImageMaxDimension        int     `mapstructure:"IMAGE_MAX_DIMENSION"`
	ImageMaxUploadSizeMB     int     `mapstructure:"MAX_UPLOAD_MB"`
	TracingEnabled           bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter          string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint             string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio       float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
	SeedGroups               bool    `mapstructure:"SEED_GROUPS"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; environment variables and defaults are enough to run.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read profile config 'config.%s.yml': %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "inkwell")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "inkwell")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_READ_HOST", "")
	viper.SetDefault("DB_READ_PORT", "5432")
	viper.SetDefault("DB_READ_USER", "inkwell")
	viper.SetDefault("DB_READ_PASSWORD", "password")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", DefaultJWTSecret)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:8000,http://127.0.0.1:8000")
	viper.SetDefault("POSTS_PER_PAGE", 10)
	viper.SetDefault("PAGE_CACHE_TTL_SECONDS", 20)
	viper.SetDefault("MEDIA_ROOT", "media")
	viper.SetDefault("IMAGE_MAX_DIMENSION", 1920)
	viper.SetDefault("MAX_UPLOAD_MB", 10)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
	viper.SetDefault("SEED_GROUPS", true)
}

// IsProduction reports whether the app runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// PageCacheTTL returns the page cache lifetime as a duration.
func (c *Config) PageCacheTTL() time.Duration {
	return time.Duration(c.PageCacheTTLSeconds) * time.Second
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.PostsPerPage <= 0 {
		return errors.New("POSTS_PER_PAGE must be positive")
	}
	if c.PageCacheTTLSeconds < 0 {
		return errors.New("PAGE_CACHE_TTL_SECONDS cannot be negative")
	}
	if c.ImageMaxUploadSizeMB <= 0 {
		return errors.New("MAX_UPLOAD_MB must be positive")
	}
	if c.DBConnMaxLifetimeMinutes <= 0 {
		return errors.New("DB_CONN_MAX_LIFETIME_MINUTES must be positive")
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return errors.New("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}

	if c.IsProduction() {
		if c.JWTSecret == DefaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must enable TLS in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
