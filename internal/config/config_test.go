package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                      "development",
		JWTSecret:                "secure-secret-at-least-32-chars-long",
		DBPassword:               "secure-password",
		DBSSLMode:                "disable",
		Port:                     "8000",
		PostsPerPage:             10,
		PageCacheTTLSeconds:      20,
		ImageMaxUploadSizeMB:     10,
		DBConnMaxLifetimeMinutes: 5,
		TracingSampleRatio:       1,
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero page size", func(c *Config) { c.PostsPerPage = 0 }},
		{"negative cache ttl", func(c *Config) { c.PageCacheTTLSeconds = -1 }},
		{"sample ratio above one", func(c *Config) { c.TracingSampleRatio = 1.5 }},
		{"default secret in production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.JWTSecret = DefaultJWTSecret
		}},
		{"weak db password in production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.DBPassword = "password"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfig_PageCacheTTL(t *testing.T) {
	c := validConfig()
	assert.Equal(t, 20*time.Second, c.PageCacheTTL())
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 10, c.PostsPerPage)
	assert.Equal(t, 20, c.PageCacheTTLSeconds)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("POSTS_PER_PAGE", "3")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, c.PostsPerPage)
}
