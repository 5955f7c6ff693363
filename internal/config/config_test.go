package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Path: "data/opportunities.json"},
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "data/opportunities.json", cfg.Catalog.Path)
	assert.Equal(t, 0.05, cfg.Search.RelaxStep)
	assert.Equal(t, "text-embedding-ada-002", cfg.Embedding.Model)
}

func TestLoad_MissingEnv(t *testing.T) {
	_, err := Load("does-not-exist")
	require.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	assert.Equal(t, 10, cfg.HTTP.ReadTimeoutSec)
	assert.Equal(t, 10, cfg.HTTP.WriteTimeoutSec)
	assert.Equal(t, 10, cfg.HTTP.ShutdownSec)
	assert.Equal(t, 0.05, cfg.Search.RelaxStep)
	assert.Equal(t, "text-embedding-ada-002", cfg.Embedding.Model)
	assert.Equal(t, 10, cfg.Embedding.TimeoutSec)
	assert.Equal(t, 168, cfg.Cache.TTLHours)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too high", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"missing catalog path", func(c *Config) { c.Catalog.Path = "" }, "catalog.path"},
		{"floor out of range", func(c *Config) { c.Search.Floor = 1.0 }, "search.floor"},
		{"negative floor", func(c *Config) { c.Search.Floor = -0.1 }, "search.floor"},
		{"cache enabled without addrs", func(c *Config) { c.Cache.Enabled = true }, "cache.addrs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_AF_KEY", "secret")

	out := expandEnvVars([]byte("api_key: ${TEST_AF_KEY}\nmodel: ${TEST_AF_MODEL:-ada}\nempty: ${TEST_AF_UNSET}"))
	assert.Equal(t, "api_key: secret\nmodel: ada\nempty: ", string(out))
}
