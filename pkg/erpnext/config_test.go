package erpnext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{Username: "Administrator", Password: "secret", BaseURL: "https://erp.example.com"}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing username", mutate: func(c *Config) { c.Username = "" }, wantErr: "ERPNEXT_USERNAME is required"},
		{name: "missing password", mutate: func(c *Config) { c.Password = "" }, wantErr: "ERPNEXT_PASSWORD is required"},
		{name: "missing base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: "ERPNEXT_BASE_URL is required"},
		{name: "relative base url", mutate: func(c *Config) { c.BaseURL = "erp.example.com" }, wantErr: "must be an absolute URL"},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, wantErr: "ERPNEXT_MAX_RETRIES"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "ERPNEXT_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ERPNEXT_USERNAME", "Administrator")
	t.Setenv("ERPNEXT_PASSWORD", "secret")
	t.Setenv("ERPNEXT_BASE_URL", "https://erp.example.com")
	t.Setenv("ERPNEXT_TIMEOUT", "10s")
	t.Setenv("ERPNEXT_MAX_RETRIES", "2")
	t.Setenv("ERPNEXT_REUSE_SESSION", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Administrator", cfg.Username)
	assert.Equal(t, "https://erp.example.com", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.True(t, cfg.ReuseSession)

	t.Setenv("ERPNEXT_TIMEOUT", "soon")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "ERPNEXT_TIMEOUT is invalid")
}
