package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecash/internal/ecash"
	"ecash/internal/hashing"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "ecash.json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written to disk")
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecash.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"slots": 4, "owner": "bob", "hash": "sha3", "enable_proofs": false}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Slots)
	assert.Equal(t, "bob", cfg.Owner)
	assert.Equal(t, hashing.NameSHA3, cfg.Hash)
	assert.False(t, cfg.EnableProofs)
	// Untouched fields keep their defaults.
	assert.Equal(t, int64(20), cfg.Amount)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecash.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero slots", func(c *Config) { c.Slots = 0 }},
		{"short key", func(c *Config) { c.KeyBits = 512 }},
		{"unknown hash", func(c *Config) { c.Hash = "md5" }},
		{"proofs with sha3", func(c *Config) { c.Hash = hashing.NameSHA3 }},
		{"require without enable", func(c *Config) { c.EnableProofs = false; c.RequireProofs = true }},
		{"empty owner", func(c *Config) { c.Owner = "" }},
		{"long owner", func(c *Config) { c.Owner = "abcdefghijklmnopqrstuvwxyz0" }},
		{"zero amount", func(c *Config) { c.Amount = 0 }},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slots = 6
	cfg.Hash = hashing.NameSHA3

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, 6, params.Slots)
	assert.Equal(t, hashing.NameSHA3, params.Hasher.Name())
	assert.Equal(t, ecash.DefaultSlots, DefaultConfig().Slots)
}
