// config.go - Configuration management for the e-cash daemon
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ecash/internal/blindsig"
	"ecash/internal/ecash"
	"ecash/internal/hashing"
)

// Config represents the application configuration
type Config struct {
	// Protocol settings
	Slots         int    `json:"slots"`
	KeyBits       int    `json:"key_bits"`
	Hash          string `json:"hash"`
	EnableProofs  bool   `json:"enable_proofs"`
	RequireProofs bool   `json:"require_proofs"`

	// Scenario
	Owner  string `json:"owner"`
	Amount int64  `json:"amount"`
	// Seed makes merchant challenges reproducible; 0 uses crypto/rand.
	Seed int64 `json:"seed"`

	// File paths
	KeyDir string `json:"key_dir"`

	// Logging
	LogLevel     string `json:"log_level"`
	LogFile      string `json:"log_file"`
	AuditLogPath string `json:"audit_log_path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Slots:         ecash.DefaultSlots,
		KeyBits:       2048,
		Hash:          hashing.NameMiMC,
		EnableProofs:  true,
		RequireProofs: false,
		Owner:         "alice",
		Amount:        20,
		KeyDir:        "keys",
		LogLevel:      "info",
		LogFile:       "ecash.log",
		AuditLogPath:  "audit.log",
	}
}

// LoadConfig loads configuration from file or creates default
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		config := DefaultConfig()
		if err := json.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		return config, nil
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}
	return config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Slots <= 0 {
		return fmt.Errorf("slots must be positive")
	}
	if c.KeyBits < blindsig.MinKeyBits {
		return fmt.Errorf("key_bits must be at least %d", blindsig.MinKeyBits)
	}
	if _, err := hashing.New(c.Hash); err != nil {
		return err
	}
	if c.EnableProofs && c.Hash != hashing.NameMiMC && c.Hash != "" {
		return fmt.Errorf("enable_proofs requires the %s hash", hashing.NameMiMC)
	}
	if c.RequireProofs && !c.EnableProofs {
		return fmt.Errorf("require_proofs needs enable_proofs")
	}
	if _, err := ecash.IdentityTag(c.Owner); err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	if c.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// Params returns the protocol parameters described by the configuration.
func (c *Config) Params() (ecash.Params, error) {
	h, err := hashing.New(c.Hash)
	if err != nil {
		return ecash.Params{}, err
	}
	return ecash.Params{Slots: c.Slots, Hasher: h}, nil
}
