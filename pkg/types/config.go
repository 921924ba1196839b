// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ProviderConfig holds settings for the extraction provider.
type ProviderConfig struct {
	// Provider selects the backend: "anthropic", "openai", or "none".
	// With "none" every record is produced by the deterministic parser.
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the response size (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature controls sampling; extraction wants it low (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxRetries is the number of retry attempts for failed provider
	// calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// BatchSize is the number of entries sent per batch prompt when the
	// provider supports batching (default 10).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// StorageConfig holds the file locations for the two persisted collections.
// The two files are independent; they never share a path.
type StorageConfig struct {
	// DataDir is the directory holding both JSON files.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// EntriesFile is the raw-entry file name (default "entries.json").
	EntriesFile string `json:"entries_file" yaml:"entries_file"`

	// MedicinesFile is the structured-record file name
	// (default "structured_medicines.json").
	MedicinesFile string `json:"medicines_file" yaml:"medicines_file"`
}

// Config groups all stage configurations for the pipeline.
type Config struct {
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
}

// Default configuration values.
const (
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultMaxTokens      = 1024
	DefaultTemperature    = 0.3
	DefaultMaxRetries     = 3
	DefaultBatchSize      = 10
	DefaultDataDir        = "data"
	DefaultEntriesFile    = "entries.json"
	DefaultMedicinesFile  = "structured_medicines.json"
)

// ApplyDefaults fills unset fields with the package defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider.Model == "" {
		switch c.Provider.Provider {
		case "openai":
			c.Provider.Model = DefaultOpenAIModel
		default:
			c.Provider.Model = DefaultAnthropicModel
		}
	}
	if c.Provider.MaxTokens <= 0 {
		c.Provider.MaxTokens = DefaultMaxTokens
	}
	if c.Provider.Temperature <= 0 {
		c.Provider.Temperature = DefaultTemperature
	}
	if c.Provider.MaxRetries <= 0 {
		c.Provider.MaxRetries = DefaultMaxRetries
	}
	if c.Provider.BatchSize <= 0 {
		c.Provider.BatchSize = DefaultBatchSize
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = DefaultDataDir
	}
	if c.Storage.EntriesFile == "" {
		c.Storage.EntriesFile = DefaultEntriesFile
	}
	if c.Storage.MedicinesFile == "" {
		c.Storage.MedicinesFile = DefaultMedicinesFile
	}
}
