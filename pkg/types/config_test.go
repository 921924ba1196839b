// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()

	if c.Provider.Model != DefaultAnthropicModel {
		t.Errorf("Model = %q, want %q", c.Provider.Model, DefaultAnthropicModel)
	}
	if c.Provider.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", c.Provider.MaxTokens, DefaultMaxTokens)
	}
	if c.Provider.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want %v", c.Provider.Temperature, DefaultTemperature)
	}
	if c.Provider.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", c.Provider.MaxRetries, DefaultMaxRetries)
	}
	if c.Provider.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", c.Provider.BatchSize, DefaultBatchSize)
	}
	if c.Storage.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", c.Storage.DataDir, DefaultDataDir)
	}
	if c.Storage.EntriesFile != DefaultEntriesFile || c.Storage.MedicinesFile != DefaultMedicinesFile {
		t.Errorf("file names = %q, %q", c.Storage.EntriesFile, c.Storage.MedicinesFile)
	}
}

func TestApplyDefaultsOpenAIModel(t *testing.T) {
	c := Config{Provider: ProviderConfig{Provider: "openai"}}
	c.ApplyDefaults()

	if c.Provider.Model != DefaultOpenAIModel {
		t.Errorf("Model = %q, want %q", c.Provider.Model, DefaultOpenAIModel)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	c := Config{
		Provider: ProviderConfig{Model: "custom-model", MaxTokens: 99, BatchSize: 2},
		Storage:  StorageConfig{DataDir: "/tmp/meds"},
	}
	c.ApplyDefaults()

	if c.Provider.Model != "custom-model" {
		t.Errorf("Model = %q, want the explicit value", c.Provider.Model)
	}
	if c.Provider.MaxTokens != 99 || c.Provider.BatchSize != 2 {
		t.Errorf("explicit numbers overwritten: %+v", c.Provider)
	}
	if c.Storage.DataDir != "/tmp/meds" {
		t.Errorf("DataDir = %q, want the explicit value", c.Storage.DataDir)
	}
}
