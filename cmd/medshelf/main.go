// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the medshelf CLI. It wires the
// capture, structuring, and query operations to the pipeline packages;
// presentation stays here, the core never assumes how rows are displayed.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hliang/medshelf/internal/extract"
	"github.com/hliang/medshelf/internal/medicine"
	"github.com/hliang/medshelf/internal/store"
	"github.com/hliang/medshelf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the medshelf CLI.
var rootCmd = &cobra.Command{
	Use:   "medshelf",
	Short: "Structure free-form medicine descriptions into queryable records",
	Long: `medshelf turns dictated or typed medicine descriptions into structured
records (drug name, quantity, unit, expiry date) using a language-model
extraction step with a deterministic fallback parser.

Raw entries are captured with the entry subcommands, structured with
parse, and queried with list, filter, sort, and stats. Both collections
persist as human-readable JSON files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// API keys commonly live in a .env next to the data; absence is fine.
		_ = godotenv.Load()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./medshelf.yaml or ~/.config/medshelf/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the JSON data files")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("medshelf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "medshelf"))
		}
	}

	viper.SetEnvPrefix("MEDSHELF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the pipeline configuration from viper, flags, and
// the environment, then fills defaults.
func loadConfig(cmd *cobra.Command) types.Config {
	cfg := types.Config{
		Provider: types.ProviderConfig{
			Provider:    viper.GetString("provider.name"),
			Model:       viper.GetString("provider.model"),
			MaxTokens:   viper.GetInt("provider.max_tokens"),
			Temperature: viper.GetFloat64("provider.temperature"),
			MaxRetries:  viper.GetInt("provider.max_retries"),
			BatchSize:   viper.GetInt("provider.batch_size"),
		},
		Storage: types.StorageConfig{
			DataDir:       viper.GetString("storage.data_dir"),
			EntriesFile:   viper.GetString("storage.entries_file"),
			MedicinesFile: viper.GetString("storage.medicines_file"),
		},
	}

	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	cfg.ApplyDefaults()

	switch cfg.Provider.Provider {
	case "openai":
		cfg.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
	case "none", "disabled":
	default:
		cfg.Provider.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return cfg
}

// newLogger builds the logger handed to every pipeline component. The
// default level keeps warnings (fallback usage, corrupt files) visible
// without cluttering normal output.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openEntries builds the raw-entry service over its own store file.
func openEntries(cmd *cobra.Command) *medicine.Entries {
	cfg := loadConfig(cmd)
	log := newLogger(cmd)
	st := store.New[types.Entry](filepath.Join(cfg.Storage.DataDir, cfg.Storage.EntriesFile), log)
	return medicine.NewEntries(st, log)
}

// openService builds the structuring service with the configured
// extraction provider.
func openService(cmd *cobra.Command) (*medicine.Service, error) {
	cfg := loadConfig(cmd)
	log := newLogger(cmd)

	provider, err := extract.New(cfg.Provider)
	if err != nil {
		return nil, err
	}

	st := store.New[types.StructuredMedicine](filepath.Join(cfg.Storage.DataDir, cfg.Storage.MedicinesFile), log)
	return medicine.NewService(provider, st, cfg.Provider, log), nil
}

// openQueryService builds the structuring service without a remote
// provider; query and export operations never need one.
func openQueryService(cmd *cobra.Command) *medicine.Service {
	cfg := loadConfig(cmd)
	log := newLogger(cmd)
	st := store.New[types.StructuredMedicine](filepath.Join(cfg.Storage.DataDir, cfg.Storage.MedicinesFile), log)
	return medicine.NewService(extract.Disabled{}, st, cfg.Provider, log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
