// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Structure all raw entries into medicine records",
	Long: `Parse runs every raw entry through the extraction provider and stores
one structured record per entry, replacing any earlier record made from
the same entry. Provider failures degrade to a deterministic fallback
parser, so a run never loses an entry; only empty entries are skipped.

Use --provider none to skip the remote call and structure everything
with the fallback parser.`,
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	entries := openEntries(cmd)
	if entries.Len() == 0 {
		fmt.Println("No entries to parse. Add some with: medshelf entry add")
		return nil
	}

	if providerName, _ := cmd.Flags().GetString("provider"); providerName != "" {
		viper.Set("provider.name", providerName)
	}

	service, err := openService(cmd)
	if err != nil {
		return err
	}

	results, batchErrs, err := service.ParseAndSave(context.Background(), entries.All())

	fmt.Printf("Structured %d of %d entries\n", len(results), entries.Len())
	for _, be := range batchErrs {
		fmt.Printf("  skipped entry %d: %s\n", be.EntryID, be.Reason)
	}
	if err != nil {
		return fmt.Errorf("saving structured records: %w", err)
	}
	return nil
}

func init() {
	parseCmd.Flags().String("provider", "", "extraction provider: anthropic, openai, or none")

	rootCmd.AddCommand(parseCmd)
}
