// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hliang/medshelf/internal/medicine"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export structured records to text, JSON, YAML, or CSV",
	Long: `Export writes the structured collection in the requested format to
stdout or to --out. Text output is the numbered human-readable listing;
the other formats carry every field for downstream tooling.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	service := openQueryService(cmd)
	medicines := service.Medicines().All()

	var out []byte
	var err error
	switch format {
	case "text", "":
		out = []byte(medicine.MedicineLines(medicines))
	case "json":
		out, err = medicine.MedicinesJSON(medicines)
	case "yaml":
		out, err = medicine.MedicinesYAML(medicines)
	case "csv":
		out, err = medicine.MedicinesCSV(medicines)
	default:
		return fmt.Errorf("unsupported format %q: use text, json, yaml, or csv", format)
	}
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Printf("Exported %d records to %s\n", len(medicines), outPath)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "text", "export format: text, json, yaml, or csv")
	exportCmd.Flags().String("out", "", "output file (default stdout)")

	rootCmd.AddCommand(exportCmd)
}
