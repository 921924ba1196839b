// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package medicine

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/hliang/medshelf/pkg/types"
)

// EntryLines renders the raw collection as human-readable numbered lines.
// Writing the result to a file is the caller's responsibility.
func EntryLines(entries []types.Entry) string {
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e.Text)
	}
	return b.String()
}

// MedicineLines renders the structured collection as numbered lines, one
// record per line with its populated fields.
func MedicineLines(medicines []types.StructuredMedicine) string {
	var b strings.Builder
	for i, m := range medicines {
		fmt.Fprintf(&b, "%d. %s", i+1, m.DrugName)
		if m.BrandName != "" {
			fmt.Fprintf(&b, " (%s)", m.BrandName)
		}
		if m.Quantity > 0 && m.Unit != "" {
			fmt.Fprintf(&b, " %s%s", trimFloat(m.Quantity), m.Unit)
		}
		if m.Specification != "" {
			fmt.Fprintf(&b, " %s", m.Specification)
		}
		if m.ExpiryDate != "" {
			fmt.Fprintf(&b, " expires %s", m.ExpiryDate)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// MedicinesJSON renders the structured collection as pretty-printed JSON,
// preserving non-ASCII text.
func MedicinesJSON(medicines []types.StructuredMedicine) ([]byte, error) {
	if medicines == nil {
		medicines = []types.StructuredMedicine{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(medicines); err != nil {
		return nil, fmt.Errorf("encoding JSON export: %w", err)
	}
	return buf.Bytes(), nil
}

// MedicinesYAML renders the structured collection as YAML.
func MedicinesYAML(medicines []types.StructuredMedicine) ([]byte, error) {
	data, err := yaml.Marshal(medicines)
	if err != nil {
		return nil, fmt.Errorf("encoding YAML export: %w", err)
	}
	return data, nil
}

// csvHeader lists the exported columns in display order.
var csvHeader = []string{
	"number", "drug_name", "brand_name", "generic_name", "quantity",
	"unit", "specification", "package_count", "expiry_date",
	"parse_confidence", "raw_text", "timestamp",
}

// MedicinesCSV renders the structured collection as UTF-8 CSV with a
// header row.
func MedicinesCSV(medicines []types.StructuredMedicine) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for i, m := range medicines {
		record := []string{
			strconv.Itoa(i + 1),
			m.DrugName,
			m.BrandName,
			m.GenericName,
			trimFloat(m.Quantity),
			m.Unit,
			m.Specification,
			strconv.Itoa(m.PackageCount),
			m.ExpiryDate,
			string(m.Confidence),
			m.RawText,
			m.Timestamp,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing CSV record %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// trimFloat formats a quantity without trailing zeros ("1", "2.5").
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
