// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hliang/medshelf/pkg/types"
)

// --- list subcommand ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List structured medicine records, newest first",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	service := openQueryService(cmd)
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatMedicineOutput(service.Medicines().Rows(), jsonOutput)
}

// --- filter subcommand ---

var filterCmd = &cobra.Command{
	Use:   "filter [name]",
	Short: "Filter structured records by drug name or expiry window",
	Long: `Filter shows the records matching a case-insensitive substring of the
drug, brand, or generic name, an expiry window, or both. Date bounds
take "2006-01-02" dates; --before includes undated records when asked.`,
	RunE: runFilter,
}

func runFilter(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	if name == "" && len(args) > 0 {
		name = strings.Join(args, " ")
	}
	before, _ := cmd.Flags().GetString("before")
	after, _ := cmd.Flags().GetString("after")

	if name == "" && before == "" && after == "" {
		return fmt.Errorf("filter required: provide a name, --before, or --after")
	}

	service := openQueryService(cmd)
	matched := service.Medicines()
	if name != "" {
		matched = matched.FilterByDrugName(name)
	}
	if before != "" || after != "" {
		matched = matched.FilterByExpiry(before, after)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatMedicineOutput(matched.Rows(), jsonOutput)
}

// --- sort subcommand ---

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "List structured records sorted by expiry date or drug name",
	Long: `Sort lists all structured records ordered by --by expiry (default) or
--by name. Records without an expiry date always sort last so the
soonest-expiring medicines stay at the top.`,
	RunE: runSort,
}

func runSort(cmd *cobra.Command, args []string) error {
	by, _ := cmd.Flags().GetString("by")
	desc, _ := cmd.Flags().GetBool("desc")

	service := openQueryService(cmd)

	var sorted []types.StructuredMedicine
	switch by {
	case "expiry", "":
		sorted = service.SortByExpiry(!desc)
	case "name":
		sorted = service.SortByDrugName(!desc)
	default:
		return fmt.Errorf("unsupported sort key %q: use expiry or name", by)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatMedicineOutput(rowsInOrder(sorted), jsonOutput)
}

// rowsInOrder numbers records in the given order, unlike Rows which
// presents newest first.
func rowsInOrder(medicines []types.StructuredMedicine) []types.MedicineRow {
	rows := make([]types.MedicineRow, 0, len(medicines))
	for i, m := range medicines {
		rows = append(rows, types.MedicineRow{
			Number:        i + 1,
			DrugName:      m.DrugName,
			BrandName:     m.BrandName,
			GenericName:   m.GenericName,
			Quantity:      m.Quantity,
			Unit:          m.Unit,
			Specification: m.Specification,
			PackageCount:  m.PackageCount,
			ExpiryDate:    m.ExpiryDate,
			Confidence:    m.Confidence,
			RawText:       m.RawText,
			Timestamp:     m.Timestamp,
		})
	}
	return rows
}

// --- stats subcommand ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics for the structured collection",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	service := openQueryService(cmd)
	stats := service.Statistics()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Total records:            %d\n", stats.TotalCount)
	fmt.Printf("Expiring within 30 days:  %d\n", stats.ExpiringWithin30Days)
	fmt.Printf("Missing expiry date:      %d\n", stats.MissingExpiry)
	fmt.Printf("Distinct drugs:           %d\n", stats.DistinctDrugs)
	fmt.Printf("With brand name:          %d\n", stats.WithBrandName)
	fmt.Printf("With generic name:        %d\n", stats.WithGenericName)
	fmt.Printf("With specification:       %d\n", stats.WithSpecification)
	return nil
}

// --- clear subcommand ---

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all structured records",
	Long: `Clear empties the structured collection. Raw entries are untouched;
rerun parse to rebuild the records.`,
	RunE: runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	service := openQueryService(cmd)
	count := service.Medicines().Len()

	if err := service.Clear(); err != nil {
		return err
	}
	fmt.Printf("Cleared %d structured records\n", count)
	return nil
}

// --- shared output ---

func formatMedicineOutput(rows []types.MedicineRow, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No structured records found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-10s  %-14s  %-10s  %s\n",
		"#", "Drug", "Expiry", "Specification", "Quantity", "Confidence")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))

	for _, r := range rows {
		drug := r.DrugName
		if r.BrandName != "" && r.BrandName != r.DrugName {
			drug = fmt.Sprintf("%s (%s)", r.DrugName, r.BrandName)
		}
		if len(drug) > 24 {
			drug = drug[:21] + "..."
		}

		expiry := r.ExpiryDate
		if expiry == "" {
			expiry = "-"
		}
		spec := r.Specification
		if spec == "" {
			spec = "-"
		}
		qty := "-"
		if r.Quantity > 0 {
			qty = fmt.Sprintf("%g %s", r.Quantity, r.Unit)
		}

		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-10s  %-14s  %-10s  %s\n",
			r.Number, drug, expiry, spec, qty, r.Confidence)
	}

	fmt.Fprintf(os.Stdout, "\n%d records\n", len(rows))
	return nil
}

func init() {
	listCmd.Flags().Bool("json", false, "output records as JSON")

	filterCmd.Flags().String("name", "", "case-insensitive substring of drug, brand, or generic name")
	filterCmd.Flags().String("before", "", "only records expiring on or before this date (2006-01-02)")
	filterCmd.Flags().String("after", "", "only records expiring on or after this date (2006-01-02)")
	filterCmd.Flags().Bool("json", false, "output records as JSON")

	sortCmd.Flags().String("by", "expiry", "sort key: expiry or name")
	sortCmd.Flags().Bool("desc", false, "sort in descending order")
	sortCmd.Flags().Bool("json", false, "output records as JSON")

	statsCmd.Flags().Bool("json", false, "output statistics as JSON")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(statsCmd)
}
