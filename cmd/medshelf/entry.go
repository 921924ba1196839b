// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Capture and manage raw medicine descriptions",
	Long: `Entry manages the raw capture list. Each entry is one free-form
description of a medicine, stored verbatim with a timestamp. Entries are
the input to the parse command and are never modified by it.`,
}

// --- add subcommand ---

var entryAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Record a raw medicine description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEntryAdd,
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	entries := openEntries(cmd)

	entry, err := entries.Add(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Printf("Added entry %d: %s\n", entry.ID, entry.Text)
	return nil
}

// --- list subcommand ---

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List raw entries, newest first",
	RunE:  runEntryList,
}

func runEntryList(cmd *cobra.Command, args []string) error {
	entries := openEntries(cmd)
	rows := entries.Rows()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No entries recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-19s  %s\n", "#", "Recorded", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, r := range rows {
		fmt.Fprintf(os.Stdout, "%-4d  %-19s  %s\n", r.Number, r.Timestamp, r.Text)
	}
	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(rows))
	return nil
}

// --- edit subcommand ---

var entryEditCmd = &cobra.Command{
	Use:   "edit [id] [text]",
	Short: "Replace the text of an existing entry",
	Long: `Edit replaces the stored text of an entry. The structured record made
from the old text is untouched; rerun parse to refresh it.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEntryEdit,
}

func runEntryEdit(cmd *cobra.Command, args []string) error {
	id, err := parseEntryID(args[0])
	if err != nil {
		return err
	}

	entries := openEntries(cmd)
	if err := entries.Update(id, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Printf("Updated entry %d\n", id)
	return nil
}

// --- delete subcommand ---

var entryDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a single entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryDelete,
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	id, err := parseEntryID(args[0])
	if err != nil {
		return err
	}

	entries := openEntries(cmd)
	if err := entries.Delete(id); err != nil {
		return err
	}
	fmt.Printf("Deleted entry %d\n", id)
	return nil
}

// --- clear subcommand ---

var entryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all raw entries",
	RunE:  runEntryClear,
}

func runEntryClear(cmd *cobra.Command, args []string) error {
	entries := openEntries(cmd)
	count := entries.Len()

	if err := entries.Clear(); err != nil {
		return err
	}
	fmt.Printf("Cleared %d entries\n", count)
	return nil
}

func parseEntryID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", arg)
	}
	return id, nil
}

func init() {
	entryListCmd.Flags().Bool("json", false, "output entries as JSON")

	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryEditCmd)
	entryCmd.AddCommand(entryDeleteCmd)
	entryCmd.AddCommand(entryClearCmd)

	rootCmd.AddCommand(entryCmd)
}
