// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package medicine orchestrates the structuring pipeline: it turns raw
// dictation entries into structured medicine records via the extraction
// provider, absorbs provider failures through the deterministic fallback
// parser, persists the results, and answers queries over the collection.
package medicine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hliang/medshelf/internal/extract"
	"github.com/hliang/medshelf/internal/store"
	"github.com/hliang/medshelf/pkg/types"
)

// BatchError records one entry that could not be structured: its
// extraction and the fallback both failed (in practice, empty text).
type BatchError struct {
	EntryID int64  `json:"entry_id" yaml:"entry_id"`
	Reason  string `json:"reason" yaml:"reason"`
}

// Service is the structuring service. All operations run to completion
// before the next is accepted; there are no background workers.
type Service struct {
	provider extract.Provider
	store    *store.JSONStore[types.StructuredMedicine]
	list     *types.MedicineList
	cfg      types.ProviderConfig
	log      *slog.Logger

	// disabled short-circuits retries when no provider is configured.
	disabled bool
}

// NewService builds the service and loads the previously persisted
// structured collection from the store.
func NewService(provider extract.Provider, st *store.JSONStore[types.StructuredMedicine], cfg types.ProviderConfig, log *slog.Logger) *Service {
	_, disabled := provider.(extract.Disabled)
	return &Service{
		provider: provider,
		store:    st,
		list:     types.NewMedicineList(st.Load()),
		cfg:      cfg,
		log:      log,
		disabled: disabled,
	}
}

// ParseSingle structures one entry. Provider failure is absorbed via the
// fallback parser; the only error condition is empty entry text. The
// returned record is not yet persisted and carries no id.
func (s *Service) ParseSingle(ctx context.Context, entry types.Entry) (types.StructuredMedicine, error) {
	if strings.TrimSpace(entry.Text) == "" {
		return types.StructuredMedicine{}, fmt.Errorf("%w: entry %d has empty text", types.ErrValidation, entry.ID)
	}

	fields, err := s.extract(ctx, entry.Text)
	return s.assemble(entry, fields, err), nil
}

// extract asks the configured provider for fields, retrying transient
// failures. With extraction disabled it fails immediately so the caller
// goes straight to the fallback.
func (s *Service) extract(ctx context.Context, text string) (extract.Fields, error) {
	if s.disabled {
		return s.provider.Extract(ctx, text)
	}
	return extract.WithRetry(ctx, s.provider, text, s.cfg.MaxRetries)
}

// assemble builds the structured record from extracted fields, routing to
// the fallback parser when extraction failed or returned no drug name.
func (s *Service) assemble(entry types.Entry, fields extract.Fields, extractErr error) types.StructuredMedicine {
	conf := types.ConfidenceLow

	switch {
	case extractErr != nil:
		if !s.disabled {
			s.log.Warn("extraction failed, using fallback parser",
				"provider", s.provider.Name(), "entry", entry.ID, "error", extractErr)
		}
		fields, _ = extract.Fallback(entry.Text)
		conf = types.ConfidenceFallback
	case strings.TrimSpace(fields.DrugName) == "":
		s.log.Warn("extraction returned no drug name, using fallback parser",
			"provider", s.provider.Name(), "entry", entry.ID)
		fields, _ = extract.Fallback(entry.Text)
		conf = types.ConfidenceFallback
	default:
		if !types.ValidExpiry(fields.ExpiryDate) {
			s.log.Warn("dropping non-canonical expiry date",
				"entry", entry.ID, "expiry", fields.ExpiryDate)
			fields.ExpiryDate = ""
		}
		if fields.ExpiryDate != "" {
			conf = types.ConfidenceHigh
		}
	}

	return types.StructuredMedicine{
		SourceEntryID: entry.ID,
		DrugName:      strings.TrimSpace(fields.DrugName),
		BrandName:     strings.TrimSpace(fields.BrandName),
		GenericName:   strings.TrimSpace(fields.GenericName),
		Quantity:      float64(fields.Quantity),
		Unit:          strings.TrimSpace(fields.Unit),
		Specification: strings.TrimSpace(fields.Specification),
		PackageCount:  int(fields.PackageCount),
		ExpiryDate:    fields.ExpiryDate,
		Confidence:    conf,
		RawText:       entry.Text,
		Timestamp:     time.Now().Format(types.TimestampFormat),
	}
}

// ParseBatch structures entries independently: one entry's failure never
// aborts the batch. Entries whose text is empty are skipped and reported
// in the error list, not substituted with a synthetic record. When the
// provider supports batch prompts the entries go out in groups of the
// configured batch size, degrading to per-entry calls on a malformed
// batch reply.
func (s *Service) ParseBatch(ctx context.Context, entries []types.Entry) ([]types.StructuredMedicine, []BatchError) {
	var results []types.StructuredMedicine
	var errs []BatchError

	valid := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Text) == "" {
			errs = append(errs, BatchError{EntryID: e.ID, Reason: "empty text"})
			continue
		}
		valid = append(valid, e)
	}

	batcher, canBatch := s.provider.(extract.BatchProvider)
	if s.disabled {
		canBatch = false
	}

	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = types.DefaultBatchSize
	}

	for start := 0; start < len(valid); start += batchSize {
		end := start + batchSize
		if end > len(valid) {
			end = len(valid)
		}
		batch := valid[start:end]

		if canBatch && len(batch) > 1 {
			if batched, ok := s.parseBatchPrompt(ctx, batcher, batch); ok {
				results = append(results, batched...)
				continue
			}
		}

		for _, e := range batch {
			m, err := s.ParseSingle(ctx, e)
			if err != nil {
				// Unreachable for pre-validated entries; kept for safety.
				errs = append(errs, BatchError{EntryID: e.ID, Reason: err.Error()})
				continue
			}
			results = append(results, m)
		}
	}

	s.log.Info("batch parse finished", "entries", len(entries), "structured", len(results), "failed", len(errs))
	return results, errs
}

// parseBatchPrompt tries one batch round trip for the given entries.
// It reports ok=false when the batch reply was unusable and the caller
// should degrade to per-entry extraction.
func (s *Service) parseBatchPrompt(ctx context.Context, batcher extract.BatchProvider, batch []types.Entry) ([]types.StructuredMedicine, bool) {
	texts := make([]string, len(batch))
	for i, e := range batch {
		texts[i] = e.Text
	}

	fieldsArr, err := extract.BatchWithRetry(ctx, batcher, texts, s.cfg.MaxRetries)
	if err != nil {
		s.log.Warn("batch extraction failed, degrading to per-entry calls",
			"provider", s.provider.Name(), "batch_size", len(batch), "error", err)
		return nil, false
	}

	out := make([]types.StructuredMedicine, len(batch))
	for i, e := range batch {
		out[i] = s.assemble(e, fieldsArr[i], nil)
	}
	return out, true
}

// ParseAndSave structures the entries and persists the results, replacing
// any prior structured records derived from the same source entries. The
// returned records carry their assigned ids. A persistence failure is
// returned alongside the parse results; the in-memory collection keeps
// the new records so the caller can retry the save.
func (s *Service) ParseAndSave(ctx context.Context, entries []types.Entry) ([]types.StructuredMedicine, []BatchError, error) {
	results, errs := s.ParseBatch(ctx, entries)

	stored, err := s.list.ReplaceBySource(results)
	if err != nil {
		return stored, errs, err
	}

	if err := s.store.Save(s.list.All()); err != nil {
		s.log.Error("saving structured records failed", "error", err)
		return stored, errs, err
	}
	return stored, errs, nil
}

// Medicines returns the in-memory structured collection.
func (s *Service) Medicines() *types.MedicineList {
	return s.list
}

// FilterByDrugName returns the records whose drug, brand, or generic name
// contains the pattern (Unicode case folding), in original relative order.
func (s *Service) FilterByDrugName(pattern string) *types.MedicineList {
	return s.list.FilterByDrugName(pattern)
}

// FilterByExpiry returns the dated records within the inclusive window.
func (s *Service) FilterByExpiry(before, after string) *types.MedicineList {
	return s.list.FilterByExpiry(before, after)
}

// SortByExpiry returns a new sequence ordered by expiry date; undated
// records always sort last.
func (s *Service) SortByExpiry(ascending bool) []types.StructuredMedicine {
	return s.list.SortByExpiry(ascending)
}

// SortByDrugName returns a new sequence ordered by drug name.
func (s *Service) SortByDrugName(ascending bool) []types.StructuredMedicine {
	return s.list.SortByDrugName(ascending)
}

// Statistics computes aggregate counts over the structured collection.
// Pure read, no mutation.
func (s *Service) Statistics() types.Statistics {
	return s.list.Statistics(time.Now())
}

// Clear removes all structured records and persists the empty collection.
func (s *Service) Clear() error {
	s.list.Clear()
	return s.store.Save(nil)
}

// Reload discards the in-memory collection and reads the store again.
func (s *Service) Reload() {
	s.list = types.NewMedicineList(s.store.Load())
}
