// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Confidence classifies how a structured record was produced.
type Confidence string

const (
	// ConfidenceHigh means the extraction provider returned both a drug
	// name and an expiry date.
	ConfidenceHigh Confidence = "high"

	// ConfidenceLow means the provider answered but left gaps.
	ConfidenceLow Confidence = "low"

	// ConfidenceFallback means the deterministic parser produced the
	// record after the provider failed or was disabled.
	ConfidenceFallback Confidence = "fallback"
)

// StructuredMedicine is a normalized medicine record derived from one raw
// entry. DrugName is always populated; every other extracted field is
// best-effort.
type StructuredMedicine struct {
	ID int64 `json:"id" yaml:"id"`

	// SourceEntryID is a weak reference to the entry this record was
	// derived from. It is resolved by lookup only and may dangle if the
	// source entry was deleted.
	SourceEntryID int64 `json:"source_entry_id" yaml:"source_entry_id"`

	DrugName      string  `json:"drug_name" yaml:"drug_name"`
	BrandName     string  `json:"brand_name,omitempty" yaml:"brand_name,omitempty"`
	GenericName   string  `json:"generic_name,omitempty" yaml:"generic_name,omitempty"`
	Quantity      float64 `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Unit          string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	Specification string  `json:"specification,omitempty" yaml:"specification,omitempty"`
	PackageCount  int     `json:"package_count,omitempty" yaml:"package_count,omitempty"`

	// ExpiryDate is canonical: "2006-01-02" when day precision is known,
	// "2006-01" when only year and month were stated. Empty when unknown.
	ExpiryDate string `json:"expiry_date,omitempty" yaml:"expiry_date,omitempty"`

	Confidence Confidence `json:"parse_confidence" yaml:"parse_confidence"`

	// RawText preserves the original entry text for audit.
	RawText string `json:"raw_text" yaml:"raw_text"`

	// Timestamp is the structuring time in TimestampFormat.
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

var (
	expiryDay   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	expiryMonth = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// ValidExpiry reports whether s is empty or in one of the two canonical
// expiry formats.
func ValidExpiry(s string) bool {
	if s == "" {
		return true
	}
	return expiryDay.MatchString(s) || expiryMonth.MatchString(s)
}

// ExpiryTime returns the moment a dated record expires. A month-precision
// date counts as the last day of that month: a medicine marked "2027-06"
// is good through June. Returns false for empty or non-canonical values.
func ExpiryTime(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return t.AddDate(0, 1, -1), true
	}
	return time.Time{}, false
}

// Validate checks the construction invariants: a populated drug name and a
// canonical expiry date.
func (m StructuredMedicine) Validate() error {
	if strings.TrimSpace(m.DrugName) == "" {
		return fmt.Errorf("%w: drug name is empty", ErrValidation)
	}
	if !ValidExpiry(m.ExpiryDate) {
		return fmt.Errorf("%w: expiry date %q is not YYYY-MM or YYYY-MM-DD", ErrValidation, m.ExpiryDate)
	}
	return nil
}

// MedicineRow is one display row for the presentation layer.
type MedicineRow struct {
	Number        int
	DrugName      string
	BrandName     string
	GenericName   string
	Quantity      float64
	Unit          string
	Specification string
	PackageCount  int
	ExpiryDate    string
	Confidence    Confidence
	RawText       string
	Timestamp     string
}

// Statistics summarizes a structured collection. All counts are pure reads.
type Statistics struct {
	TotalCount           int `json:"total_count" yaml:"total_count"`
	ExpiringWithin30Days int `json:"expiring_within_30_days_count" yaml:"expiring_within_30_days_count"`
	MissingExpiry        int `json:"missing_expiry_count" yaml:"missing_expiry_count"`
	DistinctDrugs        int `json:"distinct_drug_count" yaml:"distinct_drug_count"`

	// Field fill rates.
	WithBrandName     int `json:"with_brand_name" yaml:"with_brand_name"`
	WithGenericName   int `json:"with_generic_name" yaml:"with_generic_name"`
	WithSpecification int `json:"with_specification" yaml:"with_specification"`
}

// MedicineList is an ordered collection of structured medicine records.
// Query operations return derived collections or sequences and never
// mutate the receiver. The zero value is usable.
type MedicineList struct {
	medicines []StructuredMedicine
	lastID    int64
}

// NewMedicineList builds a collection from previously persisted records.
func NewMedicineList(medicines []StructuredMedicine) *MedicineList {
	l := &MedicineList{medicines: append([]StructuredMedicine(nil), medicines...)}
	for _, m := range medicines {
		if m.ID > l.lastID {
			l.lastID = m.ID
		}
	}
	return l
}

func (l *MedicineList) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// Add validates and appends a record, assigning an id when it has none.
func (l *MedicineList) Add(m StructuredMedicine) (StructuredMedicine, error) {
	if err := m.Validate(); err != nil {
		return StructuredMedicine{}, err
	}
	if m.ID == 0 {
		m.ID = l.nextID()
	} else if m.ID > l.lastID {
		l.lastID = m.ID
	}
	l.medicines = append(l.medicines, m)
	return m, nil
}

// ReplaceBySource removes any existing records derived from the same source
// entries as the incoming ones, then appends the incoming records.
// Re-parsing therefore replaces rather than duplicates. The returned slice
// holds the appended records with their assigned ids.
func (l *MedicineList) ReplaceBySource(incoming []StructuredMedicine) ([]StructuredMedicine, error) {
	sources := make(map[int64]bool, len(incoming))
	for _, m := range incoming {
		if m.SourceEntryID != 0 {
			sources[m.SourceEntryID] = true
		}
	}

	kept := l.medicines[:0]
	for _, m := range l.medicines {
		if !sources[m.SourceEntryID] {
			kept = append(kept, m)
		}
	}
	l.medicines = kept

	added := make([]StructuredMedicine, 0, len(incoming))
	for _, m := range incoming {
		stored, err := l.Add(m)
		if err != nil {
			return added, err
		}
		added = append(added, stored)
	}
	return added, nil
}

// Get returns the record with the given id.
func (l *MedicineList) Get(id int64) (StructuredMedicine, bool) {
	for _, m := range l.medicines {
		if m.ID == id {
			return m, true
		}
	}
	return StructuredMedicine{}, false
}

// Delete removes the record with the given id and reports whether it existed.
func (l *MedicineList) Delete(id int64) bool {
	for i, m := range l.medicines {
		if m.ID == id {
			l.medicines = append(l.medicines[:i], l.medicines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes all records.
func (l *MedicineList) Clear() {
	l.medicines = nil
}

// All returns a copy of the records in insertion order.
func (l *MedicineList) All() []StructuredMedicine {
	return append([]StructuredMedicine(nil), l.medicines...)
}

// Reversed returns a most-recent-first copy for display.
func (l *MedicineList) Reversed() []StructuredMedicine {
	out := make([]StructuredMedicine, 0, len(l.medicines))
	for i := len(l.medicines) - 1; i >= 0; i-- {
		out = append(out, l.medicines[i])
	}
	return out
}

// Len returns the number of records.
func (l *MedicineList) Len() int {
	return len(l.medicines)
}

// FilterByDrugName returns a new collection holding the records whose drug,
// brand, or generic name contains the pattern, compared with Unicode case
// folding. Relative order is preserved.
func (l *MedicineList) FilterByDrugName(pattern string) *MedicineList {
	fold := cases.Fold()
	needle := fold.String(pattern)

	var matched []StructuredMedicine
	for _, m := range l.medicines {
		if strings.Contains(fold.String(m.DrugName), needle) ||
			strings.Contains(fold.String(m.BrandName), needle) ||
			strings.Contains(fold.String(m.GenericName), needle) {
			matched = append(matched, m)
		}
	}
	return NewMedicineList(matched)
}

// FilterByExpiry returns a new collection holding the dated records inside
// the inclusive [after, before] window. Either bound may be empty. Undated
// records never match a bounded filter.
func (l *MedicineList) FilterByExpiry(before, after string) *MedicineList {
	var matched []StructuredMedicine
	for _, m := range l.medicines {
		if m.ExpiryDate == "" {
			continue
		}
		if before != "" && m.ExpiryDate > before {
			continue
		}
		if after != "" && m.ExpiryDate < after {
			continue
		}
		matched = append(matched, m)
	}
	return NewMedicineList(matched)
}

// SortByExpiry returns a new sequence ordered by expiry date. Undated
// records sort after all dated records regardless of direction; ties keep
// insertion order.
func (l *MedicineList) SortByExpiry(ascending bool) []StructuredMedicine {
	out := l.All()
	sort.SliceStable(out, func(i, j int) bool {
		ti, iDated := ExpiryTime(out[i].ExpiryDate)
		tj, jDated := ExpiryTime(out[j].ExpiryDate)
		if iDated != jDated {
			return iDated
		}
		if !iDated {
			return false
		}
		if ascending {
			return ti.Before(tj)
		}
		return tj.Before(ti)
	})
	return out
}

// SortByDrugName returns a new sequence ordered by drug name.
func (l *MedicineList) SortByDrugName(ascending bool) []StructuredMedicine {
	out := l.All()
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].DrugName < out[j].DrugName
		}
		return out[j].DrugName < out[i].DrugName
	})
	return out
}

// Statistics computes aggregate counts relative to now.
func (l *MedicineList) Statistics(now time.Time) Statistics {
	s := Statistics{TotalCount: len(l.medicines)}
	cutoff := now.AddDate(0, 0, 30)
	fold := cases.Fold()
	distinct := make(map[string]bool)

	for _, m := range l.medicines {
		if t, dated := ExpiryTime(m.ExpiryDate); dated {
			if !t.After(cutoff) {
				s.ExpiringWithin30Days++
			}
		} else {
			s.MissingExpiry++
		}
		distinct[fold.String(m.DrugName)] = true
		if m.BrandName != "" {
			s.WithBrandName++
		}
		if m.GenericName != "" {
			s.WithGenericName++
		}
		if m.Specification != "" {
			s.WithSpecification++
		}
	}
	s.DistinctDrugs = len(distinct)
	return s
}

// Rows returns display rows, most recent first, numbered so the oldest
// record is row 1.
func (l *MedicineList) Rows() []MedicineRow {
	total := len(l.medicines)
	rows := make([]MedicineRow, 0, total)
	for i, m := range l.Reversed() {
		rows = append(rows, MedicineRow{
			Number:        total - i,
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
