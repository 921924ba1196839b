// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"
	"time"
)

// --- ValidExpiry / ExpiryTime ---

func TestValidExpiry(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"2027-06", true},
		{"2027-06-15", true},
		{"2027-6", false},
		{"2027/06/15", false},
		{"June 2027", false},
		{"2027年6月", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ValidExpiry(tt.in); got != tt.want {
				t.Errorf("ValidExpiry(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpiryTime(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		dated bool
	}{
		{"2027-06-15", "2027-06-15", true},
		{"2027-06", "2027-06-30", true}, // month precision is good through the month
		{"2024-02", "2024-02-29", true}, // leap year
		{"2027-02", "2027-02-28", true},
		{"", "", false},
		{"garbage", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, dated := ExpiryTime(tt.in)
			if dated != tt.dated {
				t.Fatalf("ExpiryTime(%q) dated = %v, want %v", tt.in, dated, tt.dated)
			}
			if dated && got.Format("2006-01-02") != tt.want {
				t.Errorf("ExpiryTime(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

// --- Validate ---

func TestStructuredMedicineValidate(t *testing.T) {
	good := StructuredMedicine{DrugName: "阿莫西林", ExpiryDate: "2027-06"}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	noName := StructuredMedicine{ExpiryDate: "2027-06"}
	if err := noName.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name error = %v, want ErrValidation", err)
	}

	badDate := StructuredMedicine{DrugName: "X", ExpiryDate: "next June"}
	if err := badDate.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("bad date error = %v, want ErrValidation", err)
	}
}

// --- ReplaceBySource ---

func TestReplaceBySource(t *testing.T) {
	l := NewMedicineList(nil)

	first, err := l.ReplaceBySource([]StructuredMedicine{
		{SourceEntryID: 1, DrugName: "阿莫西林", Confidence: ConfidenceLow},
		{SourceEntryID: 2, DrugName: "布洛芬", Confidence: ConfidenceLow},
	})
	if err != nil {
		t.Fatalf("first ReplaceBySource: %v", err)
	}
	if len(first) != 2 || first[0].ID == 0 || first[1].ID == 0 {
		t.Fatalf("returned records missing ids: %+v", first)
	}

	// Reparse entry 1 only; entry 2's record must survive.
	second, err := l.ReplaceBySource([]StructuredMedicine{
		{SourceEntryID: 1, DrugName: "阿莫西林胶囊", Confidence: ConfidenceHigh, ExpiryDate: "2027-06"},
	})
	if err != nil {
		t.Fatalf("second ReplaceBySource: %v", err)
	}

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	fromOne := 0
	for _, m := range l.All() {
		if m.SourceEntryID == 1 {
			fromOne++
			if m.DrugName != "阿莫西林胶囊" {
				t.Errorf("record for entry 1 = %q, want the reparsed value", m.DrugName)
			}
		}
	}
	if fromOne != 1 {
		t.Errorf("entry 1 has %d records, want exactly 1", fromOne)
	}
	if second[0].ID == first[0].ID {
		t.Errorf("replacement record reused the old id %d", first[0].ID)
	}
}

func TestReplaceBySourceRejectsInvalid(t *testing.T) {
	l := NewMedicineList(nil)

	_, err := l.ReplaceBySource([]StructuredMedicine{{SourceEntryID: 1}})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

// --- filters ---

func seedList() *MedicineList {
	return NewMedicineList([]StructuredMedicine{
		{ID: 1, SourceEntryID: 1, DrugName: "布洛芬", GenericName: "Ibuprofen", ExpiryDate: "2026-09-15"},
		{ID: 2, SourceEntryID: 2, DrugName: "阿莫西林", ExpiryDate: "2027-06"},
		{ID: 3, SourceEntryID: 3, DrugName: "泰诺", BrandName: "Tylenol"},
		{ID: 4, SourceEntryID: 4, DrugName: "Ibuprofen Extra", ExpiryDate: "2026-01-01"},
	})
}

func TestFilterByDrugName(t *testing.T) {
	l := seedList()

	tests := []struct {
		pattern string
		wantIDs []int64
	}{
		{"布洛芬", []int64{1}},
		{"ibuprofen", []int64{1, 4}}, // generic name and drug name, case folded
		{"IBUPROFEN", []int64{1, 4}},
		{"tylenol", []int64{3}},
		{"missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := l.FilterByDrugName(tt.pattern).All()
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("matched %d records, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("match[%d].ID = %d, want %d (order must be preserved)", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestFilterByExpiry(t *testing.T) {
	l := seedList()

	tests := []struct {
		name    string
		before  string
		after   string
		wantIDs []int64
	}{
		{"before only", "2026-12-31", "", []int64{1, 4}},
		{"after only", "", "2027-01-01", []int64{2}},
		{"window", "2026-10-01", "2026-05-01", []int64{1}},
		{"unbounded excludes undated", "", "", []int64{1, 2, 4}},
		{"empty window", "2020-01-01", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.FilterByExpiry(tt.before, tt.after).All()
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("matched %d records, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("match[%d].ID = %d, want %d", i, got[i].ID, want)
				}
			}
		})
	}
}

// --- sorting ---

func TestSortByExpiry(t *testing.T) {
	l := seedList()

	asc := l.SortByExpiry(true)
	wantAsc := []int64{4, 1, 2, 3}
	for i, want := range wantAsc {
		if asc[i].ID != want {
			t.Errorf("asc[%d].ID = %d, want %d", i, asc[i].ID, want)
		}
	}

	desc := l.SortByExpiry(false)
	wantDesc := []int64{2, 1, 4, 3}
	for i, want := range wantDesc {
		if desc[i].ID != want {
			t.Errorf("desc[%d].ID = %d, want %d", i, desc[i].ID, want)
		}
	}

	// The receiver is untouched.
	if l.All()[0].ID != 1 {
		t.Error("SortByExpiry mutated the list")
	}
}

func TestSortByDrugName(t *testing.T) {
	l := NewMedicineList([]StructuredMedicine{
		{ID: 1, DrugName: "c"},
		{ID: 2, DrugName: "a"},
		{ID: 3, DrugName: "b"},
	})

	asc := l.SortByDrugName(true)
	if asc[0].ID != 2 || asc[1].ID != 3 || asc[2].ID != 1 {
		t.Errorf("ascending = [%d %d %d], want [2 3 1]", asc[0].ID, asc[1].ID, asc[2].ID)
	}

	desc := l.SortByDrugName(false)
	if desc[0].ID != 1 || desc[2].ID != 2 {
		t.Errorf("descending = [%d %d %d], want [1 3 2]", desc[0].ID, desc[1].ID, desc[2].ID)
	}
}

// --- statistics ---

func TestStatistics(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	l := NewMedicineList([]StructuredMedicine{
		{ID: 1, DrugName: "布洛芬", ExpiryDate: "2026-09-15", GenericName: "Ibuprofen"},   // within 30 days
		{ID: 2, DrugName: "阿莫西林", ExpiryDate: "2026-09", Specification: "0.25g"},       // month precision, Sep 30 > cutoff Sep 28
		{ID: 3, DrugName: "泰诺", BrandName: "Tylenol"},                                  // undated
		{ID: 4, DrugName: "布洛芬", ExpiryDate: "2026-01-01"},                             // already expired still counts as within cutoff
		{ID: 5, DrugName: "ibuprofen", ExpiryDate: "2028-01"},                          // far future
	})

	s := l.Statistics(now)

	if s.TotalCount != 5 {
		t.Errorf("TotalCount = %d, want 5", s.TotalCount)
	}
	if s.ExpiringWithin30Days != 2 {
		t.Errorf("ExpiringWithin30Days = %d, want 2", s.ExpiringWithin30Days)
	}
	if s.MissingExpiry != 1 {
		t.Errorf("MissingExpiry = %d, want 1", s.MissingExpiry)
	}
	// 布洛芬 twice plus case-folded ibuprofen: 布洛芬, 阿莫西林, 泰诺, ibuprofen.
	if s.DistinctDrugs != 4 {
		t.Errorf("DistinctDrugs = %d, want 4", s.DistinctDrugs)
	}
	if s.WithBrandName != 1 {
		t.Errorf("WithBrandName = %d, want 1", s.WithBrandName)
	}
	if s.WithGenericName != 1 {
		t.Errorf("WithGenericName = %d, want 1", s.WithGenericName)
	}
	if s.WithSpecification != 1 {
		t.Errorf("WithSpecification = %d, want 1", s.WithSpecification)
	}
}

func TestStatisticsEmpty(t *testing.T) {
	s := NewMedicineList(nil).Statistics(time.Now())
	if s != (Statistics{}) {
		t.Errorf("empty collection statistics = %+v, want zero value", s)
	}
}

// --- ids ---

func TestMedicineListIDsStrictlyIncrease(t *testing.T) {
	l := NewMedicineList(nil)

	var last int64
	for i := 0; i < 50; i++ {
		m, err := l.Add(StructuredMedicine{DrugName: "X", Confidence: ConfidenceLow})
		if err != nil {
			t.Fatal(err)
		}
		if m.ID <= last {
			t.Fatalf("id %d not greater than previous %d", m.ID, last)
		}
		last = m.ID
	}
}
