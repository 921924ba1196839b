// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"
	"time"
)

func TestEntryListAdd(t *testing.T) {
	l := &EntryList{}

	e, err := l.Add("  阿莫西林一盒2027年6月  ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e.Text != "阿莫西林一盒2027年6月" {
		t.Errorf("Text = %q, want trimmed", e.Text)
	}
	if e.ID == 0 {
		t.Error("ID not assigned")
	}
	if _, err := time.Parse(TimestampFormat, e.Timestamp); err != nil {
		t.Errorf("Timestamp %q does not match TimestampFormat: %v", e.Timestamp, err)
	}
}

func TestEntryListAddEmpty(t *testing.T) {
	l := &EntryList{}

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := l.Add(text)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Add(%q) error = %v, want ErrValidation", text, err)
		}
	}
	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0", l.Len())
	}
}

func TestEntryListIDsStrictlyIncrease(t *testing.T) {
	l := &EntryList{}

	var last int64
	for i := 0; i < 100; i++ {
		e, err := l.Add("text")
		if err != nil {
			t.Fatal(err)
		}
		if e.ID <= last {
			t.Fatalf("id %d not greater than previous %d", e.ID, last)
		}
		last = e.ID
	}
}

func TestEntryListIDsResumeAfterLoad(t *testing.T) {
	persisted := []Entry{
		{ID: 1700000000001, Text: "old one"},
		{ID: 1700000000002, Text: "old two"},
	}
	l := NewEntryList(persisted)

	e, err := l.Add("new")
	if err != nil {
		t.Fatal(err)
	}
	if e.ID <= 1700000000002 {
		t.Errorf("new id %d collides with persisted ids", e.ID)
	}
}

func TestEntryListUpdate(t *testing.T) {
	l := &EntryList{}
	e, _ := l.Add("original")

	found, err := l.Update(e.ID, "  changed  ")
	if err != nil || !found {
		t.Fatalf("Update = (%v, %v), want (true, nil)", found, err)
	}

	got, _ := l.Get(e.ID)
	if got.Text != "changed" {
		t.Errorf("Text = %q, want %q", got.Text, "changed")
	}

	found, err = l.Update(999, "whatever")
	if err != nil || found {
		t.Errorf("Update unknown id = (%v, %v), want (false, nil)", found, err)
	}

	if _, err := l.Update(e.ID, "   "); !errors.Is(err, ErrValidation) {
		t.Errorf("Update with empty text error = %v, want ErrValidation", err)
	}
}

func TestEntryListDelete(t *testing.T) {
	l := &EntryList{}
	a, _ := l.Add("a")
	b, _ := l.Add("b")
	c, _ := l.Add("c")

	if !l.Delete(b.ID) {
		t.Fatal("Delete returned false for existing entry")
	}
	if l.Delete(b.ID) {
		t.Error("second delete returned true")
	}

	all := l.All()
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != c.ID {
		t.Errorf("remaining order wrong: %+v", all)
	}
}

func TestEntryListAllIsACopy(t *testing.T) {
	l := &EntryList{}
	l.Add("a")

	all := l.All()
	all[0].Text = "mutated"

	got, _ := l.Get(all[0].ID)
	if got.Text != "a" {
		t.Errorf("internal state mutated through All(): %q", got.Text)
	}
}

func TestEntryListRows(t *testing.T) {
	l := &EntryList{}
	l.Add("first")
	l.Add("second")
	l.Add("third")

	rows := l.Rows()
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	wantTexts := []string{"third", "second", "first"}
	wantNumbers := []int{3, 2, 1}
	for i := range rows {
		if rows[i].Text != wantTexts[i] || rows[i].Number != wantNumbers[i] {
			t.Errorf("rows[%d] = %d %q, want %d %q", i, rows[i].Number, rows[i].Text, wantNumbers[i], wantTexts[i])
		}
	}
}
