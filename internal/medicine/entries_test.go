// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package medicine

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/hliang/medshelf/internal/store"
	"github.com/hliang/medshelf/pkg/types"
)

func testEntries(t *testing.T) (*Entries, *store.JSONStore[types.Entry]) {
	t.Helper()
	st := store.New[types.Entry](filepath.Join(t.TempDir(), "entries.json"), testLogger())
	return NewEntries(st, testLogger()), st
}

func TestEntriesAdd(t *testing.T) {
	e, st := testEntries(t)

	entry, err := e.Add("  阿莫西林一盒2027年6月  ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if entry.ID == 0 {
		t.Error("entry has no id")
	}
	if entry.Text != "阿莫西林一盒2027年6月" {
		t.Errorf("Text = %q, want trimmed text", entry.Text)
	}
	if entry.Timestamp == "" {
		t.Error("Timestamp is empty")
	}

	// Persisted immediately.
	if got := st.Load(); len(got) != 1 {
		t.Errorf("store holds %d entries, want 1", len(got))
	}
}

func TestEntriesAddEmpty(t *testing.T) {
	e, _ := testEntries(t)

	_, err := e.Add("   ")
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
	if e.Len() != 0 {
		t.Errorf("Len = %d, want 0", e.Len())
	}
}

func TestEntriesUpdate(t *testing.T) {
	e, _ := testEntries(t)

	entry, err := e.Add("阿莫西林")
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Update(entry.ID, "阿莫西林胶囊"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, ok := e.Get(entry.ID)
	if !ok {
		t.Fatal("entry vanished after update")
	}
	if got.Text != "阿莫西林胶囊" {
		t.Errorf("Text = %q, want updated text", got.Text)
	}
}

func TestEntriesUpdateNotFound(t *testing.T) {
	e, _ := testEntries(t)

	if err := e.Update(12345, "text"); err == nil {
		t.Error("expected error for unknown id, got nil")
	}
}

func TestEntriesDelete(t *testing.T) {
	e, _ := testEntries(t)

	entry, err := e.Add("泰诺")
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Delete(entry.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if e.Len() != 0 {
		t.Errorf("Len = %d, want 0", e.Len())
	}
	if err := e.Delete(entry.ID); err == nil {
		t.Error("second delete should fail")
	}
}

func TestEntriesClear(t *testing.T) {
	e, st := testEntries(t)

	for _, text := range []string{"布洛芬", "泰诺", "阿莫西林"} {
		if _, err := e.Add(text); err != nil {
			t.Fatal(err)
		}
	}

	if err := e.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if e.Len() != 0 {
		t.Errorf("Len = %d, want 0", e.Len())
	}
	if got := st.Load(); len(got) != 0 {
		t.Errorf("store holds %d entries after clear", len(got))
	}
}

func TestEntriesSurviveReload(t *testing.T) {
	st := store.New[types.Entry](filepath.Join(t.TempDir(), "entries.json"), testLogger())
	e := NewEntries(st, testLogger())

	first, err := e.Add("布洛芬")
	if err != nil {
		t.Fatal(err)
	}

	// A fresh service over the same store sees the entry, and new ids
	// never collide with persisted ones.
	e2 := NewEntries(st, testLogger())
	if e2.Len() != 1 {
		t.Fatalf("reloaded Len = %d, want 1", e2.Len())
	}
	second, err := e2.Add("泰诺")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID <= first.ID {
		t.Errorf("new id %d not greater than persisted id %d", second.ID, first.ID)
	}
}

func TestEntriesRows(t *testing.T) {
	e, _ := testEntries(t)

	for _, text := range []string{"oldest", "middle", "newest"} {
		if _, err := e.Add(text); err != nil {
			t.Fatal(err)
		}
	}

	rows := e.Rows()
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	// Newest first, numbered so the oldest entry is row 1.
	if rows[0].Text != "newest" || rows[0].Number != 3 {
		t.Errorf("rows[0] = %d %q, want 3 %q", rows[0].Number, rows[0].Text, "newest")
	}
	if rows[2].Text != "oldest" || rows[2].Number != 1 {
		t.Errorf("rows[2] = %d %q, want 1 %q", rows[2].Number, rows[2].Text, "oldest")
	}
}
