// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package medicine

import (
	"fmt"
	"log/slog"

	"github.com/hliang/medshelf/internal/store"
	"github.com/hliang/medshelf/pkg/types"
)

// Entries manages the raw-entry collection. Every mutation is persisted
// immediately; no in-memory-only state survives a restart. A persistence
// failure is reported to the caller while the in-memory change stands, so
// the caller can warn the user that disk and memory have diverged.
type Entries struct {
	store *store.JSONStore[types.Entry]
	list  *types.EntryList
	log   *slog.Logger
}

// NewEntries builds the entry service and loads the persisted collection.
func NewEntries(st *store.JSONStore[types.Entry], log *slog.Logger) *Entries {
	return &Entries{
		store: st,
		list:  types.NewEntryList(st.Load()),
		log:   log,
	}
}

// Add validates, appends, and persists a new entry.
func (e *Entries) Add(text string) (types.Entry, error) {
	entry, err := e.list.Add(text)
	if err != nil {
		return types.Entry{}, err
	}
	if err := e.save(); err != nil {
		return entry, err
	}
	e.log.Info("entry added", "id", entry.ID)
	return entry, nil
}

// Update replaces the text of an existing entry and persists the change.
func (e *Entries) Update(id int64, text string) error {
	found, err := e.list.Update(id, text)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("entry %d not found", id)
	}
	return e.save()
}

// Delete removes an entry and persists the change.
func (e *Entries) Delete(id int64) error {
	if !e.list.Delete(id) {
		return fmt.Errorf("entry %d not found", id)
	}
	e.log.Info("entry deleted", "id", id)
	return e.save()
}

// Clear removes all entries and persists the empty collection.
func (e *Entries) Clear() error {
	count := e.list.Len()
	e.list.Clear()
	e.log.Warn("all entries cleared", "count", count)
	return e.save()
}

// Get returns the entry with the given id.
func (e *Entries) Get(id int64) (types.Entry, bool) {
	return e.list.Get(id)
}

// All returns the entries in insertion order.
func (e *Entries) All() []types.Entry {
	return e.list.All()
}

// Rows returns display rows, most recent first.
func (e *Entries) Rows() []types.EntryRow {
	return e.list.Rows()
}

// Len returns the number of entries.
func (e *Entries) Len() int {
	return e.list.Len()
}

// Reload discards the in-memory collection and reads the store again.
func (e *Entries) Reload() {
	e.list = types.NewEntryList(e.store.Load())
}

func (e *Entries) save() error {
	if err := e.store.Save(e.list.All()); err != nil {
		e.log.Error("saving entries failed", "error", err)
		return err
	}
	return nil
}
