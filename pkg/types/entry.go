// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the record models shared across the structuring
// pipeline: raw dictation entries, structured medicine records, their
// ordered collections, and the configuration passed into each stage.
package types

import (
	"fmt"
	"strings"
	"time"
)

// TimestampFormat is the creation-time format used on all persisted records.
const TimestampFormat = "2006-01-02 15:04:05"

// Entry is a raw free-form medicine description as dictated or typed by the
// user. Entries are immutable except through EntryList.Update.
type Entry struct {
	// ID uniquely identifies the entry. IDs are millisecond timestamps,
	// bumped on collision so they stay strictly increasing per collection.
	ID int64 `json:"id" yaml:"id"`

	// Text is the free-form description. Never empty.
	Text string `json:"text" yaml:"text"`

	// Timestamp is the creation time in TimestampFormat.
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// EntryRow is one display row for the capture layer: a 1-based display
// number plus the entry fields. Rows are a projection, never written back.
type EntryRow struct {
	Number    int
	Text      string
	Timestamp string
	ID        int64
}

// EntryList is an ordered collection of entries in chronological insertion
// order. The zero value is usable.
type EntryList struct {
	entries []Entry
	lastID  int64
}

// NewEntryList builds a collection from previously persisted entries,
// preserving their order and ids.
func NewEntryList(entries []Entry) *EntryList {
	l := &EntryList{entries: append([]Entry(nil), entries...)}
	for _, e := range entries {
		if e.ID > l.lastID {
			l.lastID = e.ID
		}
	}
	return l
}

// nextID returns the current millisecond timestamp, bumped past the last
// assigned id so rapid adds never collide.
func (l *EntryList) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// Add validates and appends a new entry, assigning its id and timestamp.
func (l *EntryList) Add(text string) (Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Entry{}, fmt.Errorf("%w: entry text is empty", ErrValidation)
	}
	e := Entry{
		ID:        l.nextID(),
		Text:      text,
		Timestamp: time.Now().Format(TimestampFormat),
	}
	l.entries = append(l.entries, e)
	return e, nil
}

// Get returns the entry with the given id.
func (l *EntryList) Get(id int64) (Entry, bool) {
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Update replaces the text of the entry with the given id. It reports
// whether the entry was found; empty replacement text is rejected.
func (l *EntryList) Update(id int64, text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, fmt.Errorf("%w: entry text is empty", ErrValidation)
	}
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Text = text
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the entry with the given id and reports whether it existed.
func (l *EntryList) Delete(id int64) bool {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes all entries.
func (l *EntryList) Clear() {
	l.entries = nil
}

// All returns a copy of the entries in insertion order.
func (l *EntryList) All() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Reversed returns a most-recent-first copy for display.
func (l *EntryList) Reversed() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len returns the number of entries.
func (l *EntryList) Len() int {
	return len(l.entries)
}

// Rows returns display rows, most recent first, numbered so the oldest
// entry is row 1.
func (l *EntryList) Rows() []EntryRow {
	total := len(l.entries)
	rows := make([]EntryRow, 0, total)
	for i, e := range l.Reversed() {
		rows = append(rows, EntryRow{
			Number:    total - i,
			Text:      e.Text,
			Timestamp: e.Timestamp,
			ID:        e.ID,
		})
	}
	return rows
}
