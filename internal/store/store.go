// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists record collections as pretty-printed JSON arrays,
// one file per collection. A store tolerates missing and corrupt files so
// a first run or a damaged disk never blocks data entry.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hliang/medshelf/pkg/types"
)

// JSONStore reads and writes one collection of records at a fixed path.
// Two independent instances exist in the pipeline (raw entries and
// structured medicines); they never share a path.
type JSONStore[T any] struct {
	path string
	log  *slog.Logger
}

// New returns a store for the given file path. The logger records load
// anomalies and is required; pass a discard logger to silence it.
func New[T any](path string, log *slog.Logger) *JSONStore[T] {
	return &JSONStore[T]{path: path, log: log}
}

// Path returns the file path this store owns.
func (s *JSONStore[T]) Path() string {
	return s.path
}

// Load reads the persisted collection. A missing file yields an empty
// sequence; malformed content is logged and also yields an empty sequence.
// Data loss on corruption is an accepted, logged operational risk.
func (s *JSONStore[T]) Load() []T {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		s.log.Error("store load failed", "path", s.path, "error", err)
		return nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Error("store file is corrupt, starting empty", "path", s.path, "error", err)
		return nil
	}
	return records
}

// Save writes the full collection atomically: the content is written to a
// temporary file in the same directory and renamed over the target, so a
// reader observes either the fully-old or fully-new file. Non-ASCII text
// is written as-is (UTF-8, no escaping).
func (s *JSONStore[T]) Save(records []T) error {
	if records == nil {
		records = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("%w: encoding %s: %v", types.ErrPersistence, s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", types.ErrPersistence, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %v", types.ErrPersistence, dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %v", types.ErrPersistence, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing %s: %v", types.ErrPersistence, tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing %s: %v", types.ErrPersistence, s.path, err)
	}
	return nil
}

// Clear replaces the file content with an empty array.
func (s *JSONStore[T]) Clear() error {
	s.log.Warn("store cleared", "path", s.path)
	return s.Save(nil)
}

// Exists reports whether the file exists on disk.
func (s *JSONStore[T]) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
