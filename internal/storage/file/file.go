// Package file implements the stores as whole-document JSON snapshots.
// Each entity type lives in one human-readable array-of-objects file that
// is fully reread and rewritten on every mutation. Every operation runs
// its load/mutate/replace cycle as one critical section under the store
// mutex, so a single writer at a time touches each collection.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// loadRecords reads the full collection from path. A missing or empty
// file is an empty collection, not an error. An unparseable file is also
// treated as empty, but the broken document is kept next to the original
// as a .corrupt sidecar so the bytes are never silently destroyed.
func loadRecords[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(data) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		quarantineCorrupt(path, err)
		return []T{}, nil
	}

	if records == nil {
		records = []T{}
	}

	return records, nil
}

// replaceRecords atomically overwrites the collection at path: the new
// document is written to a temp file in the same directory, synced, then
// renamed over the target.
func replaceRecords[T any](path string, records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write records: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync records: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

func quarantineCorrupt(path string, parseErr error) {
	sidecar := path + ".corrupt"
	if err := os.Rename(path, sidecar); err != nil {
		log.Error().Err(parseErr).Str("path", path).
			Msg("Storage file is corrupt and could not be quarantined, treating as empty")
		return
	}

	log.Error().Err(parseErr).Str("path", path).Str("quarantined", sidecar).
		Msg("Storage file is corrupt, starting from an empty collection")
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
