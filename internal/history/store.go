// Package history persists snapshots to a flat CSV file.
//
// The file is treated as an append-only log keyed by (Film ID, Snapshot
// Date): Append loads what exists, de-duplicates, and rewrites the whole
// table. There is no concurrent-writer protection; the design assumes one
// scrape run at a time owns the file.
package history

import (
	"errors"
	"fmt"
	"os"

	"github.com/jszwec/csvutil"

	"github.com/reelrank/reelrank/internal/model"
)

type recordKey struct {
	id   string
	date string
}

// Load reads the history file. A missing or empty file yields no records
// and no error.
func Load(path string) ([]model.FilmRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []model.FilmRecord
	if err := csvutil.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return records, nil
}

// Append merges records into the history file at path. Existing rows are
// loaded first and the combined set is de-duplicated by (Film ID,
// Snapshot Date) keeping the first occurrence, so appending the same
// snapshot twice is a no-op. The full table is rewritten.
func Append(records []model.FilmRecord, path string) error {
	existing, err := Load(path)
	if err != nil {
		return err
	}

	merged := dedupe(append(existing, records...))

	data, err := csvutil.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// dedupe keeps the first occurrence of each (Film ID, Snapshot Date)
// pair, preserving insertion order.
func dedupe(records []model.FilmRecord) []model.FilmRecord {
	seen := make(map[recordKey]struct{}, len(records))
	out := make([]model.FilmRecord, 0, len(records))
	for _, r := range records {
		k := recordKey{id: r.FilmID, date: r.SnapshotDate}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
