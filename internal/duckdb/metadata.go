package duckdb

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// ExportInfo describes the gene list an export was built from.
type ExportInfo struct {
	Source     FileFingerprint
	ExportedAt time.Time
}

// WriteExportInfo records the source gene list of the current export,
// replacing any earlier entry.
func (s *Store) WriteExportInfo(ctx context.Context, src FileFingerprint, exportedAt time.Time) error {
	entries := []struct{ key, val string }{
		{"source_path", src.Path},
		{"source_size", strconv.FormatInt(src.Size, 10)},
		{"source_modtime", src.ModTime.UTC().Format(time.RFC3339Nano)},
		{"exported_at", exportedAt.UTC().Format(time.RFC3339)},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export info: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM export_meta"); err != nil {
		return fmt.Errorf("clear export info: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, "INSERT INTO export_meta (name, value) VALUES (?, ?)", e.key, e.val); err != nil {
			return fmt.Errorf("write export info %s: %w", e.key, err)
		}
	}
	return tx.Commit()
}

// ReadExportInfo returns the recorded export info, or nil if none was written.
func (s *Store) ReadExportInfo(ctx context.Context) (*ExportInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, value FROM export_meta")
	if err != nil {
		return nil, fmt.Errorf("query export info: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan export info: %w", err)
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export info: %w", err)
	}
	if len(meta) == 0 {
		return nil, nil
	}

	info := &ExportInfo{Source: FileFingerprint{Path: meta["source_path"]}}
	if info.Source.Size, err = strconv.ParseInt(meta["source_size"], 10, 64); err != nil {
		return nil, fmt.Errorf("parse source_size: %w", err)
	}
	if info.Source.ModTime, err = time.Parse(time.RFC3339Nano, meta["source_modtime"]); err != nil {
		return nil, fmt.Errorf("parse source_modtime: %w", err)
	}
	if info.ExportedAt, err = time.Parse(time.RFC3339, meta["exported_at"]); err != nil {
		return nil, fmt.Errorf("parse exported_at: %w", err)
	}
	return info, nil
}

// Matches reports whether the export was built from a file with the same
// size and modification time as fp.
func (e *ExportInfo) Matches(fp FileFingerprint) bool {
	if e == nil {
		return false
	}
	return e.Source.Size == fp.Size && e.Source.ModTime.Equal(fp.ModTime)
}
