package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"plugpack/internal/versions"
)

// Entry is one recorded archive.
type Entry struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"run_id"`
	Scope       string    `json:"scope"`
	Plugin      string    `json:"plugin"`
	Version     string    `json:"version"`
	ArchivePath string    `json:"archive_path"`
	Size        int64     `json:"size_bytes"`
	SHA256      string    `json:"sha256"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter narrows List results.
type Filter struct {
	Plugin string
	RunID  string
	// Limit caps the number of entries returned; zero means no limit.
	Limit int
}

const entryColumns = "id, run_id, scope, plugin, version, archive_path, size_bytes, sha256, created_at"

// Record inserts an archive entry. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, entry Entry) (*Entry, error) {
	if strings.TrimSpace(entry.Plugin) == "" {
		return nil, errors.New("history entry requires a plugin")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	res, err := s.exec(ctx,
		`INSERT INTO archives (
            run_id, scope, plugin, version, archive_path, size_bytes, sha256, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Scope,
		entry.Plugin,
		entry.Version,
		entry.ArchivePath,
		entry.Size,
		entry.SHA256,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert archive: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return &entry, nil
}

// List returns entries grouped by plugin name, newest version first within a
// plugin. Versions are compared numerically, so 1.10.0 sorts above 1.9.0.
func (s *Store) List(ctx context.Context, filter Filter) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM archives`
	var (
		clauses []string
		args    []any
	)
	if filter.Plugin != "" {
		clauses = append(clauses, "plugin = ?")
		args = append(args, filter.Plugin)
	}
	if filter.RunID != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	var entries []Entry
	err := withBusyRetry(ctx, func() error {
		entries = entries[:0]
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			entry, err := scanEntry(rows)
			if err != nil {
				return err
			}
			entries = append(entries, *entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}

	sortEntries(entries)
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	return entries, nil
}

// Latest returns the highest recorded version of plugin in scope, or nil when
// nothing was recorded. An empty scope matches every scope.
func (s *Store) Latest(ctx context.Context, plugin, scope string) (*Entry, error) {
	entries, err := s.List(ctx, Filter{Plugin: plugin})
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if scope == "" || strings.EqualFold(entries[i].Scope, scope) {
			return &entries[i], nil
		}
	}
	return nil, nil
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Plugin != b.Plugin {
			return a.Plugin < b.Plugin
		}
		if cmp := compareVersions(a.Version, b.Version); cmp != 0 {
			return cmp > 0
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func compareVersions(a, b string) int {
	va, errA := versions.ParseVersion(a)
	vb, errB := versions.ParseVersion(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		entry      Entry
		createdRaw sql.NullString
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.Scope,
		&entry.Plugin,
		&entry.Version,
		&entry.ArchivePath,
		&entry.Size,
		&entry.SHA256,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw.String); err == nil {
		entry.CreatedAt = created
	}
	return &entry, nil
}
