package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Fixed width so lexical order matches chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type sqliteLoadRepository struct {
	db *sql.DB
}

// NewSQLiteLoadRepository instantiates the database/sql repository used
// with the local SQLite store.
func NewSQLiteLoadRepository(db *sql.DB) LoadRepository {
	return &sqliteLoadRepository{db: db}
}

func (r *sqliteLoadRepository) Create(ctx context.Context, entry *LoadEntry) error {
	const query = `
        INSERT INTO dataset_loads (id, filename, status, rows_read, records, skipped, excluded, from_month, to_month, error, loaded_by, loaded_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Filename,
		string(entry.Status),
		entry.RowsRead,
		entry.Records,
		entry.Skipped,
		entry.Excluded,
		entry.FromMonth,
		entry.ToMonth,
		entry.Error,
		entry.LoadedBy,
		entry.LoadedAt.UTC().Format(sqliteTimeLayout),
	)
	return err
}

func (r *sqliteLoadRepository) ListRecent(ctx context.Context, limit int) ([]LoadEntry, error) {
	const query = `
        SELECT id, filename, status, rows_read, records, skipped, excluded, from_month, to_month, error, loaded_by, loaded_at
        FROM dataset_loads
        ORDER BY loaded_at DESC
        LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LoadEntry
	for rows.Next() {
		var (
			e              LoadEntry
			status, loaded string
		)
		if err := rows.Scan(&e.ID, &e.Filename, &status, &e.RowsRead, &e.Records, &e.Skipped, &e.Excluded,
			&e.FromMonth, &e.ToMonth, &e.Error, &e.LoadedBy, &loaded); err != nil {
			return nil, err
		}
		e.Status = LoadStatus(status)
		e.LoadedAt, err = time.Parse(sqliteTimeLayout, loaded)
		if err != nil {
			return nil, fmt.Errorf("parse loaded_at %q: %w", loaded, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
