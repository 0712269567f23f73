package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgLoadRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLoadRepository instantiates the pgx-backed repository.
func NewPostgresLoadRepository(pool *pgxpool.Pool) LoadRepository {
	return &pgLoadRepository{pool: pool}
}

func (r *pgLoadRepository) Create(ctx context.Context, entry *LoadEntry) error {
	const query = `
        INSERT INTO dataset_loads (id, filename, status, rows_read, records, skipped, excluded, from_month, to_month, error, loaded_by, loaded_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.pool.Exec(ctx, query,
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
		entry.LoadedAt,
	)
	return err
}

func (r *pgLoadRepository) ListRecent(ctx context.Context, limit int) ([]LoadEntry, error) {
	const query = `
        SELECT id::text, filename, status, rows_read, records, skipped, excluded, from_month, to_month, error, loaded_by, loaded_at
        FROM dataset_loads
        ORDER BY loaded_at DESC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LoadEntry
	for rows.Next() {
		var (
			e      LoadEntry
			status string
		)
		if err := rows.Scan(&e.ID, &e.Filename, &status, &e.RowsRead, &e.Records, &e.Skipped, &e.Excluded,
			&e.FromMonth, &e.ToMonth, &e.Error, &e.LoadedBy, &e.LoadedAt); err != nil {
			return nil, err
		}
		e.Status = LoadStatus(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
