package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/migrations"
)

func newSQLiteRepo(t *testing.T) LoadRepository {
	t.Helper()
	logger := zap.NewNop()
	store, err := persistence.NewSQLite(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "loads.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, persistence.RunMigrations(context.Background(), store, migrations.FS, "sqlite", logger))
	return NewSQLiteLoadRepository(store.DB)
}

func TestSQLiteLoadRepositoryListsNewestFirst(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	first := &LoadEntry{
		ID: uuid.NewString(), Filename: "feb.csv", Status: LoadAccepted,
		RowsRead: 120, Records: 118, Skipped: 1, Excluded: 1,
		FromMonth: "2025-01", ToMonth: "2025-02", LoadedBy: "admin", LoadedAt: base,
	}
	second := &LoadEntry{
		ID: uuid.NewString(), Filename: "broken.csv", Status: LoadRejected,
		RowsRead: 4, Skipped: 4, Error: "no rows could be interpreted", LoadedBy: "admin",
		LoadedAt: base.Add(90 * time.Minute),
	}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	entries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, second.ID, entries[0].ID)
	require.Equal(t, LoadRejected, entries[0].Status)
	require.Equal(t, "no rows could be interpreted", entries[0].Error)
	require.True(t, second.LoadedAt.Equal(entries[0].LoadedAt))

	require.Equal(t, first.ID, entries[1].ID)
	require.Equal(t, 118, entries[1].Records)
	require.Equal(t, "2025-01", entries[1].FromMonth)
	require.Equal(t, "2025-02", entries[1].ToMonth)
}

func TestSQLiteLoadRepositoryRespectsLimit(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &LoadEntry{
			ID: uuid.NewString(), Filename: "export.csv", Status: LoadAccepted,
			LoadedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	entries, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.True(t, entries[0].LoadedAt.After(entries[1].LoadedAt))
}

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, defaultListLimit, normalizeLimit(0))
	require.Equal(t, defaultListLimit, normalizeLimit(-3))
	require.Equal(t, defaultListLimit, normalizeLimit(10000))
	require.Equal(t, 7, normalizeLimit(7))
}
