package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_CACHE_TTL_SECONDS", "60")
	t.Setenv("APP_MAX_UPLOAD_MB", "not-a-number")
	t.Setenv("CACHE_MEMORY_MAX_ENTRIES", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	require.Equal(t, 25<<20, cfg.App.MaxUploadBytes())
	require.Equal(t, time.Minute, cfg.Redis.CacheTTL())
	require.Empty(t, cfg.Redis.Addr)
	require.Equal(t, 256, cfg.Cache.MemoryMaxEntries)
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	_, err := Load()
	require.Error(t, err)
}

func TestAnalyticsLocation(t *testing.T) {
	loc, err := AnalyticsConfig{}.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)

	loc, err = AnalyticsConfig{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	require.Equal(t, "UTC", loc.String())

	_, err = AnalyticsConfig{Timezone: "Nowhere/Never"}.Location()
	require.Error(t, err)
}

func TestParseTaxonomy(t *testing.T) {
	doc := []byte(`
closed_statuses: [shipped, "done"]
team_sizes:
  - from: "2026-01"
    size: 4
`)
	tax, err := ParseTaxonomy(doc)
	require.NoError(t, err)
	require.Equal(t, []string{"shipped", "done"}, tax.ClosedStatuses)
	require.Equal(t, domain.DefaultCanceledStatuses, tax.CanceledStatuses)

	size, ok := tax.TeamSizes.Lookup("2026-03")
	require.True(t, ok)
	require.Equal(t, 4, size)
	_, ok = tax.TeamSizes.Lookup("2025-07")
	require.False(t, ok)
}

func TestParseTaxonomyRejectsBadMonths(t *testing.T) {
	_, err := ParseTaxonomy([]byte("team_sizes:\n  - from: July\n    size: 3\n"))
	require.Error(t, err)
}

func TestLoadTaxonomyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canceled_statuses: [void]\n"), 0o600))

	tax, err := AnalyticsConfig{TaxonomyPath: path}.LoadTaxonomy()
	require.NoError(t, err)
	require.True(t, tax.IsCanceled("VOID"))
	require.True(t, tax.IsClosed("done"))

	tax, err = AnalyticsConfig{}.LoadTaxonomy()
	require.NoError(t, err)
	require.Equal(t, domain.DefaultTaxonomy(), tax)
}
