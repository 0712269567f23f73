package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/analytics"
	"github.com/spec-kit/ticket-dashboard/internal/cache"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	"github.com/spec-kit/ticket-dashboard/internal/repository/mocks"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

const januaryExport = `Creada,Clave de incidencia,Estado,Persona asignada,Organizations,Time to first response,Satisfaction
19/ene/26 12:47 PM,SUP-1,Open,Ana,Acme,-1:00,4
20/ene/26 09:00 AM,SUP-2,Closed,Luis,Globex,0:30,5
15/ene/26 08:00 AM,SUP-3,Block,Ana,Acme,,
22/dic/25 10:15 AM,SUP-0,Done,Ana,Acme,2:00,
no date,SUP-9,Open,Ana,Acme,,
`

type harness struct {
	svc        *DashboardService
	loads      *mocks.LoadRepository
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
	published  []events.Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithCache(t, cache.NewMemory(64, time.Minute))
}

func newHarnessWithCache(t *testing.T, dashboards cache.DashboardCache) *harness {
	t.Helper()
	h := &harness{
		loads:      &mocks.LoadRepository{},
		metrics:    observability.NewMetrics(),
		dispatcher: events.NewInMemoryDispatcher(nil),
	}
	record := func(_ context.Context, e events.Event) error {
		h.published = append(h.published, e)
		return nil
	}
	h.dispatcher.Subscribe(events.EventDatasetLoaded, record)
	h.dispatcher.Subscribe(events.EventDatasetRejected, record)

	h.svc = NewDashboardService(DashboardDependencies{
		Taxonomy:   domain.DefaultTaxonomy(),
		Location:   time.UTC,
		Loads:      h.loads,
		Cache:      dashboards,
		Dispatcher: h.dispatcher,
		Metrics:    h.metrics,
		Logger:     zap.NewNop(),
	})
	ids := 0
	h.svc.newID = func() string {
		ids++
		return fmt.Sprintf("id-%d", ids)
	}
	h.svc.now = func() time.Time { return time.Date(2026, 1, 25, 8, 0, 0, 0, time.UTC) }
	return h
}

func (h *harness) load(t *testing.T, body string) (*LoadResult, error) {
	t.Helper()
	return h.svc.Load(context.Background(), LoadRequest{Filename: "export.csv", LoadedBy: "admin", Body: strings.NewReader(body)})
}

func TestLoadAcceptsExport(t *testing.T) {
	h := newHarness(t)
	h.loads.On("Create", mock.Anything, mock.MatchedBy(func(e *repository.LoadEntry) bool {
		return e.Status == repository.LoadAccepted && e.Records == 3 && e.Skipped == 1 && e.Excluded == 1
	})).Return(nil).Once()

	res, err := h.load(t, januaryExport)
	require.NoError(t, err)
	h.loads.AssertExpectations(t)

	require.Equal(t, "id-1", res.Dataset.ID)
	require.Equal(t, 5, res.Dataset.RowsRead)
	require.Equal(t, 3, res.Dataset.Records)
	require.Equal(t, 1, res.Dataset.Skipped)
	require.Equal(t, 1, res.Dataset.Excluded)
	require.Equal(t, domain.Filter{FromMonth: "2025-12", ToMonth: "2026-01"}, res.Dataset.DefaultFilter)
	require.Len(t, res.Warnings, 2)
	require.Contains(t, res.Warnings[0], "1 rows skipped")

	require.Len(t, h.published, 1)
	require.Equal(t, events.EventDatasetLoaded, h.published[0].Type)
	require.Empty(t, h.published[0].Payload.(events.DatasetLoadedPayload).PreviousID)

	snap := h.metrics.Snapshot()
	require.Equal(t, int64(1), snap.Loads.Accepted)
	require.Equal(t, int64(1), snap.Loads.RowsSkipped)
}

func TestLoadRejectsWhenNoRowSurvives(t *testing.T) {
	h := newHarness(t)
	h.loads.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := h.load(t, januaryExport)
	require.NoError(t, err)

	_, err = h.load(t, "Creada,Estado\nbad,Open\n15/ene/26 08:00 AM,On Hold\n")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, CodeNoRowsInterpreted, domainErr.Code)
	require.Equal(t, 422, domainErr.HTTPStatus)
	require.Equal(t, 1, domainErr.Details["skipped"])
	require.Equal(t, 1, domainErr.Details["excluded"])

	current, err := h.svc.Current()
	require.NoError(t, err)
	require.Equal(t, "id-1", current.ID, "previous dataset stays in place")

	last := h.published[len(h.published)-1]
	require.Equal(t, events.EventDatasetRejected, last.Type)
	require.Equal(t, int64(1), h.metrics.Snapshot().Loads.Rejected)
}

func TestLoadRejectsMalformedCSV(t *testing.T) {
	h := newHarness(t)
	h.loads.On("Create", mock.Anything, mock.MatchedBy(func(e *repository.LoadEntry) bool {
		return e.Status == repository.LoadRejected
	})).Return(nil).Once()

	_, err := h.load(t, "")
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	h.loads.AssertExpectations(t)
}

func TestLoadSurvivesHistoryFailure(t *testing.T) {
	h := newHarness(t)
	h.loads.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	res, err := h.load(t, januaryExport)
	require.NoError(t, err)
	require.Equal(t, 3, res.Dataset.Records)
}

func TestSecondLoadReportsPreviousDataset(t *testing.T) {
	h := newHarness(t)
	h.loads.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := h.load(t, januaryExport)
	require.NoError(t, err)
	_, err = h.load(t, januaryExport)
	require.NoError(t, err)

	payload := h.published[1].Payload.(events.DatasetLoadedPayload)
	require.Equal(t, "id-1", payload.PreviousID)
}

func TestViewsRequireDataset(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Dashboard(ctx, domain.Filter{})
	require.Equal(t, "NO_DATASET", apperrors.ToDomainError(err).Code)
	_, err = h.svc.Report(ctx, domain.Filter{})
	require.Equal(t, "NO_DATASET", apperrors.ToDomainError(err).Code)
	_, err = h.svc.Records(ctx, domain.Filter{})
	require.Equal(t, "NO_DATASET", apperrors.ToDomainError(err).Code)
	_, err = h.svc.Options(ctx)
	require.Equal(t, "NO_DATASET", apperrors.ToDomainError(err).Code)
}

func TestDashboardIsMemoizedPerFilter(t *testing.T) {
	h := newHarness(t)
	h.loads.On("Create", mock.Anything, mock.Anything).Return(nil)
	_, err := h.load(t, januaryExport)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := h.svc.Dashboard(ctx, domain.Filter{Organization: "Acme"})
	require.NoError(t, err)
	require.Equal(t, 2, first.KPIs.Total)

	second, err := h.svc.Dashboard(ctx, domain.Filter{Organization: "Acme", Status: "all"})
	require.NoError(t, err)
	require.Equal(t, first.KPIs, second.KPIs)

	all, err := h.svc.Dashboard(ctx, domain.Filter{})
	require.NoError(t, err)
	require.Equal(t, 3, all.KPIs.Total)
	require.Equal(t, 1, all.KPIs.Breached)

	snap := h.metrics.Snapshot()
	require.Equal(t, int64(1), snap.Loads.CacheHits)
	require.Equal(t, int64(2), snap.Loads.CacheMisses)
}

func TestDashboardMemoDistinguishesValuesContainingSeparators(t *testing.T) {
	h := newHarness(t)
	h.loads.On("Create", mock.Anything, mock.Anything).Return(nil)
	_, err := h.load(t, `Creada,Clave de incidencia,Estado,Persona asignada,Organizations
19/ene/26 12:47 PM,SUP-1,Open,c,a|b
20/ene/26 09:00 AM,SUP-2,Open,b|c,x
`)
	require.NoError(t, err)
	ctx := context.Background()

	hit, err := h.svc.Dashboard(ctx, domain.Filter{Organization: "a|b", Assignee: "c"})
	require.NoError(t, err)
	require.Equal(t, 1, hit.KPIs.Total)

	miss, err := h.svc.Dashboard(ctx, domain.Filter{Organization: "a", Assignee: "b|c"})
	require.NoError(t, err)
	require.Equal(t, 0, miss.KPIs.Total)
	require.Equal(t, int64(0), h.metrics.Snapshot().Loads.CacheHits)
}

// reloadingCache swaps the dataset from inside the first lookup, the way a
// Load racing with an in-flight view would.
type reloadingCache struct {
	cache.DashboardCache
	reload func()
	once   sync.Once
}

func (c *reloadingCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.once.Do(c.reload)
	return c.DashboardCache.Get(ctx, key, dst)
}

func TestViewDoesNotMemoizeReplacedDataset(t *testing.T) {
	backing := cache.NewMemory(64, time.Minute)
	racing := &reloadingCache{DashboardCache: backing}
	h := newHarnessWithCache(t, racing)
	h.loads.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := h.load(t, januaryExport)
	require.NoError(t, err)

	racing.reload = func() {
		_, err := h.load(t, januaryExport)
		require.NoError(t, err)
	}
	ctx := context.Background()

	dash, err := h.svc.Dashboard(ctx, domain.Filter{})
	require.NoError(t, err)
	require.Equal(t, 3, dash.KPIs.Total)

	current, err := h.svc.Current()
	require.NoError(t, err)
	require.Equal(t, "id-2", current.ID)

	var stale analytics.Dashboard
	found, err := backing.Get(ctx, cache.DashboardKey("id-1", domain.Filter{}), &stale)
	require.NoError(t, err)
	require.False(t, found)

	_, err = h.svc.Dashboard(ctx, domain.Filter{})
	require.NoError(t, err)
	found, err = backing.Get(ctx, cache.DashboardKey("id-2", domain.Filter{}), &stale)
	require.NoError(t, err)
	require.True(t, found)
}

func TestDashboardRejectsBadMonthBounds(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Dashboard(context.Background(), domain.Filter{FromMonth: "2025-13"})
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	require.Contains(t, domainErr.Details, "from")
}

func TestRecordsAndReport(t *testing.T) {
	h := newHarness(t)
	h.loads.On("Create", mock.Anything, mock.Anything).Return(nil)
	_, err := h.load(t, januaryExport)
	require.NoError(t, err)
	ctx := context.Background()

	records, err := h.svc.Records(ctx, domain.Filter{FromMonth: "2026-01", ToMonth: "2026-01"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "SUP-1", records[0].Key)

	report, err := h.svc.Report(ctx, domain.Filter{})
	require.NoError(t, err)
	require.NotNil(t, report.CurrentMonth)
	require.Equal(t, "2026-01", report.CurrentMonth.Key)
	require.NotNil(t, report.PreviousMonth)
	require.Equal(t, "2025-12", report.PreviousMonth.Key)
	require.Equal(t, 2, report.Current.Tickets)
}

func TestOptionsListDistinctValues(t *testing.T) {
	h := newHarness(t)
	h.loads.On("Create", mock.Anything, mock.Anything).Return(nil)
	_, err := h.load(t, januaryExport)
	require.NoError(t, err)

	opts, err := h.svc.Options(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"2025-12", "2026-01"}, opts.Months)
	require.Equal(t, []string{"Acme", "Globex"}, opts.Organizations)
	require.Equal(t, []string{"Ana", "Luis"}, opts.Assignees)
	require.Equal(t, []string{"Closed", "Done", "Open"}, opts.Statuses)
	require.Equal(t, "id-1", opts.Dataset.ID)
}

func TestHistory(t *testing.T) {
	h := newHarness(t)
	entries := []repository.LoadEntry{{ID: "a", Status: repository.LoadAccepted}}
	h.loads.On("ListRecent", mock.Anything, 5).Return(entries, nil).Once()
	h.loads.On("ListRecent", mock.Anything, 10).Return(nil, errors.New("db down")).Once()

	got, err := h.svc.History(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, entries, got)

	_, err = h.svc.History(context.Background(), 10)
	require.Equal(t, "INTERNAL_ERROR", apperrors.ToDomainError(err).Code)
}
