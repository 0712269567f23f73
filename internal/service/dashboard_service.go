package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/analytics"
	"github.com/spec-kit/ticket-dashboard/internal/cache"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/ingest"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// CodeNoRowsInterpreted marks an upload in which no row survived normalization.
const CodeNoRowsInterpreted = "NO_ROWS_INTERPRETED"

// DashboardService owns the current dataset and serves every view computed from it.
type DashboardService struct {
	mu      sync.RWMutex
	current *Dataset

	engine     *analytics.Engine
	normalizer *ingest.Normalizer
	loads      repository.LoadRepository
	cache      cache.DashboardCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger

	now   func() time.Time
	newID func() string
}

// DashboardDependencies encapsulates collaborators of the dashboard service.
type DashboardDependencies struct {
	Taxonomy   domain.Taxonomy
	Location   *time.Location
	Loads      repository.LoadRepository
	Cache      cache.DashboardCache
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewDashboardService builds the service. Missing cache and dispatcher
// fall back to no-op implementations.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	s := &DashboardService{
		engine:     analytics.NewEngine(deps.Taxonomy),
		normalizer: ingest.NewNormalizer(deps.Location),
		loads:      deps.Loads,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	if s.cache == nil {
		s.cache = cache.NewNoop()
	}
	if s.dispatcher == nil {
		s.dispatcher = events.NewInMemoryDispatcher(deps.Logger)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// LoadRequest carries an uploaded export.
type LoadRequest struct {
	Filename string
	LoadedBy string
	Body     io.Reader
}

// LoadResult summarizes an accepted upload.
type LoadResult struct {
	Dataset  DatasetInfo `json:"dataset"`
	Warnings []string    `json:"warnings"`
}

// Load parses and normalizes an export and, when at least one record
// survives, replaces the current dataset. A rejected upload leaves the
// previous dataset in place.
func (s *DashboardService) Load(ctx context.Context, req LoadRequest) (*LoadResult, error) {
	rows, err := ingest.ReadCSV(req.Body)
	if err != nil {
		s.reject(ctx, req, ingest.Batch{}, err)
		if errors.Is(err, ingest.ErrMissingHeader) || errors.Is(err, ingest.ErrMalformedCSV) {
			return nil, apperrors.NewValidationError("file is not a readable CSV export", map[string]any{"reason": err.Error()})
		}
		return nil, apperrors.NewInternalError(err)
	}

	batch, err := s.normalizer.Normalize(rows)
	if err != nil {
		s.reject(ctx, req, batch, err)
		if errors.Is(err, ingest.ErrNoRecords) {
			return nil, apperrors.NewUnprocessable(CodeNoRowsInterpreted, "no rows could be interpreted", map[string]any{
				"rows_read": batch.Rows,
				"skipped":   batch.Skipped,
				"excluded":  batch.Excluded,
			}, err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	dataset := &Dataset{
		ID:            s.newID(),
		Filename:      req.Filename,
		LoadedBy:      req.LoadedBy,
		LoadedAt:      s.now(),
		Records:       batch.Records,
		RowsRead:      batch.Rows,
		Skipped:       batch.Skipped,
		Excluded:      batch.Excluded,
		DefaultFilter: domain.FullRange(batch.Records),
	}

	s.mu.Lock()
	previous := s.current
	s.current = dataset
	s.mu.Unlock()

	s.metrics.RecordLoad(true, batch.Rows, batch.Skipped)
	s.recordLoad(ctx, &repository.LoadEntry{
		ID:        dataset.ID,
		Filename:  dataset.Filename,
		Status:    repository.LoadAccepted,
		RowsRead:  dataset.RowsRead,
		Records:   len(dataset.Records),
		Skipped:   dataset.Skipped,
		Excluded:  dataset.Excluded,
		FromMonth: dataset.DefaultFilter.FromMonth,
		ToMonth:   dataset.DefaultFilter.ToMonth,
		LoadedBy:  dataset.LoadedBy,
		LoadedAt:  dataset.LoadedAt,
	})

	payload := events.DatasetLoadedPayload{
		Filename:  dataset.Filename,
		RowsRead:  dataset.RowsRead,
		Records:   len(dataset.Records),
		Skipped:   dataset.Skipped,
		Excluded:  dataset.Excluded,
		FromMonth: dataset.DefaultFilter.FromMonth,
		ToMonth:   dataset.DefaultFilter.ToMonth,
	}
	if previous != nil {
		payload.PreviousID = previous.ID
	}
	s.publish(ctx, events.EventDatasetLoaded, dataset.ID, req.LoadedBy, payload)

	warnings := loadWarnings(batch)
	logFields := []zap.Field{
		zap.String("dataset_id", dataset.ID),
		zap.String("filename", dataset.Filename),
		zap.Int("rows_read", batch.Rows),
		zap.Int("records", len(batch.Records)),
		zap.Int("skipped", batch.Skipped),
		zap.Int("excluded", batch.Excluded),
	}
	if batch.Skipped > 0 {
		s.logger.Warn("dataset loaded with skipped rows", logFields...)
	} else {
		s.logger.Info("dataset loaded", logFields...)
	}

	return &LoadResult{Dataset: dataset.Info(), Warnings: warnings}, nil
}

func loadWarnings(batch ingest.Batch) []string {
	warnings := []string{}
	if batch.Skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d rows skipped: created date could not be interpreted", batch.Skipped))
	}
	if batch.Excluded > 0 {
		warnings = append(warnings, fmt.Sprintf("%d blocked or on-hold tickets excluded", batch.Excluded))
	}
	return warnings
}

func (s *DashboardService) reject(ctx context.Context, req LoadRequest, batch ingest.Batch, cause error) {
	s.metrics.RecordLoad(false, batch.Rows, batch.Skipped)
	s.logger.Warn("dataset rejected",
		zap.String("filename", req.Filename),
		zap.Int("rows_read", batch.Rows),
		zap.Int("skipped", batch.Skipped),
		zap.Int("excluded", batch.Excluded),
		zap.Error(cause),
	)
	s.recordLoad(ctx, &repository.LoadEntry{
		ID:       s.newID(),
		Filename: req.Filename,
		Status:   repository.LoadRejected,
		RowsRead: batch.Rows,
		Skipped:  batch.Skipped,
		Excluded: batch.Excluded,
		Error:    cause.Error(),
		LoadedBy: req.LoadedBy,
		LoadedAt: s.now(),
	})
	s.publish(ctx, events.EventDatasetRejected, "", req.LoadedBy, events.DatasetRejectedPayload{
		Filename: req.Filename,
		RowsRead: batch.Rows,
		Skipped:  batch.Skipped,
		Reason:   cause.Error(),
	})
}

func (s *DashboardService) recordLoad(ctx context.Context, entry *repository.LoadEntry) {
	if s.loads == nil {
		return
	}
	if err := s.loads.Create(ctx, entry); err != nil {
		s.logger.Error("failed to record load history", zap.String("load_id", entry.ID), zap.Error(err))
	}
}

func (s *DashboardService) publish(ctx context.Context, eventType events.EventType, datasetID, actor string, payload any) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		DatasetID: datasetID,
		Actor:     actor,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

// Current returns the loaded dataset or NO_DATASET.
func (s *DashboardService) Current() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperrors.NewNoDataset()
	}
	return s.current, nil
}

// Dashboard computes (or returns the memoized) dashboard for filter.
func (s *DashboardService) Dashboard(ctx context.Context, filter domain.Filter) (*analytics.Dashboard, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	dataset, err := s.Current()
	if err != nil {
		return nil, err
	}

	var dash analytics.Dashboard
	key := cache.DashboardKey(dataset.ID, filter)
	if s.lookup(ctx, key, &dash) {
		return &dash, nil
	}
	dash = s.engine.Dashboard(dataset.Records, filter)
	s.store(ctx, dataset.ID, key, dash)
	return &dash, nil
}

// Report computes (or returns the memoized) executive report over the
// records matching filter.
func (s *DashboardService) Report(ctx context.Context, filter domain.Filter) (*analytics.Report, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	dataset, err := s.Current()
	if err != nil {
		return nil, err
	}

	var report analytics.Report
	key := cache.ReportKey(dataset.ID, filter)
	if s.lookup(ctx, key, &report) {
		return &report, nil
	}
	report = s.engine.Report(analytics.Apply(dataset.Records, filter))
	s.store(ctx, dataset.ID, key, report)
	return &report, nil
}

// Records returns the tickets matching filter in ascending creation order.
func (s *DashboardService) Records(ctx context.Context, filter domain.Filter) ([]domain.Ticket, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	dataset, err := s.Current()
	if err != nil {
		return nil, err
	}

	var records []domain.Ticket
	key := cache.TicketsKey(dataset.ID, filter)
	if s.lookup(ctx, key, &records) {
		return records, nil
	}
	records = analytics.Apply(dataset.Records, filter)
	s.store(ctx, dataset.ID, key, records)
	return records, nil
}

// Options lists the filter values available for the current dataset.
func (s *DashboardService) Options(_ context.Context) (*FilterOptions, error) {
	dataset, err := s.Current()
	if err != nil {
		return nil, err
	}
	opts := dataset.options()
	return &opts, nil
}

// History returns recent upload attempts, newest first.
func (s *DashboardService) History(ctx context.Context, limit int) ([]repository.LoadEntry, error) {
	if s.loads == nil {
		return []repository.LoadEntry{}, nil
	}
	entries, err := s.loads.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if entries == nil {
		entries = []repository.LoadEntry{}
	}
	return entries, nil
}

// Taxonomy exposes the vocabularies in effect.
func (s *DashboardService) Taxonomy() domain.Taxonomy {
	return s.engine.Taxonomy()
}

func (s *DashboardService) lookup(ctx context.Context, key string, dst any) bool {
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		found = false
	}
	s.metrics.RecordCache(found)
	return found
}

// store memoizes value only while datasetID is still current. The read lock
// spans the write so a concurrent Load either swaps after it, and then evicts
// it, or is seen here and the write is skipped.
func (s *DashboardService) store(ctx context.Context, datasetID, key string, value any) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.ID != datasetID {
		s.logger.Debug("dashboard cache write skipped for replaced dataset", zap.String("key", key))
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func validateFilter(f domain.Filter) error {
	details := map[string]any{}
	if !domain.IsAny(f.FromMonth) {
		if _, _, ok := domain.ParseYearMonth(f.FromMonth); !ok {
			details["from"] = "must be YYYY-MM"
		}
	}
	if !domain.IsAny(f.ToMonth) {
		if _, _, ok := domain.ParseYearMonth(f.ToMonth); !ok {
			details["to"] = "must be YYYY-MM"
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid filter", details)
	}
	return nil
}
