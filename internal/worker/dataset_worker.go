package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/cache"
	"github.com/spec-kit/ticket-dashboard/internal/events"
)

// StartDatasetWorker registers the handlers reacting to dataset lifecycle
// events: cache eviction for replaced datasets and an audit log line.
func StartDatasetWorker(dispatcher events.Dispatcher, dashboards cache.DashboardCache, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventDatasetLoaded, evictPrevious(dashboards))
	dispatcher.Subscribe(events.EventDatasetLoaded, audit(logger))
	dispatcher.Subscribe(events.EventDatasetRejected, audit(logger))
}

func evictPrevious(dashboards cache.DashboardCache) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		if dashboards == nil {
			return nil
		}
		payload, ok := event.Payload.(events.DatasetLoadedPayload)
		if !ok || payload.PreviousID == "" {
			return nil
		}
		return dashboards.Invalidate(ctx, payload.PreviousID)
	}
}

func audit(logger *zap.Logger) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("actor", event.Actor),
		}
		switch p := event.Payload.(type) {
		case events.DatasetLoadedPayload:
			fields = append(fields,
				zap.String("dataset_id", event.DatasetID),
				zap.String("filename", p.Filename),
				zap.Int("records", p.Records),
				zap.Int("skipped", p.Skipped),
				zap.Int("excluded", p.Excluded),
				zap.String("from_month", p.FromMonth),
				zap.String("to_month", p.ToMonth),
			)
		case events.DatasetRejectedPayload:
			fields = append(fields,
				zap.String("filename", p.Filename),
				zap.Int("rows_read", p.RowsRead),
				zap.Int("skipped", p.Skipped),
				zap.String("reason", p.Reason),
			)
		}
		logger.Info("dataset event", fields...)
		return nil
	}
}
