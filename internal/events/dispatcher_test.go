package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishRunsHandlersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var calls []string
	d.Subscribe(EventDatasetLoaded, func(context.Context, Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe(EventDatasetLoaded, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventDatasetRejected, func(context.Context, Event) error {
		calls = append(calls, "rejected")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventDatasetLoaded}))
	require.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))
	reached := false
	d.Subscribe(EventDatasetRejected, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventDatasetRejected, func(context.Context, Event) error {
		reached = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{ID: "e-1", Type: EventDatasetRejected}))
	require.True(t, reached)
	require.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}
