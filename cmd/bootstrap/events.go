package bootstrap

import (
	"context"

	"kardus/internal/infra/events"

	"go.uber.org/fx"
)

// EventsModule owns the database change feed: the fan-out bus plus the
// LISTEN/NOTIFY listener feeding it.
var EventsModule = fx.Module("events",
	fx.Provide(
		events.NewFanOut,
		events.NewListener,
	),
	fx.Invoke(StartListener),
)

func StartListener(lc fx.Lifecycle, listener *events.Listener) {
	lc.Append(fx.Hook{
		// The hook context is cancelled once startup finishes; the listener
		// must outlive it.
		OnStart: func(_ context.Context) error {
			return listener.Start(context.Background())
		},
		OnStop: func(_ context.Context) error {
			listener.Stop()
			return nil
		},
	})
}
