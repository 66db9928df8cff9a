package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"kardus/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

const notifyChannel = "kardus_changes"

// Listener holds one dedicated connection on LISTEN and republishes each
// notification through the fan-out. Postgres delivers notifications in
// commit order per channel, so per-entity ordering follows from the
// single consuming goroutine.
type Listener struct {
	pool   *pgxpool.Pool
	fanOut *FanOut

	cancel context.CancelFunc
	done   chan struct{}
}

func NewListener(pool *pgxpool.Pool, fanOut *FanOut) *Listener {
	return &Listener{
		pool:   pool,
		fanOut: fanOut,
	}
}

// Start launches the listen loop. Notifications raised while the
// connection is being re-established are lost; subscribers needing a
// complete view must reconcile from the tables on reconnect.
func (l *Listener) Start(ctx context.Context) error {
	if l.done != nil {
		return errs.New("listener already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.run(ctx)
	return nil
}

// Stop terminates the loop and waits for it to exit.
func (l *Listener) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.done)

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}

		slog.Error("change feed connection lost, reconnecting",
			"wait", backoff.String(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to acquire listen connection")
	}
	// Hijack removes the connection from the pool so LISTEN state cannot
	// leak to other borrowers.
	raw := conn.Hijack()
	defer raw.Close(context.Background())

	if _, err := raw.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return errs.Wrap(err, "failed to LISTEN on change channel")
	}

	slog.Info("change feed listening", "channel", notifyChannel)

	for {
		notification, err := raw.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return errs.Wrap(err, "failed waiting for notification")
		}

		var ev Event
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			slog.Warn("dropping malformed change payload", "error", err.Error())
			continue
		}
		if ev.OccurredAt.IsZero() {
			ev.OccurredAt = time.Now()
		}

		l.fanOut.Publish(ev)
	}
}
