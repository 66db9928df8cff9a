package bootstrap

import (
	"context"
	"log/slog"

	"kardus/internal/pkg/clock"
	"kardus/internal/usecase/shared"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// CronModule runs background maintenance. Currently that is only the
// hourly sweep of expired idempotency keys.
var CronModule = fx.Module("cron",
	fx.Invoke(StartCron),
)

func StartCron(lc fx.Lifecycle, uow shared.UnitOfWork, clk clock.Clock) error {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		ctx := context.Background()
		err := uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			deleted, err := tx.Idempotency().DeleteExpired(ctx, tx.DB(), clk.Now())
			if err != nil {
				return err
			}
			if deleted > 0 {
				slog.Info("pruned expired idempotency keys", "deleted", deleted)
			}
			return nil
		})
		if err != nil {
			slog.Error("idempotency key sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			<-c.Stop().Done()
			return nil
		},
	})

	return nil
}
