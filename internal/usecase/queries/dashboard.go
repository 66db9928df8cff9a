package queries

import (
	"context"
	"time"

	"kardus/internal/domain/actor"
	"kardus/internal/infra/db"
	"kardus/internal/pkg/clock"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

// CollectorCounters is one consistent row of collector workload numbers.
type CollectorCounters struct {
	ScheduledPickups   int64
	CompletedThisMonth int64
	CompletedToday     int64
	SpentThisMonth     int64
	UniqueCustomers    int64
}

type DashboardReadStore interface {
	CollectorCounters(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID, monthStart, dayStart time.Time) (CollectorCounters, error)
	CountPendingSubmissions(ctx context.Context, dbtx db.DBTX) (int64, error)
	InventoryByMaterial(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID) (map[string]float64, float64, error)
	UpcomingPickups(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID, limit int32) ([]*SubmissionListItem, error)
	CustomerCounters(ctx context.Context, dbtx db.DBTX, customerID uuid.UUID) (active, completed, totalEarned int64, totalWeight float64, err error)
}

type DashboardQueries interface {
	// Collector builds the snapshot inside one read-only transaction, so
	// every number reflects the same instant even while settlements land
	// concurrently.
	Collector(ctx context.Context, act actor.Actor) (*CollectorDashboard, error)
	Customer(ctx context.Context, act actor.Actor) (*CustomerDashboard, error)
}

type dashboardQueriesImpl struct {
	uow           shared.UnitOfWork
	store         DashboardReadStore
	transactions  TransactionReadStore
	submissions   SubmissionReadStore
	notifications NotificationReadStore
	clock         clock.Clock
}

func NewDashboardQueries(
	uow shared.UnitOfWork,
	store DashboardReadStore,
	transactions TransactionReadStore,
	submissions SubmissionReadStore,
	notifications NotificationReadStore,
	clk clock.Clock,
) DashboardQueries {
	return &dashboardQueriesImpl{
		uow:           uow,
		store:         store,
		transactions:  transactions,
		submissions:   submissions,
		notifications: notifications,
		clock:         clk,
	}
}

func (q *dashboardQueriesImpl) Collector(ctx context.Context, act actor.Actor) (*CollectorDashboard, error) {
	if !act.IsCollector() {
		return nil, errs.ErrForbidden
	}

	now := q.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	dash := &CollectorDashboard{GeneratedAt: now}
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		counters, err := q.store.CollectorCounters(ctx, dbtx, act.ID, monthStart, dayStart)
		if err != nil {
			return err
		}
		dash.ScheduledPickups = counters.ScheduledPickups
		dash.CompletedThisMonth = counters.CompletedThisMonth
		dash.CompletedToday = counters.CompletedToday
		dash.TotalSpentThisMonth = counters.SpentThisMonth
		dash.UniqueCustomers = counters.UniqueCustomers

		pending, err := q.store.CountPendingSubmissions(ctx, dbtx)
		if err != nil {
			return err
		}
		dash.PendingSubmissions = pending

		byMaterial, total, err := q.store.InventoryByMaterial(ctx, dbtx, act.ID)
		if err != nil {
			return err
		}
		dash.InventoryByMaterial = byMaterial
		dash.InventoryWeightKg = total

		pickups, err := q.store.UpcomingPickups(ctx, dbtx, act.ID, 10)
		if err != nil {
			return err
		}
		dash.UpcomingPickups = pickups

		recent, err := q.transactions.List(ctx, dbtx, TransactionFilter{CollectorID: &act.ID, Limit: 10})
		if err != nil {
			return err
		}
		dash.RecentTransactions = recent

		unread, err := q.notifications.CountUnread(ctx, dbtx, act.ID)
		if err != nil {
			return err
		}
		dash.UnreadNotifications = unread
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return dash, nil
}

func (q *dashboardQueriesImpl) Customer(ctx context.Context, act actor.Actor) (*CustomerDashboard, error) {
	if !act.IsCustomer() {
		return nil, errs.ErrForbidden
	}

	dash := &CustomerDashboard{GeneratedAt: q.clock.Now()}
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		active, completed, earned, weight, err := q.store.CustomerCounters(ctx, dbtx, act.ID)
		if err != nil {
			return err
		}
		dash.ActiveSubmissions = active
		dash.CompletedTotal = completed
		dash.TotalEarned = earned
		dash.TotalWeightKg = weight

		recent, err := q.submissions.List(ctx, dbtx, SubmissionFilter{CustomerID: &act.ID, Limit: 10})
		if err != nil {
			return err
		}
		dash.RecentSubmissions = recent

		unread, err := q.notifications.CountUnread(ctx, dbtx, act.ID)
		if err != nil {
			return err
		}
		dash.UnreadNotifications = unread
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return dash, nil
}
