//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"kardus/internal/domain/actor"
	"kardus/internal/infra/db"
	"kardus/internal/pkg/clock"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDashboardStore struct {
	counters   queries.CollectorCounters
	monthStart time.Time
	dayStart   time.Time
	pending    int64
}

func (s *stubDashboardStore) CollectorCounters(_ context.Context, _ db.DBTX, _ uuid.UUID, monthStart, dayStart time.Time) (queries.CollectorCounters, error) {
	s.monthStart = monthStart
	s.dayStart = dayStart
	return s.counters, nil
}

func (s *stubDashboardStore) CountPendingSubmissions(context.Context, db.DBTX) (int64, error) {
	return s.pending, nil
}

func (s *stubDashboardStore) InventoryByMaterial(context.Context, db.DBTX, uuid.UUID) (map[string]float64, float64, error) {
	return map[string]float64{"thick": 40}, 40, nil
}

func (s *stubDashboardStore) UpcomingPickups(context.Context, db.DBTX, uuid.UUID, int32) ([]*queries.SubmissionListItem, error) {
	return nil, nil
}

func (s *stubDashboardStore) CustomerCounters(context.Context, db.DBTX, uuid.UUID) (active, completed, totalEarned int64, totalWeight float64, err error) {
	return 2, 5, 90000, 75, nil
}

type stubTransactionStore struct{}

func (stubTransactionStore) FindByID(context.Context, db.DBTX, uuid.UUID) (*queries.TransactionView, error) {
	return nil, nil
}

func (stubTransactionStore) FindBySubmissionID(context.Context, db.DBTX, uuid.UUID) (*queries.TransactionView, error) {
	return nil, nil
}

func (stubTransactionStore) List(context.Context, db.DBTX, queries.TransactionFilter) ([]*queries.TransactionView, error) {
	return nil, nil
}

type stubSubmissionStore struct{}

func (stubSubmissionStore) FindByID(context.Context, db.DBTX, uuid.UUID) (*queries.SubmissionView, error) {
	return nil, nil
}

func (stubSubmissionStore) List(context.Context, db.DBTX, queries.SubmissionFilter) ([]*queries.SubmissionListItem, error) {
	return nil, nil
}

func (stubSubmissionStore) ListPendingForPickup(context.Context, db.DBTX, int32) ([]*queries.SubmissionListItem, error) {
	return nil, nil
}

type stubNotificationStore struct{ unread int64 }

func (s stubNotificationStore) ListByRecipient(context.Context, db.DBTX, uuid.UUID, bool, int32) ([]*queries.NotificationView, error) {
	return nil, nil
}

func (s stubNotificationStore) CountUnread(context.Context, db.DBTX, uuid.UUID) (int64, error) {
	return s.unread, nil
}

func TestCollectorDashboard(t *testing.T) {
	ctx := context.Background()
	// Mid-month afternoon, so month and day boundaries differ.
	clk := clock.NewMockClock(time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC))

	store := &stubDashboardStore{
		counters: queries.CollectorCounters{
			ScheduledPickups:   3,
			CompletedThisMonth: 12,
			CompletedToday:     2,
			SpentThisMonth:     540000,
			UniqueCustomers:    7,
		},
		pending: 5,
	}
	q := queries.NewDashboardQueries(
		passthroughUoW{}, store, stubTransactionStore{}, stubSubmissionStore{},
		stubNotificationStore{unread: 4}, clk,
	)

	t.Run("snapshot carries the full counter set", func(t *testing.T) {
		dash, err := q.Collector(ctx, actor.Actor{ID: uuid.New(), Role: actor.RoleCollector})
		require.NoError(t, err)

		assert.Equal(t, int64(5), dash.PendingSubmissions)
		assert.Equal(t, int64(3), dash.ScheduledPickups)
		assert.Equal(t, int64(2), dash.CompletedToday)
		assert.Equal(t, int64(12), dash.CompletedThisMonth)
		assert.Equal(t, int64(540000), dash.TotalSpentThisMonth)
		assert.Equal(t, int64(7), dash.UniqueCustomers)
		assert.Equal(t, int64(4), dash.UnreadNotifications)
		assert.Equal(t, 40.0, dash.InventoryWeightKg)
	})

	t.Run("month and day windows start at midnight of their period", func(t *testing.T) {
		_, err := q.Collector(ctx, actor.Actor{ID: uuid.New(), Role: actor.RoleCollector})
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), store.monthStart)
		assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), store.dayStart)
	})

	t.Run("customers cannot read the collector snapshot", func(t *testing.T) {
		_, err := q.Collector(ctx, actor.Actor{ID: uuid.New(), Role: actor.RoleCustomer})
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("customer snapshot aggregates own totals", func(t *testing.T) {
		dash, err := q.Customer(ctx, actor.Actor{ID: uuid.New(), Role: actor.RoleCustomer})
		require.NoError(t, err)

		assert.Equal(t, int64(2), dash.ActiveSubmissions)
		assert.Equal(t, int64(5), dash.CompletedTotal)
		assert.Equal(t, int64(90000), dash.TotalEarned)
		assert.Equal(t, 75.0, dash.TotalWeightKg)
	})
}
