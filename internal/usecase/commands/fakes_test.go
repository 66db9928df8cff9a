//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kardus/internal/domain/inventory"
	"kardus/internal/domain/pricing"
	"kardus/internal/domain/submission"
	"kardus/internal/domain/transaction"
	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/queries"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory fakes backing the command tests. They honor the same
// contracts as the Postgres implementations: CAS on version, unique
// submission key on transactions, unique source transaction on
// inventory, once-per-related notifications. Submission and notification
// access is mutex-guarded so tests can race real goroutines against the
// store.

type fakeStore struct {
	mu            sync.Mutex
	submissions   map[uuid.UUID]*submission.Submission
	transactions  map[uuid.UUID]*transaction.Transaction
	bySubmission  map[uuid.UUID]uuid.UUID
	inventory     map[uuid.UUID]*inventory.Item
	bySourceTrx   map[uuid.UUID]uuid.UUID
	notifications []*shared.Notification
	idempotency   map[string]*shared.IdempotencyRecord

	activePrices map[[3]string]int64
	history      []shared.PriceChange

	// afterSubmissionFind runs once after the next FindByID, before the
	// caller's CAS attempt. Used to stage write races.
	afterSubmissionFind func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		submissions:  make(map[uuid.UUID]*submission.Submission),
		transactions: make(map[uuid.UUID]*transaction.Transaction),
		bySubmission: make(map[uuid.UUID]uuid.UUID),
		inventory:    make(map[uuid.UUID]*inventory.Item),
		bySourceTrx:  make(map[uuid.UUID]uuid.UUID),
		idempotency:  make(map[string]*shared.IdempotencyRecord),
		activePrices: make(map[[3]string]int64),
	}
}

func cloneSubmission(s *submission.Submission) *submission.Submission {
	return submission.Reconstruct(
		s.ID(), s.CustomerID(), s.Material(), s.Condition(), s.WeightKg(),
		s.EstimatedPrice(), s.Status(), s.CollectorID(), s.PickupAt(),
		s.CompletedAt(), s.CancelReason(), s.Notes(), s.Version(),
		s.CreatedAt(), s.UpdatedAt(),
	)
}

// --- shared.UnitOfWork ---

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) DB() db.DBTX                                  { return nil }
func (t *fakeTx) Submissions() shared.SubmissionRepository     { return &fakeSubmissionRepo{t.store} }
func (t *fakeTx) Prices() shared.PriceRepository               { return &fakePriceRepo{t.store} }
func (t *fakeTx) Transactions() shared.TransactionRepository   { return &fakeTransactionRepo{t.store} }
func (t *fakeTx) Inventory() shared.InventoryRepository        { return &fakeInventoryRepo{t.store} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &fakeNotificationRepo{t.store} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository    { return &fakeIdempotencyRepo{t.store} }

// --- repositories ---

type fakeSubmissionRepo struct{ store *fakeStore }

func (r *fakeSubmissionRepo) Create(_ context.Context, _ db.DBTX, sub *submission.Submission) (uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.submissions[sub.ID()] = cloneSubmission(sub)
	return sub.ID(), nil
}

func (r *fakeSubmissionRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*submission.Submission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sub, ok := r.store.submissions[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "submission not found")
	}
	found := cloneSubmission(sub)
	if hook := r.store.afterSubmissionFind; hook != nil {
		r.store.afterSubmissionFind = nil
		hook()
	}
	return found, nil
}

func (r *fakeSubmissionRepo) UpdateCAS(_ context.Context, _ db.DBTX, sub *submission.Submission, expectedVersion int32) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.submissions[sub.ID()]
	if !ok || current.Version() != expectedVersion {
		return false, nil
	}
	updated := submission.Reconstruct(
		sub.ID(), sub.CustomerID(), sub.Material(), sub.Condition(), sub.WeightKg(),
		sub.EstimatedPrice(), sub.Status(), sub.CollectorID(), sub.PickupAt(),
		sub.CompletedAt(), sub.CancelReason(), sub.Notes(), expectedVersion+1,
		sub.CreatedAt(), time.Now(),
	)
	r.store.submissions[sub.ID()] = updated
	return true, nil
}

type fakePriceRepo struct{ store *fakeStore }

func (r *fakePriceRepo) DeactivateActive(_ context.Context, _ db.DBTX, collectorID uuid.UUID, material, condition string) (*int64, error) {
	key := [3]string{collectorID.String(), material, condition}
	price, ok := r.store.activePrices[key]
	if !ok {
		return nil, nil
	}
	delete(r.store.activePrices, key)
	return &price, nil
}

func (r *fakePriceRepo) DeactivateAll(_ context.Context, _ db.DBTX, collectorID uuid.UUID) (map[[2]string]int64, error) {
	old := make(map[[2]string]int64)
	for key, price := range r.store.activePrices {
		if key[0] == collectorID.String() {
			old[[2]string{key[1], key[2]}] = price
			delete(r.store.activePrices, key)
		}
	}
	return old, nil
}

func (r *fakePriceRepo) InsertActive(_ context.Context, _ db.DBTX, collectorID uuid.UUID, material, condition string, pricePerKg int64) error {
	r.store.activePrices[[3]string{collectorID.String(), material, condition}] = pricePerKg
	return nil
}

func (r *fakePriceRepo) InsertHistory(_ context.Context, _ db.DBTX, change shared.PriceChange) error {
	r.store.history = append(r.store.history, change)
	return nil
}

type fakeTransactionRepo struct{ store *fakeStore }

func (r *fakeTransactionRepo) Create(_ context.Context, _ db.DBTX, trx *transaction.Transaction) (bool, error) {
	if subID := trx.SubmissionID(); subID != nil {
		if _, taken := r.store.bySubmission[*subID]; taken {
			return false, nil
		}
		r.store.bySubmission[*subID] = trx.ID()
	}
	r.store.transactions[trx.ID()] = trx
	return true, nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*transaction.Transaction, error) {
	trx, ok := r.store.transactions[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "transaction not found")
	}
	return trx, nil
}

func (r *fakeTransactionRepo) FindBySubmissionID(_ context.Context, _ db.DBTX, submissionID uuid.UUID) (*transaction.Transaction, error) {
	id, ok := r.store.bySubmission[submissionID]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "transaction not found")
	}
	return r.store.transactions[id], nil
}

func (r *fakeTransactionRepo) UpdatePaymentStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status transaction.PaymentStatus) error {
	trx, ok := r.store.transactions[id]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "transaction not found")
	}
	r.store.transactions[id] = transaction.Reconstruct(
		trx.ID(), trx.ReceiptNumber(), trx.CollectorID(), trx.CustomerID(),
		trx.SubmissionID(), trx.Material(), trx.Condition(), trx.WeightKg(),
		trx.PricePerKg(), trx.TotalAmount(), status, trx.CreatedAt(),
	)
	return nil
}

type fakeInventoryRepo struct{ store *fakeStore }

func (r *fakeInventoryRepo) Create(_ context.Context, _ db.DBTX, item *inventory.Item) error {
	r.store.inventory[item.ID()] = item
	return nil
}

func (r *fakeInventoryRepo) CreateFromSettlement(_ context.Context, _ db.DBTX, item *inventory.Item) error {
	src := item.SourceTransactionID()
	if src != nil {
		if _, taken := r.store.bySourceTrx[*src]; taken {
			return nil
		}
		r.store.bySourceTrx[*src] = item.ID()
	}
	r.store.inventory[item.ID()] = item
	return nil
}

func (r *fakeInventoryRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*inventory.Item, error) {
	item, ok := r.store.inventory[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "inventory item not found")
	}
	return item, nil
}

func (r *fakeInventoryRepo) Update(_ context.Context, _ db.DBTX, item *inventory.Item) error {
	if _, ok := r.store.inventory[item.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "inventory item not found")
	}
	r.store.inventory[item.ID()] = item
	return nil
}

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) Create(_ context.Context, _ db.DBTX, n *shared.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications = append(r.store.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) CreateOncePerRelated(_ context.Context, _ db.DBTX, n *shared.Notification) error {
	for _, existing := range r.store.notifications {
		if existing.Category == n.Category &&
			existing.RelatedID != nil && n.RelatedID != nil &&
			*existing.RelatedID == *n.RelatedID {
			return nil
		}
	}
	r.store.notifications = append(r.store.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _ db.DBTX, id, recipientID uuid.UUID) (bool, error) {
	for _, n := range r.store.notifications {
		if n.ID == id && n.RecipientID == recipientID && !n.Read {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, _ db.DBTX, recipientID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.store.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

type fakeIdempotencyRepo struct{ store *fakeStore }

func idemKey(key, actorID uuid.UUID) string {
	return key.String() + "/" + actorID.String()
}

func (r *fakeIdempotencyRepo) TryInsert(_ context.Context, _ db.DBTX, key, actorID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error {
	k := idemKey(key, actorID)
	if _, ok := r.store.idempotency[k]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "idempotency key already exists")
	}
	r.store.idempotency[k] = &shared.IdempotencyRecord{
		Key:         key,
		ActorID:     actorID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		Status:      "processing",
		ExpiresAt:   expiresAt,
	}
	return nil
}

func (r *fakeIdempotencyRepo) Get(_ context.Context, _ db.DBTX, key, actorID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.store.idempotency[idemKey(key, actorID)]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "idempotency key not found")
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeIdempotencyRepo) UpdateStatusCompleted(_ context.Context, _ db.DBTX, key, actorID, resultID uuid.UUID) error {
	rec, ok := r.store.idempotency[idemKey(key, actorID)]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "idempotency key not found")
	}
	rec.Status = "completed"
	rec.ResultID = &resultID
	return nil
}

func (r *fakeIdempotencyRepo) DeleteExpired(_ context.Context, _ db.DBTX, now time.Time) (int64, error) {
	var count int64
	for k, rec := range r.store.idempotency {
		if rec.ExpiresAt.Before(now) {
			delete(r.store.idempotency, k)
			count++
		}
	}
	return count, nil
}

// --- read ports ---

type fakeSubmissionReads struct{ store *fakeStore }

func (r *fakeSubmissionReads) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*queries.SubmissionView, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sub, ok := r.store.submissions[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "submission not found")
	}
	var reason *string
	if sub.CancelReason() != "" {
		s := sub.CancelReason()
		reason = &s
	}
	return &queries.SubmissionView{
		ID:             sub.ID(),
		CustomerID:     sub.CustomerID(),
		Material:       sub.Material(),
		Condition:      sub.Condition().String(),
		WeightKg:       sub.WeightKg(),
		EstimatedPrice: sub.EstimatedPrice(),
		Status:         sub.Status().String(),
		CollectorID:    sub.CollectorID(),
		PickupAt:       sub.PickupAt(),
		CompletedAt:    sub.CompletedAt(),
		CancelReason:   reason,
		Notes:          sub.Notes(),
		Version:        sub.Version(),
	}, nil
}

type fakeTransactionReads struct{ store *fakeStore }

func (r *fakeTransactionReads) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*queries.TransactionView, error) {
	trx, ok := r.store.transactions[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "transaction not found")
	}
	return &queries.TransactionView{
		ID:            trx.ID(),
		ReceiptNumber: trx.ReceiptNumber(),
		CollectorID:   trx.CollectorID(),
		CustomerID:    trx.CustomerID(),
		SubmissionID:  trx.SubmissionID(),
		Material:      trx.Material(),
		Condition:     trx.Condition().String(),
		WeightKg:      trx.WeightKg(),
		PricePerKg:    trx.PricePerKg(),
		TotalAmount:   trx.TotalAmount(),
		PaymentStatus: trx.PaymentStatus().String(),
	}, nil
}

type fakeInventoryReads struct{ store *fakeStore }

func (r *fakeInventoryReads) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*queries.InventoryItemView, error) {
	item, ok := r.store.inventory[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "inventory item not found")
	}
	return &queries.InventoryItemView{
		ID:                  item.ID(),
		CollectorID:         item.CollectorID(),
		Material:            item.Material(),
		Condition:           item.Condition().String(),
		WeightKg:            item.WeightKg(),
		AcquiredOn:          item.AcquiredOn(),
		SourceTransactionID: item.SourceTransactionID(),
		SourceNote:          item.SourceNote(),
		Status:              item.Status().String(),
		Notes:               item.Notes(),
	}, nil
}

type fakePriceReads struct{ store *fakeStore }

func (r *fakePriceReads) ActiveTable(_ context.Context, _ db.DBTX, collectorID uuid.UUID) (*pricing.Table, error) {
	table := pricing.NewTable()
	for key, price := range r.store.activePrices {
		if key[0] != collectorID.String() {
			continue
		}
		condition, err := pricing.ParseCondition(key[2])
		if err != nil {
			return nil, err
		}
		table.Set(key[1], condition, price)
	}
	return table, nil
}

type fakeReceipts struct{ n int }

func (r *fakeReceipts) Next() string {
	r.n++
	return fmt.Sprintf("KRD-TEST-%04d", r.n)
}
