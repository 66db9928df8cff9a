package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Submission errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidWeight      = errors.New("weight below platform minimum")
	ErrInvalidMaterial    = errors.New("invalid material type")
	ErrInvalidCondition   = errors.New("invalid condition")
	ErrInvalidPickupTime  = errors.New("pickup time must be in the future")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrAlreadyAssigned    = errors.New("submission already assigned to another collector")

	// Pricing errors
	ErrPriceUnavailable = errors.New("no active price for material and condition")
	ErrPriceNotFound    = errors.New("price entry not found")
	ErrInvalidPrice     = errors.New("price per kg cannot be negative")

	// Transaction errors
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrPaymentStatusFinal   = errors.New("payment status is final")
	ErrSubmissionNotSettled = errors.New("submission has no settlement")

	// Inventory errors
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrInvalidInventoryState = errors.New("invalid inventory status")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Access errors
	ErrForbidden = errors.New("actor is not allowed to perform this operation")

	// Idempotency errors
	ErrIdempotencyInProgress = errors.New("request with this idempotency key is in progress")
	ErrDuplicateRequest      = errors.New("idempotency key reused with a different request")

	// Concurrency / infrastructure errors
	ErrConcurrencyConflict     = errors.New("version conflict on optimistic write")
	ErrStoreUnavailable        = errors.New("persistent store unavailable")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
