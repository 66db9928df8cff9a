package response

import "kardus/internal/usecase/queries"

// CreateSubmissionResponse wraps the stored view with a replay marker so
// clients can tell a fresh write from an idempotent replay.
type CreateSubmissionResponse struct {
	Submission *queries.SubmissionView `json:"submission"`
	Replayed   bool                    `json:"replayed"`
}

// SettlementResponse is returned by pickup completion: the submission in
// its final state plus the transaction the settlement produced.
type SettlementResponse struct {
	Submission  *queries.SubmissionView  `json:"submission"`
	Transaction *queries.TransactionView `json:"transaction"`
}
