package model

import "time"

// Cancellation is a pilgrim-submitted request to withdraw from a
// package. The lifecycle is: created by the public submission endpoint,
// then resolved by an admin either verifying it (which deletes both the
// request and the originating pilgrim record in one transaction) or
// rejecting it (which deletes the request only).
type Cancellation struct {
	ID           uint64    // cancellations.id
	NIK          string    // cancellations.nik
	Reason       string    // cancellations.reason
	ProofPayment string    // cancellations.proof_payment (stored relative path)
	ProofID      string    // cancellations.proof_id (stored relative path)
	CreatedAt    time.Time // cancellations.created_at
	UpdatedAt    time.Time // cancellations.updated_at
}
