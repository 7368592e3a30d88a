// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them. The e-mail
// dispatcher subscribes to the same queues outside this service, so
// delivery internals never appear in this codebase.
package queue

// RegistrationReceivedEvent is published after a registration commits.
// It carries enough information for downstream consumers to notify the
// pilgrim or the back office without querying the primary database.
type RegistrationReceivedEvent struct {
	NIK          string `json:"nik"`
	Name         string `json:"name"`
	PakID        string `json:"pak_id"`
	PackageName  string `json:"package_name"`
	RoomCategory string `json:"room_category"`
	AmountCents  uint64 `json:"amount_cents"`
	PaymentProof string `json:"payment_proof"`
	ReceivedAt   string `json:"received_at"`
}

// CancellationVerifiedEvent is published after an admin verifies a
// cancellation and the pilgrim record has been removed.
type CancellationVerifiedEvent struct {
	CancellationID uint64 `json:"cancellation_id"`
	NIK            string `json:"nik"`
	Name           string `json:"name"`
	PakID          string `json:"pak_id"`
	Reason         string `json:"reason"`
	VerifiedAt     string `json:"verified_at"`
}
