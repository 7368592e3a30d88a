package model

import "time"

// Invoice records the payment side of a registration. One invoice is
// created per registration submission with status PENDING and the path
// of the uploaded payment proof; admins later verify or reject it.
type Invoice struct {
	ID           uint64    // invoices.id
	NIK          string    // invoices.nik
	PakID        string    // invoices.pak_id
	AmountCents  uint64    // invoices.amount_cents
	PaymentProof string    // invoices.payment_proof (stored relative path)
	Status       string    // invoices.status (PENDING, VERIFIED, REJECTED)
	CreatedAt    time.Time // invoices.created_at
	UpdatedAt    time.Time // invoices.updated_at
}
