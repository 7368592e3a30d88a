package repository

import (
	"context"
	"database/sql"

	"github.com/takaruma7/MIW-sub002/internal/model"
)

// InvoiceRepo provides access to registration invoices.
type InvoiceRepo struct {
	db *sql.DB
}

// NewInvoiceRepo returns a new InvoiceRepo bound to the given database.
func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

// CreateTx inserts an invoice within an existing transaction and
// populates the generated ID on the provided record.
func (r *InvoiceRepo) CreateTx(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error {
	const q = `INSERT INTO invoices (nik, pak_id, amount_cents, payment_proof, status)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, inv.NIK, inv.PakID, inv.AmountCents,
		inv.PaymentProof, inv.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	return nil
}

// ListByNIK returns every invoice of one pilgrim, newest first.
func (r *InvoiceRepo) ListByNIK(ctx context.Context, nik string) ([]model.Invoice, error) {
	const q = `SELECT id, nik, pak_id, amount_cents, payment_proof, status, created_at, updated_at
	           FROM invoices WHERE nik = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, nik)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Invoice, 0)
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.NIK, &inv.PakID, &inv.AmountCents,
			&inv.PaymentProof, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves an invoice to VERIFIED or REJECTED.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE invoices SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
