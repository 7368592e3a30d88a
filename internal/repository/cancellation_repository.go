package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/takaruma7/MIW-sub002/internal/model"
)

// CancellationRepo provides access to pending cancellation requests.
// Verification deletes both the request and the originating pilgrim;
// that multi-table write runs in a transaction driven by the handler,
// which is why the delete here has a Tx variant.
type CancellationRepo struct {
	db *sql.DB
}

// NewCancellationRepo returns a new CancellationRepo bound to the given
// database.
func NewCancellationRepo(db *sql.DB) *CancellationRepo {
	return &CancellationRepo{db: db}
}

// Create inserts a new cancellation request and populates the generated
// ID on the provided record.
func (r *CancellationRepo) Create(ctx context.Context, c *model.Cancellation) error {
	const q = `INSERT INTO cancellations (nik, reason, proof_payment, proof_id)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.NIK, c.Reason, c.ProofPayment, c.ProofID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches one cancellation request. It returns
// ErrCancellationNotFound if no row is found.
func (r *CancellationRepo) GetByID(ctx context.Context, id uint64) (*model.Cancellation, error) {
	const q = `SELECT id, nik, reason, proof_payment, proof_id, created_at, updated_at
	           FROM cancellations WHERE id = ?`
	var c model.Cancellation
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.NIK, &c.Reason,
		&c.ProofPayment, &c.ProofID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCancellationNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CancellationDetail pairs a request with the pilgrim and package it
// concerns, for the admin list view.
type CancellationDetail struct {
	ID           uint64 `json:"id"`
	NIK          string `json:"nik"`
	PilgrimName  string `json:"pilgrim_name"`
	PakID        string `json:"pak_id"`
	PackageName  string `json:"package_name"`
	Reason       string `json:"reason"`
	ProofPayment string `json:"proof_payment"`
	ProofID      string `json:"proof_id"`
	CreatedAt    string `json:"created_at"`
}

// ListDetails returns all pending requests joined with pilgrim and
// package names, newest first.
func (r *CancellationRepo) ListDetails(ctx context.Context) ([]CancellationDetail, error) {
	const q = `SELECT c.id, c.nik, p.name, p.pak_id, pk.name, c.reason,
	                  c.proof_payment, c.proof_id, c.created_at
	           FROM cancellations c
	           JOIN pilgrims p ON p.nik = c.nik
	           JOIN packages pk ON pk.id = p.pak_id
	           ORDER BY c.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CancellationDetail, 0)
	for rows.Next() {
		var d CancellationDetail
		var createdAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.NIK, &d.PilgrimName, &d.PakID, &d.PackageName,
			&d.Reason, &d.ProofPayment, &d.ProofID, &createdAt); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			d.CreatedAt = createdAt.Time.UTC().Format("2006-01-02 15:04:05")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTx removes a request within an existing transaction, used by
// the verification flow before the pilgrim record is deleted.
func (r *CancellationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM cancellations WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCancellationNotFound
	}
	return nil
}

// Delete removes a request outside any transaction, used by rejection.
func (r *CancellationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cancellations WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCancellationNotFound
	}
	return nil
}
