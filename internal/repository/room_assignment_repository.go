package repository

import (
	"context"
	"database/sql"

	"github.com/takaruma7/MIW-sub002/internal/model"
)

// RoomAssignmentRepo persists the manifest admin's room placements.
// There is at most one assignment per (nik, pak_id) pair.
type RoomAssignmentRepo struct {
	db *sql.DB
}

// NewRoomAssignmentRepo returns a repo bound to the given database.
func NewRoomAssignmentRepo(db *sql.DB) *RoomAssignmentRepo {
	return &RoomAssignmentRepo{db: db}
}

// UpsertTx writes an assignment within an existing transaction. The
// operation is idempotent on (nik, pak_id): an existing row is updated
// in place. A nil Relation leaves any previously stored relation
// untouched; the other fields are always overwritten.
func (r *RoomAssignmentRepo) UpsertTx(ctx context.Context, tx *sql.Tx, a *model.RoomAssignment) error {
	const q = `INSERT INTO room_assignments (nik, pak_id, room_code, medinah_number, mekkah_number, relation)
	           VALUES (?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               room_code = VALUES(room_code),
	               medinah_number = VALUES(medinah_number),
	               mekkah_number = VALUES(mekkah_number),
	               relation = COALESCE(VALUES(relation), relation)`
	_, err := tx.ExecContext(ctx, q, a.NIK, a.PakID, a.RoomCode,
		a.MedinahNumber, a.MekkahNumber, a.Relation)
	return err
}

// GetByPair returns the assignment for one pilgrim in one package, or
// sql.ErrNoRows when none exists yet.
func (r *RoomAssignmentRepo) GetByPair(ctx context.Context, nik, pakID string) (*model.RoomAssignment, error) {
	const q = `SELECT id, nik, pak_id, room_code, medinah_number, mekkah_number, relation, created_at, updated_at
	           FROM room_assignments WHERE nik = ? AND pak_id = ?`
	var (
		a        model.RoomAssignment
		relation sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, nik, pakID).Scan(&a.ID, &a.NIK, &a.PakID,
		&a.RoomCode, &a.MedinahNumber, &a.MekkahNumber, &relation, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if relation.Valid {
		rel := relation.String
		a.Relation = &rel
	}
	return &a, nil
}

// MapByPackage loads every assignment of a package keyed by nik, so the
// export handler can join pilgrims and assignments in one pass.
func (r *RoomAssignmentRepo) MapByPackage(ctx context.Context, pakID string) (map[string]*model.RoomAssignment, error) {
	const q = `SELECT id, nik, pak_id, room_code, medinah_number, mekkah_number, relation, created_at, updated_at
	           FROM room_assignments WHERE pak_id = ?`
	rows, err := r.db.QueryContext(ctx, q, pakID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]*model.RoomAssignment)
	for rows.Next() {
		var (
			a        model.RoomAssignment
			relation sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.NIK, &a.PakID, &a.RoomCode,
			&a.MedinahNumber, &a.MekkahNumber, &relation, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if relation.Valid {
			rel := relation.String
			a.Relation = &rel
		}
		out[a.NIK] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
