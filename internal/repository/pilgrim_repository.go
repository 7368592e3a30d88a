package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/takaruma7/MIW-sub002/internal/model"
)

// PilgrimRepo provides CRUD operations for pilgrims, including the seven
// document-presence timestamps tracked per pilgrim. All timestamp fields
// are assumed to be stored in UTC.
type PilgrimRepo struct {
	db *sql.DB
}

// NewPilgrimRepo returns a new PilgrimRepo bound to the given database.
func NewPilgrimRepo(db *sql.DB) *PilgrimRepo { return &PilgrimRepo{db: db} }

// DB exposes the underlying pool for transaction-opening callers.
func (r *PilgrimRepo) DB() *sql.DB { return r.db }

const pilgrimColumns = `nik, pak_id, name, sex, birth_place, birth_date, age,
	passport_name, passport_number, passport_issued, passport_expires,
	father_name, marketing_name, address, special_request, room_category,
	passport_at, photo_at, id_card_at, family_card_at, vaccine_at,
	marriage_cert_at, birth_cert_at, created_at, updated_at`

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func scanPilgrim(row interface{ Scan(...any) error }) (*model.Pilgrim, error) {
	var (
		p                        model.Pilgrim
		birthDate                sql.NullTime
		age                      sql.NullInt64
		issued, expires          sql.NullTime
		specialRequest           sql.NullString
		passportAt, photoAt      sql.NullTime
		idCardAt, familyCardAt   sql.NullTime
		vaccineAt, marriageAt    sql.NullTime
		birthCertAt              sql.NullTime
	)
	if err := row.Scan(&p.NIK, &p.PakID, &p.Name, &p.Sex, &p.BirthPlace,
		&birthDate, &age, &p.PassportName, &p.PassportNumber, &issued, &expires,
		&p.FatherName, &p.MarketingName, &p.Address, &specialRequest, &p.RoomCategory,
		&passportAt, &photoAt, &idCardAt, &familyCardAt, &vaccineAt, &marriageAt,
		&birthCertAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.BirthDate = nullableTime(birthDate)
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	p.PassportIssued = nullableTime(issued)
	p.PassportExpires = nullableTime(expires)
	if specialRequest.Valid {
		p.SpecialRequest = specialRequest.String
	}
	p.Documents = model.DocumentSet{
		Passport:     nullableTime(passportAt),
		Photo:        nullableTime(photoAt),
		IDCard:       nullableTime(idCardAt),
		FamilyCard:   nullableTime(familyCardAt),
		Vaccine:      nullableTime(vaccineAt),
		MarriageCert: nullableTime(marriageAt),
		BirthCert:    nullableTime(birthCertAt),
	}
	return &p, nil
}

// CreateTx inserts a new pilgrim within the scope of an existing
// transaction. The caller must commit or rollback. A duplicate national
// id is reported as ErrNIKExists.
func (r *PilgrimRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Pilgrim) error {
	const q = `INSERT INTO pilgrims (nik, pak_id, name, sex, birth_place, birth_date, age,
	               passport_name, passport_number, passport_issued, passport_expires,
	               father_name, marketing_name, address, special_request, room_category)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, p.NIK, p.PakID, p.Name, p.Sex, p.BirthPlace,
		p.BirthDate, p.Age, p.PassportName, p.PassportNumber, p.PassportIssued,
		p.PassportExpires, p.FatherName, p.MarketingName, p.Address,
		p.SpecialRequest, p.RoomCategory)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrNIKExists
		}
		return err
	}
	return nil
}

// GetByNIK fetches a pilgrim by national id. It returns
// ErrPilgrimNotFound if no row is found.
func (r *PilgrimRepo) GetByNIK(ctx context.Context, nik string) (*model.Pilgrim, error) {
	const q = "SELECT " + pilgrimColumns + " FROM pilgrims WHERE nik = ?"
	p, err := scanPilgrim(r.db.QueryRowContext(ctx, q, nik))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPilgrimNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByPackage returns every pilgrim of a package ordered by name
// ascending, the order the manifest export sequences rows in.
func (r *PilgrimRepo) ListByPackage(ctx context.Context, pakID string) ([]model.Pilgrim, error) {
	const q = "SELECT " + pilgrimColumns + " FROM pilgrims WHERE pak_id = ? ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, q, pakID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Pilgrim, 0)
	for rows.Next() {
		p, err := scanPilgrim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StampDocumentsTx sets all seven document-presence timestamps to ts in
// one statement. The document upload endpoint is all-or-nothing per
// request, so partial stamping never happens.
func (r *PilgrimRepo) StampDocumentsTx(ctx context.Context, tx *sql.Tx, nik string, ts time.Time) error {
	const q = `UPDATE pilgrims
	           SET passport_at = ?, photo_at = ?, id_card_at = ?, family_card_at = ?,
	               vaccine_at = ?, marriage_cert_at = ?, birth_cert_at = ?
	           WHERE nik = ?`
	res, err := tx.ExecContext(ctx, q, ts, ts, ts, ts, ts, ts, ts, nik)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPilgrimNotFound
	}
	return nil
}

// DeleteTx removes a pilgrim within an existing transaction. Room
// assignments, invoices and cancellations cascade via foreign keys.
func (r *PilgrimRepo) DeleteTx(ctx context.Context, tx *sql.Tx, nik string) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM pilgrims WHERE nik = ?", nik)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPilgrimNotFound
	}
	return nil
}
