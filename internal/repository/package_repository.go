// Package repository contains data access logic separated from HTTP
// handlers. This file defines repository methods for pilgrimage
// packages, whose room inventory, prices and HCN record live in JSON
// columns and are decoded strictly into typed structures on read.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/takaruma7/MIW-sub002/internal/model"
)

// PackageRepo encapsulates all database queries related to packages.
type PackageRepo struct {
	db *sql.DB
}

// NewPackageRepo constructs a PackageRepo with the provided DB handle.
func NewPackageRepo(db *sql.DB) *PackageRepo {
	return &PackageRepo{db: db}
}

// DB exposes the underlying pool so handlers can open transactions that
// span several repositories.
func (r *PackageRepo) DB() *sql.DB { return r.db }

const packageColumns = "id, name, category, departure_date, hotel_medinah, hotel_makkah, room_inventory, prices, hcn, created_at, updated_at"

// scanPackage reads one row into a model.Package, decoding the three
// JSON columns strictly so unknown or malformed fields surface as errors
// instead of defaulting silently.
func scanPackage(row interface{ Scan(...any) error }) (*model.Package, error) {
	var (
		p         model.Package
		inventory []byte
		prices    []byte
		hcn       []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.DepartureDate,
		&p.HotelMedinah, &p.HotelMakkah, &inventory, &prices, &hcn,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := model.DecodeStrict(inventory, &p.Rooms); err != nil {
		return nil, err
	}
	if err := model.DecodeStrict(prices, &p.Prices); err != nil {
		return nil, err
	}
	if err := model.DecodeStrict(hcn, &p.HCN); err != nil {
		return nil, err
	}
	return &p, nil
}

// validateInventory enforces the invariant that room codes within a
// hotel are unique across the quad/triple/double lists.
func validateInventory(inv model.RoomInventory) error {
	if inv.Medinah.HasDuplicateCodes() || inv.Makkah.HasDuplicateCodes() {
		return ErrDuplicateRoomCode
	}
	return nil
}

// Create inserts a new package. The caller supplies the package id.
func (r *PackageRepo) Create(ctx context.Context, p *model.Package) error {
	if err := validateInventory(p.Rooms); err != nil {
		return err
	}
	inventory, err := json.Marshal(p.Rooms)
	if err != nil {
		return err
	}
	prices, err := json.Marshal(p.Prices)
	if err != nil {
		return err
	}
	hcn, err := json.Marshal(p.HCN)
	if err != nil {
		return err
	}
	const q = `INSERT INTO packages (id, name, category, departure_date, hotel_medinah, hotel_makkah, room_inventory, prices, hcn)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.Category,
		p.DepartureDate, p.HotelMedinah, p.HotelMakkah, inventory, prices, hcn); err != nil {
		return err
	}
	// Query back to populate timestamps and defaults.
	got, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// Update rewrites every mutable field of an existing package.
func (r *PackageRepo) Update(ctx context.Context, p *model.Package) error {
	if err := validateInventory(p.Rooms); err != nil {
		return err
	}
	inventory, err := json.Marshal(p.Rooms)
	if err != nil {
		return err
	}
	prices, err := json.Marshal(p.Prices)
	if err != nil {
		return err
	}
	hcn, err := json.Marshal(p.HCN)
	if err != nil {
		return err
	}
	const q = `UPDATE packages
	           SET name = ?, category = ?, departure_date = ?, hotel_medinah = ?, hotel_makkah = ?,
	               room_inventory = ?, prices = ?, hcn = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.Category, p.DepartureDate,
		p.HotelMedinah, p.HotelMakkah, inventory, prices, hcn, p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either absent or unchanged; distinguish by lookup.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches a package by its identifier. It returns
// ErrPackageNotFound if no row is found.
func (r *PackageRepo) GetByID(ctx context.Context, id string) (*model.Package, error) {
	const q = "SELECT " + packageColumns + " FROM packages WHERE id = ?"
	p, err := scanPackage(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListAll returns every package ordered by departure date ascending.
func (r *PackageRepo) ListAll(ctx context.Context) ([]model.Package, error) {
	const q = "SELECT " + packageColumns + " FROM packages ORDER BY departure_date ASC, id ASC"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Package, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
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

// Delete removes a package. It refuses with ErrPackageInUse while
// pilgrims still reference it and reports ErrPackageNotFound when the
// id does not exist.
func (r *PackageRepo) Delete(ctx context.Context, id string) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pilgrims WHERE pak_id = ?", id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrPackageInUse
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM packages WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPackageNotFound
	}
	return nil
}
