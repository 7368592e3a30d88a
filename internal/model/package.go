package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Package represents a bookable pilgrimage product as stored in the
// `packages` table. The room inventory, price list and hotel certificate
// record are persisted as JSON columns and decoded into the typed
// structures below at the repository boundary.
//
// Fields:
//
//	ID            – package identifier (pak_id), assigned by admins.
//	Name          – display name of the package.
//	Category      – "Hajj" or "Umroh".
//	DepartureDate – scheduled departure (date only, UTC).
//	HotelMedinah  – hotel name in Medinah.
//	HotelMakkah   – hotel name in Makkah.
//	Rooms         – per-hotel room code inventory.
//	Prices        – price per room category in cents.
//	HCN           – hotel certificate record for the booking.
type Package struct {
	ID            string        // packages.id
	Name          string        // packages.name
	Category      string        // packages.category
	DepartureDate time.Time     // packages.departure_date
	HotelMedinah  string        // packages.hotel_medinah
	HotelMakkah   string        // packages.hotel_makkah
	Rooms         RoomInventory // packages.room_inventory (JSON)
	Prices        PriceList     // packages.prices (JSON)
	HCN           HCNRecord     // packages.hcn (JSON)
	CreatedAt     time.Time     // packages.created_at
	UpdatedAt     time.Time     // packages.updated_at
}

// HotelRooms holds the three ordered room-code lists of one hotel.
// Room codes are unique across the three lists within a hotel; the
// repository enforces this on create and update.
type HotelRooms struct {
	Quad   []string `json:"quad"`
	Triple []string `json:"triple"`
	Double []string `json:"double"`
}

// RoomInventory is the per-hotel room code inventory of a package.
type RoomInventory struct {
	Medinah HotelRooms `json:"medinah"`
	Makkah  HotelRooms `json:"makkah"`
}

// PriceList holds the package price per room category, in cents.
type PriceList struct {
	Quad   uint64 `json:"quad"`
	Triple uint64 `json:"triple"`
	Double uint64 `json:"double"`
}

// HCNRecord carries the hotel certificate numbers attached to a package
// booking. The reconciler passes these through to the export envelope.
type HCNRecord struct {
	Medinah    string `json:"medinah"`
	Makkah     string `json:"makkah"`
	IssuedDate string `json:"issued_date"`
}

// DecodeStrict unmarshals a JSON column into dst and rejects unknown
// fields, so malformed inventory/price/HCN payloads fail at the
// deserialization boundary instead of silently defaulting.
func DecodeStrict(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// RoomCodes returns the union of a hotel's room codes in list order:
// quad first, then triple, then double.
func (h HotelRooms) RoomCodes() []string {
	out := make([]string, 0, len(h.Quad)+len(h.Triple)+len(h.Double))
	out = append(out, h.Quad...)
	out = append(out, h.Triple...)
	out = append(out, h.Double...)
	return out
}

// HasDuplicateCodes reports whether any room code appears more than once
// across the hotel's three lists.
func (h HotelRooms) HasDuplicateCodes() bool {
	seen := make(map[string]struct{})
	for _, code := range h.RoomCodes() {
		if _, ok := seen[code]; ok {
			return true
		}
		seen[code] = struct{}{}
	}
	return false
}
