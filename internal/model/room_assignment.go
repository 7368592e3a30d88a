package model

import "time"

// RoomAssignment records the manifest admin's room placement of one
// pilgrim within a package. There is at most one row per (nik, pak_id)
// pair; the update operation is an idempotent upsert on that pair.
//
// Fields:
//
//	RoomCode      – code from the package inventory (e.g. "Q1", "T3");
//	                its first letter determines the roster room type.
//	MedinahNumber – physical room number in the Medinah hotel.
//	MekkahNumber  – physical room number in the Makkah hotel.
//	Relation      – mahram/relation note, optional.
type RoomAssignment struct {
	ID            uint64    // room_assignments.id
	NIK           string    // room_assignments.nik
	PakID         string    // room_assignments.pak_id
	RoomCode      string    // room_assignments.room_code
	MedinahNumber string    // room_assignments.medinah_number
	MekkahNumber  string    // room_assignments.mekkah_number
	Relation      *string   // room_assignments.relation (nullable)
	CreatedAt     time.Time // room_assignments.created_at
	UpdatedAt     time.Time // room_assignments.updated_at
}
