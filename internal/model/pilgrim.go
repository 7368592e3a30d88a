package model

import "time"

// Pilgrim represents one registered individual as stored in the
// `pilgrims` table. Each pilgrim belongs to exactly one package. The
// seven *_At fields are the document-presence markers: a non-nil value
// means the document was uploaded at that time.
//
// Fields:
//
//	NIK            – national identity number, primary key.
//	PakID          – package the pilgrim is registered under.
//	Name           – legal name.
//	Sex            – "M" or "F".
//	BirthPlace     – place of birth.
//	BirthDate      – date of birth (nullable).
//	Age            – stored age in years (nullable; derived from
//	                 BirthDate when absent).
//	PassportName   – name as printed in the passport, may be empty.
//	PassportNumber – passport number, may be empty.
//	RoomCategory   – chosen room category (Quad, Triple, Double).
type Pilgrim struct {
	NIK             string     // pilgrims.nik
	PakID           string     // pilgrims.pak_id
	Name            string     // pilgrims.name
	Sex             string     // pilgrims.sex
	BirthPlace      string     // pilgrims.birth_place
	BirthDate       *time.Time // pilgrims.birth_date (nullable)
	Age             *int       // pilgrims.age (nullable)
	PassportName    string     // pilgrims.passport_name
	PassportNumber  string     // pilgrims.passport_number
	PassportIssued  *time.Time // pilgrims.passport_issued (nullable)
	PassportExpires *time.Time // pilgrims.passport_expires (nullable)
	FatherName      string     // pilgrims.father_name
	MarketingName   string     // pilgrims.marketing_name
	Address         string     // pilgrims.address
	SpecialRequest  string     // pilgrims.special_request
	RoomCategory    string     // pilgrims.room_category
	Documents       DocumentSet
	CreatedAt       time.Time // pilgrims.created_at
	UpdatedAt       time.Time // pilgrims.updated_at
}

// DocumentSlots lists the seven required document slots in the order the
// admin completeness view renders them. The slot names double as the
// multipart field names on the upload endpoint.
var DocumentSlots = []string{
	"passport",
	"photo",
	"id_card",
	"family_card",
	"vaccine",
	"marriage_cert",
	"birth_cert",
}

// DocumentSet groups the seven upload timestamps of a pilgrim. Presence
// of a document equals a non-nil timestamp.
type DocumentSet struct {
	Passport     *time.Time // pilgrims.passport_at
	Photo        *time.Time // pilgrims.photo_at
	IDCard       *time.Time // pilgrims.id_card_at
	FamilyCard   *time.Time // pilgrims.family_card_at
	Vaccine      *time.Time // pilgrims.vaccine_at
	MarriageCert *time.Time // pilgrims.marriage_cert_at
	BirthCert    *time.Time // pilgrims.birth_cert_at
}

// Slot returns the timestamp for a named document slot, or nil for an
// unknown name.
func (d DocumentSet) Slot(name string) *time.Time {
	switch name {
	case "passport":
		return d.Passport
	case "photo":
		return d.Photo
	case "id_card":
		return d.IDCard
	case "family_card":
		return d.FamilyCard
	case "vaccine":
		return d.Vaccine
	case "marriage_cert":
		return d.MarriageCert
	case "birth_cert":
		return d.BirthCert
	}
	return nil
}
