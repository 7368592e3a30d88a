// Package export builds the derived views served by the manifest export
// endpoint: the flat per-pilgrim manifest, the per-city room rosters and
// the document completeness matrix. Everything here is a pure projection
// over records loaded by the repository layer; no I/O happens in this
// package.
package export

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/takaruma7/MIW-sub002/internal/model"
)

// City selects which hotel a roster is built for.
type City string

const (
	CityMedinah City = "medinah"
	CityMakkah  City = "makkah"
)

// Entry joins a pilgrim with their room assignment, when one exists.
// Entries come from the repository in arbitrary order; BuildManifest
// sorts them by pilgrim name.
type Entry struct {
	Pilgrim    model.Pilgrim
	Assignment *model.RoomAssignment
}

// ManifestRow is one line of the flat manifest export.
type ManifestRow struct {
	Seq             int    `json:"seq"`
	Title           string `json:"title"` // MR or MRS
	Name            string `json:"name"`
	FatherName      string `json:"father_name"`
	BirthPlace      string `json:"birth_place"`
	BirthDate       string `json:"birth_date"` // d/m/Y or ""
	Age             string `json:"age"`
	PassportNumber  string `json:"passport_number"`
	PassportIssued  string `json:"passport_issued"`
	PassportExpires string `json:"passport_expires"`
	RoomCategory    string `json:"room_category"`
	RoomCode        string `json:"room_code"`
	MedinahNumber   string `json:"medinah_number"`
	MekkahNumber    string `json:"mekkah_number"`
	MarketingName   string `json:"marketing_name"`
	Relation        string `json:"relation"`
	Address         string `json:"address"`
	SpecialRequest  string `json:"special_request"`
}

// RosterRow is one physical room in a per-city roster.
type RosterRow struct {
	Room      string `json:"room"`
	Type      string `json:"type"` // Quad, Triple or Double
	Occupants string `json:"occupants"`
}

// CompletenessRow reports the seven document slots of one pilgrim, each
// marked "✓" when present and "" when absent.
type CompletenessRow struct {
	NIK   string            `json:"nik"`
	Name  string            `json:"name"`
	Marks map[string]string `json:"marks"`
}

// DisplayDate converts a stored date to display order (day/month/year).
// Absent dates render as an empty string, never an error.
func DisplayDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// RoomType derives a roster room type from the first character of a
// room-code prefix: Q means Quad, T means Triple, and anything else,
// including an empty code, falls back to Double.
func RoomType(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Double"
	}
	switch code[0] {
	case 'Q', 'q':
		return "Quad"
	case 'T', 't':
		return "Triple"
	}
	return "Double"
}

// AgeYears computes age as plain calendar-year subtraction, matching the
// system's long-standing convention. This is deliberately not a
// birthday-accurate calculation.
func AgeYears(birth time.Time, now time.Time) int {
	return now.Year() - birth.Year()
}

// ageString resolves the manifest age field: the stored age wins, a
// birth date is used next, and with neither the field stays empty.
func ageString(p model.Pilgrim, now time.Time) string {
	if p.Age != nil {
		return strconv.Itoa(*p.Age)
	}
	if p.BirthDate != nil {
		return strconv.Itoa(AgeYears(*p.BirthDate, now))
	}
	return ""
}

// BuildManifest projects entries into manifest rows ordered by pilgrim
// name ascending with 1-based sequence numbers. The input slice is not
// modified.
func BuildManifest(entries []Entry, now time.Time) []ManifestRow {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToUpper(sorted[i].Pilgrim.Name) < strings.ToUpper(sorted[j].Pilgrim.Name)
	})

	rows := make([]ManifestRow, 0, len(sorted))
	for i, e := range sorted {
		p := e.Pilgrim

		title := "MRS"
		if p.Sex == "M" {
			title = "MR"
		}

		name := p.Name
		if strings.TrimSpace(p.PassportName) != "" {
			name = p.PassportName
		}

		row := ManifestRow{
			Seq:             i + 1,
			Title:           title,
			Name:            strings.ToUpper(name),
			FatherName:      strings.ToUpper(p.FatherName),
			BirthPlace:      p.BirthPlace,
			BirthDate:       DisplayDate(p.BirthDate),
			Age:             ageString(p, now),
			PassportNumber:  p.PassportNumber,
			PassportIssued:  DisplayDate(p.PassportIssued),
			PassportExpires: DisplayDate(p.PassportExpires),
			RoomCategory:    p.RoomCategory,
			MarketingName:   strings.ToUpper(p.MarketingName),
			Address:         strings.ToUpper(p.Address),
			SpecialRequest:  p.SpecialRequest, // free text, no normalization
		}
		if e.Assignment != nil {
			row.RoomCode = e.Assignment.RoomCode
			row.MedinahNumber = e.Assignment.MedinahNumber
			row.MekkahNumber = e.Assignment.MekkahNumber
			if e.Assignment.Relation != nil {
				row.Relation = strings.ToUpper(*e.Assignment.Relation)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildRoster groups pilgrims by their room number in the given city.
// Pilgrims without a room number for that city contribute to no row. The
// room type comes from the room-code prefix of the first pilgrim grouped
// into the room, and occupants keep grouping order.
func BuildRoster(entries []Entry, city City) []RosterRow {
	type bucket struct {
		row RosterRow
		occ []string
	}
	order := make([]string, 0)
	byRoom := make(map[string]*bucket)

	for _, e := range entries {
		if e.Assignment == nil {
			continue
		}
		number := e.Assignment.MedinahNumber
		if city == CityMakkah {
			number = e.Assignment.MekkahNumber
		}
		number = strings.TrimSpace(number)
		if number == "" {
			continue
		}
		b, ok := byRoom[number]
		if !ok {
			b = &bucket{row: RosterRow{
				Room: number,
				Type: RoomType(e.Assignment.RoomCode),
			}}
			byRoom[number] = b
			order = append(order, number)
		}
		b.occ = append(b.occ, e.Pilgrim.Name)
	}

	rows := make([]RosterRow, 0, len(order))
	for _, number := range order {
		b := byRoom[number]
		b.row.Occupants = strings.Join(b.occ, ", ")
		rows = append(rows, b.row)
	}
	return rows
}

// BuildCompleteness returns one row per pilgrim with a presence mark per
// document slot. No other transformation is applied.
func BuildCompleteness(pilgrims []model.Pilgrim) []CompletenessRow {
	rows := make([]CompletenessRow, 0, len(pilgrims))
	for _, p := range pilgrims {
		marks := make(map[string]string, len(model.DocumentSlots))
		for _, slot := range model.DocumentSlots {
			if p.Documents.Slot(slot) != nil {
				marks[slot] = "✓"
			} else {
				marks[slot] = ""
			}
		}
		rows = append(rows, CompletenessRow{NIK: p.NIK, Name: p.Name, Marks: marks})
	}
	return rows
}
