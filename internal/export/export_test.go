package export

import (
	"strings"
	"testing"
	"time"

	"github.com/takaruma7/MIW-sub002/internal/model"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

func TestRoomType(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"Q1", "Quad"},
		{"q3", "Quad"},
		{"T2", "Triple"},
		{"t9", "Triple"},
		{"D5", "Double"},
		{"X1", "Double"},
		{"", "Double"},
		{"  ", "Double"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := RoomType(tt.code); got != tt.want {
				t.Errorf("RoomType(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestDisplayDate(t *testing.T) {
	if got := DisplayDate(datePtr(1990, time.August, 5)); got != "05/08/1990" {
		t.Errorf("DisplayDate = %q, want 05/08/1990", got)
	}
	if got := DisplayDate(nil); got != "" {
		t.Errorf("DisplayDate(nil) = %q, want empty", got)
	}
}

func TestAgeYears(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	// Year subtraction only: a December birthday still counts the full year.
	if got := AgeYears(time.Date(1990, time.December, 31, 0, 0, 0, 0, time.UTC), now); got != 36 {
		t.Errorf("AgeYears = %d, want 36", got)
	}
}

func TestBuildManifestOrderingAndProjection(t *testing.T) {
	now := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	age := 41
	entries := []Entry{
		{
			Pilgrim: model.Pilgrim{
				NIK: "2", Name: "budi santoso", Sex: "M",
				PassportName: "budi bin santoso",
				FatherName:   "santoso",
				BirthDate:    datePtr(1984, time.June, 2),
				Age:          &age,
				RoomCategory: "Quad",
				Address:      "jl. merdeka 1",
			},
			Assignment: &model.RoomAssignment{
				RoomCode: "Q1", MedinahNumber: "101", MekkahNumber: "204",
				Relation: strPtr("suami"),
			},
		},
		{
			Pilgrim: model.Pilgrim{
				NIK: "1", Name: "Aminah", Sex: "F",
				BirthDate:    datePtr(1990, time.December, 25),
				RoomCategory: "Double",
			},
		},
	}

	rows := BuildManifest(entries, now)
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	// Name ascending: Aminah first, sequence numbers exactly 1..N.
	if rows[0].Name != "AMINAH" || rows[0].Seq != 1 {
		t.Errorf("first row = %+v, want AMINAH with seq 1", rows[0])
	}
	if rows[1].Seq != 2 {
		t.Errorf("second seq = %d, want 2", rows[1].Seq)
	}

	a, b := rows[0], rows[1]
	if a.Title != "MRS" || b.Title != "MR" {
		t.Errorf("titles = %q/%q, want MRS/MR", a.Title, b.Title)
	}
	// Passport name wins over legal name and is uppercased.
	if b.Name != "BUDI BIN SANTOSO" {
		t.Errorf("passport name projection = %q", b.Name)
	}
	if b.FatherName != "SANTOSO" || a.FatherName != "" {
		t.Errorf("father names = %q/%q", b.FatherName, a.FatherName)
	}
	if a.BirthDate != "25/12/1990" {
		t.Errorf("birth date = %q, want 25/12/1990", a.BirthDate)
	}
	// Stored age wins over derivation; derived age is year subtraction.
	if b.Age != "41" {
		t.Errorf("stored age = %q, want 41", b.Age)
	}
	if a.Age != "36" {
		t.Errorf("derived age = %q, want 36 (2026-1990)", a.Age)
	}
	// Unassigned pilgrims get empty strings, never an error.
	if a.RoomCode != "" || a.MedinahNumber != "" || a.MekkahNumber != "" {
		t.Errorf("unassigned room fields not empty: %+v", a)
	}
	if b.RoomCode != "Q1" || b.MedinahNumber != "101" || b.MekkahNumber != "204" {
		t.Errorf("assigned room fields = %+v", b)
	}
	if b.Relation != "SUAMI" || b.Address != "JL. MERDEKA 1" {
		t.Errorf("proper noun normalization: relation=%q address=%q", b.Relation, b.Address)
	}
}

func TestBuildManifestKeepsSpecialRequestVerbatim(t *testing.T) {
	entries := []Entry{{Pilgrim: model.Pilgrim{Name: "X", SpecialRequest: "wheelchair near lift"}}}
	rows := BuildManifest(entries, time.Now())
	if rows[0].SpecialRequest != "wheelchair near lift" {
		t.Errorf("special request normalized: %q", rows[0].SpecialRequest)
	}
}

func TestBuildRosterGrouping(t *testing.T) {
	entries := []Entry{
		{
			Pilgrim:    model.Pilgrim{Name: "A"},
			Assignment: &model.RoomAssignment{RoomCode: "Q1", MedinahNumber: "101"},
		},
		{Pilgrim: model.Pilgrim{Name: "B"}}, // no room at all
		{
			Pilgrim:    model.Pilgrim{Name: "C"},
			Assignment: &model.RoomAssignment{RoomCode: "Q1", MedinahNumber: "101", MekkahNumber: "301"},
		},
		{
			Pilgrim:    model.Pilgrim{Name: "D"},
			Assignment: &model.RoomAssignment{RoomCode: "T4", MedinahNumber: "102"},
		},
	}

	medinah := BuildRoster(entries, CityMedinah)
	if len(medinah) != 2 {
		t.Fatalf("medinah rows = %d, want 2", len(medinah))
	}
	if medinah[0].Room != "101" || medinah[0].Type != "Quad" || medinah[0].Occupants != "A, C" {
		t.Errorf("room 101 = %+v", medinah[0])
	}
	if medinah[1].Room != "102" || medinah[1].Type != "Triple" || medinah[1].Occupants != "D" {
		t.Errorf("room 102 = %+v", medinah[1])
	}

	// Each assigned pilgrim appears exactly once in the city roster.
	for _, name := range []string{"A", "C", "D"} {
		count := 0
		for _, row := range medinah {
			count += strings.Count(row.Occupants, name)
		}
		if count != 1 {
			t.Errorf("occupant %s appears %d times in medinah roster", name, count)
		}
	}
	// B has no room number, so B is in no roster row.
	for _, row := range medinah {
		if strings.Contains(row.Occupants, "B") {
			t.Errorf("unassigned pilgrim leaked into roster: %+v", row)
		}
	}

	// The same pilgrim may sit in a different Makkah room.
	makkah := BuildRoster(entries, CityMakkah)
	if len(makkah) != 1 || makkah[0].Room != "301" || makkah[0].Occupants != "C" {
		t.Errorf("makkah roster = %+v", makkah)
	}
}

func TestBuildRosterScenarioSinglePilgrim(t *testing.T) {
	// Package P1: A assigned Q1/Medinah 101, B unassigned.
	entries := []Entry{
		{Pilgrim: model.Pilgrim{Name: "A"}, Assignment: &model.RoomAssignment{RoomCode: "Q1", MedinahNumber: "101"}},
		{Pilgrim: model.Pilgrim{Name: "B"}},
	}
	rows := BuildRoster(entries, CityMedinah)
	if len(rows) != 1 {
		t.Fatalf("roster rows = %d, want 1", len(rows))
	}
	got := rows[0]
	if got.Room != "101" || got.Type != "Quad" || got.Occupants != "A" {
		t.Errorf("roster row = %+v, want {101 Quad A}", got)
	}
}

func TestBuildCompleteness(t *testing.T) {
	ts := time.Now()
	p := model.Pilgrim{NIK: "123", Name: "A"}
	p.Documents.Passport = &ts
	p.Documents.Vaccine = &ts

	rows := BuildCompleteness([]model.Pilgrim{p})
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	marks := rows[0].Marks
	if len(marks) != len(model.DocumentSlots) {
		t.Fatalf("marks = %d slots, want %d", len(marks), len(model.DocumentSlots))
	}
	if marks["passport"] != "✓" || marks["vaccine"] != "✓" {
		t.Errorf("present slots not marked: %v", marks)
	}
	for _, slot := range []string{"photo", "id_card", "family_card", "marriage_cert", "birth_cert"} {
		if marks[slot] != "" {
			t.Errorf("absent slot %s marked %q", slot, marks[slot])
		}
	}
}
