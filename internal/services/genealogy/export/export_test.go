package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/tree"
)

func ref(id string) *string { return &id }

func date(value string) *time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Tree: tree.Tree{ID: "t1", Name: "Branco Family", Description: "four generations"},
		People: []person.Person{
			{ID: "p1", FirstName: "Jorge", LastName: "Branco", Gender: person.GenderMale, BirthDate: date("1950-03-01"), DeathDate: date("2020-11-12")},
			{ID: "p2", FirstName: "Ana", LastName: "Branco", Gender: person.GenderFemale},
			{ID: "p3", FirstName: "Rita", LastName: "Branco", Gender: person.GenderFemale, FatherID: ref("p1"), MotherID: ref("p2")},
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"CSV", FormatCSV},
		{" gedcom ", FormatGEDCOM},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseFormat(%q) = %v, %v, want %v", tc.in, got, err, tc.want)
		}
	}
	_, err := ParseFormat("xml")
	if apperrors.KindOf(err) != apperrors.KindInvalidInput {
		t.Fatalf("ParseFormat(xml) kind = %v, want invalid_input", apperrors.KindOf(err))
	}
}

func TestRenderCSVShape(t *testing.T) {
	res, err := Render(FormatCSV, sampleSnapshot(), Options{}, time.Now())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(res.Data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("csv has %d lines, want 4", len(lines))
	}
	if lines[0] != "ID,First Name,Middle Name,Last Name,Gender,Birth Date,Death Date,Father ID,Mother ID" {
		t.Fatalf("header = %q", lines[0])
	}
	for i, line := range lines {
		if got := len(strings.Split(line, ",")); got != 9 {
			t.Fatalf("line %d has %d columns, want 9", i, got)
		}
	}
	row := strings.Split(lines[3], ",")
	if row[7] != "p1" || row[8] != "p2" {
		t.Fatalf("parent columns = %q, %q, want p1, p2", row[7], row[8])
	}
	if res.Filename != "Branco_Family_export.csv" {
		t.Fatalf("filename = %q", res.Filename)
	}
	if res.ContentType != "text/csv" {
		t.Fatalf("content type = %q", res.ContentType)
	}
}

func TestRenderCSVEmptySnapshot(t *testing.T) {
	snap := Snapshot{Tree: tree.Tree{ID: "t1", Name: "Empty"}}
	res, err := Render(FormatCSV, snap, Options{}, time.Now())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(res.Data), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty csv has %d lines, want header only", len(lines))
	}
}

func TestRenderJSON(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	snap := sampleSnapshot()
	snap.Notes = map[string][]person.Note{
		"p1": {
			{ID: "n1", Content: "public note", IsPrivate: false},
			{ID: "n2", Content: "private note", IsPrivate: true},
		},
	}
	snap.Events = map[string][]person.Event{
		"p1": {{ID: "e1", Type: person.EventBirth, Date: date("1950-03-01"), Sources: "parish register"}},
	}

	res, err := Render(FormatJSON, snap, Options{IncludeNotes: true}, now)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	var doc struct {
		Tree struct {
			ID         string `json:"id"`
			Name       string `json:"name"`
			ExportedAt string `json:"exportedAt"`
			People     []struct {
				ID       string  `json:"id"`
				FatherID *string `json:"fatherId"`
				Events   []struct {
					Type    string `json:"type"`
					Sources string `json:"sources"`
				} `json:"events"`
				Notes []struct {
					ID string `json:"id"`
				} `json:"notes"`
			} `json:"people"`
		} `json:"tree"`
	}
	if err := json.Unmarshal(res.Data, &doc); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if doc.Tree.ID != "t1" || doc.Tree.Name != "Branco Family" {
		t.Fatalf("tree envelope = %+v", doc.Tree)
	}
	if doc.Tree.ExportedAt != "2026-08-01T12:00:00Z" {
		t.Fatalf("exportedAt = %q", doc.Tree.ExportedAt)
	}
	if len(doc.Tree.People) != 3 {
		t.Fatalf("people count = %d, want 3", len(doc.Tree.People))
	}
	if doc.Tree.People[2].FatherID == nil || *doc.Tree.People[2].FatherID != "p1" {
		t.Fatal("fatherId missing on child")
	}
	first := doc.Tree.People[0]
	if len(first.Notes) != 1 || first.Notes[0].ID != "n1" {
		t.Fatalf("notes = %+v, want only the public note", first.Notes)
	}
	if len(first.Events) != 1 || first.Events[0].Sources != "" {
		t.Fatalf("events = %+v, want sources omitted", first.Events)
	}
	if res.Filename != "Branco_Family_export.json" {
		t.Fatalf("filename = %q", res.Filename)
	}
}

func TestRenderJSONIncludeFlags(t *testing.T) {
	snap := sampleSnapshot()
	snap.Notes = map[string][]person.Note{"p1": {{ID: "n2", Content: "private", IsPrivate: true}}}
	snap.Events = map[string][]person.Event{"p1": {{ID: "e1", Type: person.EventBirth, Sources: "register"}}}

	res, err := Render(FormatJSON, snap, Options{IncludeNotes: true, IncludePrivate: true, IncludeSources: true}, time.Now())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	text := string(res.Data)
	if !strings.Contains(text, `"n2"`) {
		t.Fatal("private note missing with includePrivate")
	}
	if !strings.Contains(text, `"register"`) {
		t.Fatal("event sources missing with includeSources")
	}
}

func TestRenderGEDCOM(t *testing.T) {
	res, err := Render(FormatGEDCOM, sampleSnapshot(), Options{}, time.Now())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	text := string(res.Data)
	if !strings.HasPrefix(text, "0 HEAD\n1 SOUR FamilyTree\n1 GEDC\n2 VERS 5.5\n1 CHAR UTF-8\n") {
		t.Fatalf("header = %q", text[:min(len(text), 60)])
	}
	if !strings.HasSuffix(text, "0 TRLR\n") {
		t.Fatal("missing trailer")
	}
	if !strings.Contains(text, "0 @p1@ INDI\n1 NAME Jorge /Branco/\n1 SEX M\n1 BIRT\n2 DATE 1950-03-01\n1 DEAT\n2 DATE 2020-11-12\n") {
		t.Fatalf("p1 record malformed:\n%s", text)
	}
	if !strings.Contains(text, "0 @p3@ INDI\n1 NAME Rita /Branco/\n1 SEX F\n1 FAMC @p1@\n1 FAMC @p2@\n") {
		t.Fatalf("p3 record malformed:\n%s", text)
	}
	if res.Filename != "Branco_Family.ged" {
		t.Fatalf("filename = %q", res.Filename)
	}
}

func TestRenderGEDCOMEmpty(t *testing.T) {
	snap := Snapshot{Tree: tree.Tree{ID: "t1", Name: "Empty"}}
	res, err := Render(FormatGEDCOM, snap, Options{}, time.Now())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "0 HEAD\n1 SOUR FamilyTree\n1 GEDC\n2 VERS 5.5\n1 CHAR UTF-8\n0 TRLR\n"
	if string(res.Data) != want {
		t.Fatalf("empty gedcom = %q, want %q", res.Data, want)
	}
}
