// Package export serializes a visibility-filtered tree snapshot into
// downloadable JSON, CSV, or GEDCOM documents.
package export

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/tree"
)

// Format identifies an export serialization.
type Format string

const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatGEDCOM Format = "gedcom"
)

// ParseFormat parses a format label.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "gedcom":
		return FormatGEDCOM, nil
	default:
		return "", apperrors.E(apperrors.KindInvalidInput, "export format must be json, csv, or gedcom")
	}
}

// Options selects optional record sets for the export. Private notes
// only ever reach an export when the caller's scope contains them.
type Options struct {
	IncludePrivate bool
	IncludeNotes   bool
	IncludeSources bool
}

// Snapshot is the already-filtered record set to serialize.
type Snapshot struct {
	Tree   tree.Tree
	People []person.Person
	Events map[string][]person.Event
	Notes  map[string][]person.Note
}

// Result is a rendered export document.
type Result struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Render serializes the snapshot in the requested format.
func Render(format Format, snap Snapshot, opts Options, now time.Time) (Result, error) {
	switch format {
	case FormatJSON:
		return renderJSON(snap, opts, now)
	case FormatCSV:
		return renderCSV(snap)
	case FormatGEDCOM:
		return renderGEDCOM(snap)
	default:
		return Result{}, apperrors.E(apperrors.KindInvalidInput, "export format must be json, csv, or gedcom")
	}
}

var filenameSpaces = regexp.MustCompile(`\s+`)

// baseFilename collapses whitespace runs in the tree name to single
// underscores.
func baseFilename(name string) string {
	return filenameSpaces.ReplaceAllString(strings.TrimSpace(name), "_")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
