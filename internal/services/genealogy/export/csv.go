package export

import "strings"

var csvHeader = []string{
	"ID", "First Name", "Middle Name", "Last Name", "Gender",
	"Birth Date", "Death Date", "Father ID", "Mother ID",
}

// renderCSV joins fields with plain commas without quoting. Field
// values containing commas or newlines will break column alignment;
// the web client that consumes these files shares the limitation.
func renderCSV(snap Snapshot) (Result, error) {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteString("\n")
	for _, p := range snap.People {
		fields := []string{
			p.ID,
			p.FirstName,
			p.MiddleName,
			p.LastName,
			string(p.Gender),
			formatDate(p.BirthDate),
			formatDate(p.DeathDate),
			deref(p.FatherID),
			deref(p.MotherID),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}
	return Result{
		Data:        []byte(b.String()),
		ContentType: "text/csv",
		Filename:    baseFilename(snap.Tree.Name) + "_export.csv",
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
