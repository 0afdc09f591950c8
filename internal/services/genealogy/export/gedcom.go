package export

import (
	"fmt"
	"strings"

	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
)

// renderGEDCOM emits a GEDCOM 5.5 document with one INDI record per
// person. Parent links are emitted as FAMC references, father first.
func renderGEDCOM(snap Snapshot) (Result, error) {
	var b strings.Builder
	b.WriteString("0 HEAD\n")
	b.WriteString("1 SOUR FamilyTree\n")
	b.WriteString("1 GEDC\n")
	b.WriteString("2 VERS 5.5\n")
	b.WriteString("1 CHAR UTF-8\n")
	for _, p := range snap.People {
		fmt.Fprintf(&b, "0 @%s@ INDI\n", p.ID)
		fmt.Fprintf(&b, "1 NAME %s /%s/\n", p.FirstName, p.LastName)
		fmt.Fprintf(&b, "1 SEX %s\n", gedcomSex(p.Gender))
		if p.BirthDate != nil {
			b.WriteString("1 BIRT\n")
			fmt.Fprintf(&b, "2 DATE %s\n", formatDate(p.BirthDate))
		}
		if p.DeathDate != nil {
			b.WriteString("1 DEAT\n")
			fmt.Fprintf(&b, "2 DATE %s\n", formatDate(p.DeathDate))
		}
		if p.FatherID != nil {
			fmt.Fprintf(&b, "1 FAMC @%s@\n", *p.FatherID)
		}
		if p.MotherID != nil {
			fmt.Fprintf(&b, "1 FAMC @%s@\n", *p.MotherID)
		}
	}
	b.WriteString("0 TRLR\n")
	return Result{
		Data:        []byte(b.String()),
		ContentType: "text/plain",
		Filename:    baseFilename(snap.Tree.Name) + ".ged",
	}, nil
}

func gedcomSex(g person.Gender) string {
	switch g {
	case person.GenderMale:
		return "M"
	case person.GenderFemale:
		return "F"
	default:
		return "U"
	}
}
