// Package person holds the person aggregate and its validation rules.
package person

import (
	"strings"
	"time"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
)

// Gender identifies a person's recorded gender label.
type Gender string

const (
	GenderUnknown Gender = "UNKNOWN"
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderOther   Gender = "OTHER"
)

// NormalizeGender parses a gender label into a canonical value.
// Empty and unrecognized labels resolve to GenderUnknown.
func NormalizeGender(value string) Gender {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "MALE":
		return GenderMale
	case "FEMALE":
		return GenderFemale
	case "OTHER":
		return GenderOther
	default:
		return GenderUnknown
	}
}

// Person is a member of a family tree.
type Person struct {
	ID         string
	TreeID     string
	FirstName  string
	MiddleName string
	LastName   string
	MaidenName string
	Suffix     string
	Nickname   string
	Gender     Gender
	BirthDate  *time.Time
	DeathDate  *time.Time
	IsLiving   bool
	IsPublic   bool
	PhotoURL   string
	FatherID   *string
	MotherID   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName joins the non-empty name parts with single spaces.
func (p Person) FullName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// Validate checks the person invariants that do not require tree
// membership lookups. Parent resolution within the tree is checked by
// the application layer against the stored person set.
func (p Person) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return apperrors.E(apperrors.KindInvalidInput, "first name is required")
	}
	if p.FatherID != nil && *p.FatherID == p.ID {
		return apperrors.E(apperrors.KindInvalidInput, "person cannot be their own father")
	}
	if p.MotherID != nil && *p.MotherID == p.ID {
		return apperrors.E(apperrors.KindInvalidInput, "person cannot be their own mother")
	}
	if p.FatherID != nil && p.MotherID != nil && *p.FatherID == *p.MotherID {
		return apperrors.E(apperrors.KindInvalidInput, "father and mother must be different people")
	}
	return nil
}
