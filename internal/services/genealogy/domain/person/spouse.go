package person

import (
	"time"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
)

// Spouse records a marriage between two people in the same tree. A
// single row covers both directions of the relationship.
type Spouse struct {
	ID               string
	PersonID         string
	SpouseID         string
	MarriageDate     *time.Time
	MarriageLocation string
	DivorceDate      *time.Time
	IsCurrent        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Involves reports whether the relationship references the given
// person on either side.
func (s Spouse) Involves(personID string) bool {
	return s.PersonID == personID || s.SpouseID == personID
}

// Other returns the partner opposite the given person id.
func (s Spouse) Other(personID string) string {
	if s.PersonID == personID {
		return s.SpouseID
	}
	return s.PersonID
}

// Validate checks the spouse invariants.
func (s Spouse) Validate() error {
	if s.PersonID == "" || s.SpouseID == "" {
		return apperrors.E(apperrors.KindInvalidInput, "spouse relation requires both person ids")
	}
	if s.PersonID == s.SpouseID {
		return apperrors.E(apperrors.KindInvalidInput, "person cannot be married to themselves")
	}
	return nil
}
