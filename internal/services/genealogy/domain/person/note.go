package person

import (
	"strings"
	"time"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
)

// Note is a free-form annotation attached to a person. Notes default
// to private and stay hidden from every non-owner view.
type Note struct {
	ID        string
	PersonID  string
	Content   string
	IsPrivate bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the note invariants.
func (n Note) Validate() error {
	if n.PersonID == "" {
		return apperrors.E(apperrors.KindInvalidInput, "note person id is required")
	}
	if strings.TrimSpace(n.Content) == "" {
		return apperrors.E(apperrors.KindInvalidInput, "note content is required")
	}
	return nil
}
