// Package tree holds the family tree aggregate, sharing grants, and
// share token generation.
package tree

import (
	"strings"
	"time"

	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
)

// DefaultLanguage is applied when a tree is created without one.
const DefaultLanguage = "en"

// Tree is a family tree owned by a single user.
type Tree struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	IsPublic    bool
	HideLiving  bool
	ShareToken  *string
	Language    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the tree invariants.
func (t Tree) Validate() error {
	if t.OwnerID == "" {
		return apperrors.E(apperrors.KindInvalidInput, "tree owner is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return apperrors.E(apperrors.KindInvalidInput, "tree name is required")
	}
	if t.Language != "" {
		if _, err := language.Parse(t.Language); err != nil {
			return apperrors.E(apperrors.KindInvalidInput, "tree language must be a valid BCP-47 tag")
		}
	}
	return nil
}

// NormalizeLanguage parses and canonicalizes a language tag, falling
// back to DefaultLanguage when the input is empty.
func NormalizeLanguage(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DefaultLanguage, nil
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", apperrors.E(apperrors.KindInvalidInput, "tree language must be a valid BCP-47 tag")
	}
	return tag.String(), nil
}
