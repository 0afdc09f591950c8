package tree

import (
	"strings"
	"time"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
)

// AccessLevel identifies the capability granted to an invited email.
// Levels beyond view are persisted but currently read as view; every
// write path stays owner-only.
type AccessLevel string

const (
	AccessView  AccessLevel = "VIEW"
	AccessEdit  AccessLevel = "EDIT"
	AccessAdmin AccessLevel = "ADMIN"
)

// NormalizeAccessLevel parses an access level label, defaulting to
// view for empty input.
func NormalizeAccessLevel(value string) (AccessLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", "VIEW":
		return AccessView, true
	case "EDIT":
		return AccessEdit, true
	case "ADMIN":
		return AccessAdmin, true
	default:
		return "", false
	}
}

// Access grants a single email address read access to a tree.
type Access struct {
	ID        string
	TreeID    string
	Email     string
	Level     AccessLevel
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the grant invariants.
func (a Access) Validate() error {
	if a.TreeID == "" {
		return apperrors.E(apperrors.KindInvalidInput, "grant tree id is required")
	}
	email := strings.TrimSpace(a.Email)
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.E(apperrors.KindInvalidInput, "grant requires a valid email address")
	}
	switch a.Level {
	case AccessView, AccessEdit, AccessAdmin:
		return nil
	default:
		return apperrors.E(apperrors.KindInvalidInput, "unknown access level")
	}
}

// NormalizeEmail lowercases and trims an email for grant matching.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
