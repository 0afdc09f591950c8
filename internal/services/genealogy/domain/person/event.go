package person

import (
	"strings"
	"time"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
)

// EventType identifies a life event category.
type EventType string

const (
	EventBirth       EventType = "BIRTH"
	EventDeath       EventType = "DEATH"
	EventMarriage    EventType = "MARRIAGE"
	EventDivorce     EventType = "DIVORCE"
	EventGraduation  EventType = "GRADUATION"
	EventMilitary    EventType = "MILITARY"
	EventImmigration EventType = "IMMIGRATION"
	EventCensus      EventType = "CENSUS"
	EventBurial      EventType = "BURIAL"
	EventChristening EventType = "CHRISTENING"
	EventEngagement  EventType = "ENGAGEMENT"
	EventAnniversary EventType = "ANNIVERSARY"
	EventCustom      EventType = "CUSTOM"
)

var eventTypes = map[EventType]bool{
	EventBirth:       true,
	EventDeath:       true,
	EventMarriage:    true,
	EventDivorce:     true,
	EventGraduation:  true,
	EventMilitary:    true,
	EventImmigration: true,
	EventCensus:      true,
	EventBurial:      true,
	EventChristening: true,
	EventEngagement:  true,
	EventAnniversary: true,
	EventCustom:      true,
}

// NormalizeEventType parses an event type label into a canonical value.
func NormalizeEventType(value string) (EventType, bool) {
	candidate := EventType(strings.ToUpper(strings.TrimSpace(value)))
	if eventTypes[candidate] {
		return candidate, true
	}
	return "", false
}

// Event is a dated life event attached to a person.
type Event struct {
	ID          string
	PersonID    string
	Type        EventType
	Date        *time.Time
	Location    string
	Description string
	Sources     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the event invariants.
func (e Event) Validate() error {
	if e.PersonID == "" {
		return apperrors.E(apperrors.KindInvalidInput, "event person id is required")
	}
	if !eventTypes[e.Type] {
		return apperrors.E(apperrors.KindInvalidInput, "unknown event type")
	}
	return nil
}
