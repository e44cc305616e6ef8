package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Coach represents a bookable coach. Roster order (registration order,
// ascending id) is the stable iteration order for "any coach" resolution.
type Coach struct {
	ID   int64
	Name string
}

// CoachAvailabilityBlock is a recurring weekly window in which the coach can
// be booked. Hours are whole-hour boundaries.
type CoachAvailabilityBlock struct {
	CoachID   int64
	Weekday   time.Weekday
	StartHour int
	EndHour   int
}

// Contains reports whether the block fully contains [startHour, endHour).
// Частичное покрытие недостаточно - containment строгий.
func (b CoachAvailabilityBlock) Contains(startHour, endHour int) bool {
	return b.StartHour <= startHour && b.EndHour >= endHour
}

// CoachSelectorKind enumerates the three shapes of a coach request.
type CoachSelectorKind int

const (
	// SelectorNone - сессия без тренера
	SelectorNone CoachSelectorKind = iota
	// SelectorAny - подойдёт любой свободный тренер
	SelectorAny
	// SelectorSpecific - запрошен конкретный тренер
	SelectorSpecific
)

// CoachSelector is a tagged variant replacing the string "none"/"any"
// sentinels: exhaustive handling is compiler-checked and a coach id can no
// longer be confused with a pseudo-identifier.
type CoachSelector struct {
	kind    CoachSelectorKind
	coachID int64
}

// NoCoach returns the selector for a session without a coach.
func NoCoach() CoachSelector { return CoachSelector{kind: SelectorNone} }

// AnyCoach returns the selector accepting any qualifying coach.
func AnyCoach() CoachSelector { return CoachSelector{kind: SelectorAny} }

// SpecificCoach returns the selector for one concrete coach.
func SpecificCoach(id int64) CoachSelector {
	return CoachSelector{kind: SelectorSpecific, coachID: id}
}

// Kind returns the selector variant.
func (s CoachSelector) Kind() CoachSelectorKind { return s.kind }

// IsNone returns true for a no-coach selector.
func (s CoachSelector) IsNone() bool { return s.kind == SelectorNone }

// IsAny returns true for an any-coach selector.
func (s CoachSelector) IsAny() bool { return s.kind == SelectorAny }

// CoachID returns the requested coach id; ok is false unless the selector is
// specific.
func (s CoachSelector) CoachID() (int64, bool) {
	if s.kind != SelectorSpecific {
		return 0, false
	}
	return s.coachID, true
}

// WantsCoach returns true when the request needs a coach resolved.
func (s CoachSelector) WantsCoach() bool { return s.kind != SelectorNone }

// String implements fmt.Stringer using the wire representation.
func (s CoachSelector) String() string {
	switch s.kind {
	case SelectorAny:
		return "any"
	case SelectorSpecific:
		return strconv.FormatInt(s.coachID, 10)
	default:
		return "none"
	}
}

// ParseCoachSelector parses the wire representation: "none", "any", or a
// positive decimal coach id. An empty string means no coach.
func ParseCoachSelector(raw string) (CoachSelector, error) {
	switch raw {
	case "", "none":
		return NoCoach(), nil
	case "any":
		return AnyCoach(), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return CoachSelector{}, fmt.Errorf("invalid coach selector %q", raw)
	}
	return SpecificCoach(id), nil
}
