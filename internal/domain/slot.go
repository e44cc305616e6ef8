package domain

import (
	"fmt"
	"time"
)

// UnavailabilityReason is a machine-readable code explaining why a slot is
// not bookable. Reasons are data attached to slots, not errors: the majority
// of generated candidates are expected to be unavailable.
type UnavailabilityReason string

const (
	// ReasonClosed студия закрыта в эту дату (правило недели или override)
	ReasonClosed UnavailabilityReason = "closed"
	// ReasonHoliday фиксированный ежегодный выходной
	ReasonHoliday UnavailabilityReason = "holiday"
	// ReasonOutsideNoticeWindow слот начинается раньше now + MinBookingNoticeHours
	ReasonOutsideNoticeWindow UnavailabilityReason = "outside_notice_window"
	// ReasonBeyondHorizon слот начинается позже now + MaxAdvanceBookingDays
	ReasonBeyondHorizon UnavailabilityReason = "beyond_booking_horizon"
	// ReasonCoachDayOff у запрошенного тренера нет рабочих блоков в этот день недели
	ReasonCoachDayOff UnavailabilityReason = "coach_day_off"
	// ReasonCoachWindow блок тренера не покрывает запрошенное окно целиком
	ReasonCoachWindow UnavailabilityReason = "coach_window"
	// ReasonCoachBusy у тренера уже есть пересекающееся бронирование
	ReasonCoachBusy UnavailabilityReason = "coach_busy"
	// ReasonNoCoachAvailable ни один тренер не проходит проверки для "any"
	ReasonNoCoachAvailable UnavailabilityReason = "no_coach_available"
	// ReasonCapacityFull все симуляторы заняты
	ReasonCapacityFull UnavailabilityReason = "capacity_full"
)

// Slot is one evaluated booking candidate. Placeholder slots stand in for a
// fully closed date so the caller can render a per-day reason without
// enumerating hours.
type Slot struct {
	StartAt     time.Time
	EndAt       time.Time
	Label       string
	Available   bool
	Reason      UnavailabilityReason // empty iff Available
	Placeholder bool
}

// NewSlot builds an available hourly candidate.
func NewSlot(start time.Time, durationHours int) Slot {
	end := start.Add(time.Duration(durationHours) * time.Hour)
	return Slot{
		StartAt:   start,
		EndAt:     end,
		Label:     fmt.Sprintf("%s - %s", start.Format(TimeFormat), end.Format(TimeFormat)),
		Available: true,
	}
}

// Unavailable returns a copy of the slot marked unavailable with the reason.
func (s Slot) Unavailable(reason UnavailabilityReason) Slot {
	s.Available = false
	s.Reason = reason
	return s
}

// NewPlaceholderSlot builds the single sentinel slot emitted for a fully
// closed date.
func NewPlaceholderSlot(date time.Time, reason UnavailabilityReason) Slot {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return Slot{
		StartAt:     day,
		EndAt:       day.AddDate(0, 0, 1),
		Label:       "--",
		Available:   false,
		Reason:      reason,
		Placeholder: true,
	}
}
