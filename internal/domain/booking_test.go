package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SimStudio-BookingService/pkg/ptr"
)

func TestBooking_Overlaps_HalfOpenIntervals(t *testing.T) {
	start := time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)
	booking := &Booking{
		StartAt: start,
		EndAt:   start.Add(2 * time.Hour),
		Status:  StatusConfirmed,
	}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected bool
	}{
		{"identical interval", start, start.Add(2 * time.Hour), true},
		{"contained interval", start.Add(30 * time.Minute), start.Add(time.Hour), true},
		{"partial overlap at end", start.Add(time.Hour), start.Add(3 * time.Hour), true},
		{"touching at booking end", start.Add(2 * time.Hour), start.Add(4 * time.Hour), false},
		{"touching at booking start", start.Add(-2 * time.Hour), start, false},
		{"disjoint after", start.Add(3 * time.Hour), start.Add(5 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, booking.Overlaps(tt.start, tt.end))
		})
	}
}

func TestBooking_CoachOverlaps(t *testing.T) {
	start := time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)
	booking := &Booking{
		CoachID:       ptr.Ptr(int64(7)),
		StartAt:       start,
		EndAt:         start.Add(3 * time.Hour),
		DurationHours: 3,
		CoachHours:    1, // тренер занят только первый час
		Status:        StatusConfirmed,
	}

	// Пересечение с часом тренера
	assert.True(t, booking.CoachOverlaps(7, start, start.Add(time.Hour)))
	// Второй час сессии тренером уже не занят
	assert.False(t, booking.CoachOverlaps(7, start.Add(time.Hour), start.Add(2*time.Hour)))
	// Другой тренер не конфликтует
	assert.False(t, booking.CoachOverlaps(8, start, start.Add(time.Hour)))

	// Бронирование без тренера не претендует ни на кого
	noCoach := &Booking{StartAt: start, EndAt: start.Add(time.Hour), Status: StatusConfirmed}
	assert.False(t, noCoach.CoachOverlaps(7, start, start.Add(time.Hour)))
}

func TestBooking_StatusPredicates(t *testing.T) {
	tests := []struct {
		status     BookingStatus
		active     bool
		cancelable bool
		debited    bool
	}{
		{StatusPendingPayment, true, true, false},
		{StatusConfirmed, true, true, true},
		{StatusCompleted, true, false, true},
		{StatusCancelledByUser, false, false, true},
		{StatusCancelledByStudio, false, false, true},
		{StatusExpired, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := &Booking{Status: tt.status}
			assert.Equal(t, tt.active, b.IsActive())
			assert.Equal(t, tt.cancelable, b.CanBeCancelled())
			assert.Equal(t, tt.debited, b.WasDebited())
		})
	}
}

func TestParseCoachSelector(t *testing.T) {
	none, err := ParseCoachSelector("")
	assert.NoError(t, err)
	assert.True(t, none.IsNone())

	none, err = ParseCoachSelector("none")
	assert.NoError(t, err)
	assert.False(t, none.WantsCoach())

	any, err := ParseCoachSelector("any")
	assert.NoError(t, err)
	assert.True(t, any.IsAny())

	specific, err := ParseCoachSelector("42")
	assert.NoError(t, err)
	id, ok := specific.CoachID()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, err = ParseCoachSelector("0")
	assert.Error(t, err)
	_, err = ParseCoachSelector("coach")
	assert.Error(t, err)
}

func TestNewSlot_LabelAndInterval(t *testing.T) {
	start := time.Date(2026, 5, 12, 15, 0, 0, 0, time.UTC)
	slot := NewSlot(start, 2)

	assert.Equal(t, "15:00 - 17:00", slot.Label)
	assert.Equal(t, start, slot.StartAt)
	assert.Equal(t, start.Add(2*time.Hour), slot.EndAt)
	assert.True(t, slot.Available)
	assert.Empty(t, slot.Reason)
}

func TestNewPlaceholderSlot(t *testing.T) {
	date := time.Date(2026, 4, 25, 0, 0, 0, 0, time.UTC)
	slot := NewPlaceholderSlot(date, ReasonHoliday)

	assert.Equal(t, "--", slot.Label)
	assert.True(t, slot.Placeholder)
	assert.False(t, slot.Available)
	assert.Equal(t, ReasonHoliday, slot.Reason)
}
