package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	// StatusPendingPayment помечает бронирование-заглушку, созданное до подтверждения оплаты.
	// Кредиты для него не списываются; заглушка либо подтверждается внешним платёжным флоу,
	// либо истекает по TTL (см. jobs/sweeper).
	StatusPendingPayment    BookingStatus = "pending_payment"
	StatusConfirmed         BookingStatus = "confirmed"
	StatusCompleted         BookingStatus = "completed"
	StatusCancelledByUser   BookingStatus = "cancelled_by_user"
	StatusCancelledByStudio BookingStatus = "cancelled_by_studio"
	StatusExpired           BookingStatus = "expired"
)

// Booking represents a committed simulator reservation.
// A booking always holds exactly one simulator unit for [StartAt, EndAt)
// and optionally one coach for [StartAt, StartAt+CoachHours).
type Booking struct {
	ID            int64
	UserID        int64
	SimulatorID   int
	CoachID       *int64 // nil = без тренера
	StartAt       time.Time
	EndAt         time.Time
	DurationHours int
	CoachHours    int
	Status        BookingStatus

	// Denormalized data for history
	UserName *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds simulator/coach capacity
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByUser &&
		b.Status != StatusCancelledByStudio &&
		b.Status != StatusExpired
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPendingPayment || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledByStudio
}

// WasDebited returns true if credits were debited when the booking was created.
// Pending-payment placeholders are created before payment clears and never
// touch the credit balance.
func (b *Booking) WasDebited() bool {
	return b.Status != StatusPendingPayment
}

// Overlaps reports whether the booking's simulator interval overlaps
// [start, end). Touching endpoints do not overlap (half-open intervals).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

// CoachInterval returns the half-open interval the booking's coach is claimed
// for, and false when the booking has no coach.
func (b *Booking) CoachInterval() (start, end time.Time, ok bool) {
	if b.CoachID == nil || b.CoachHours <= 0 {
		return time.Time{}, time.Time{}, false
	}
	return b.StartAt, b.StartAt.Add(time.Duration(b.CoachHours) * time.Hour), true
}

// CoachOverlaps reports whether the booking claims the given coach for an
// interval overlapping [start, end).
func (b *Booking) CoachOverlaps(coachID int64, start, end time.Time) bool {
	cStart, cEnd, ok := b.CoachInterval()
	if !ok || *b.CoachID != coachID {
		return false
	}
	return cStart.Before(end) && cEnd.After(start)
}
