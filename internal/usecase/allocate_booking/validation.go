package allocate_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	// Слоты существуют только на границах целых часов
	if req.StartAt.Minute() != 0 || req.StartAt.Second() != 0 || req.StartAt.Nanosecond() != 0 {
		return fmt.Errorf("%w: startAt must be on a whole-hour boundary", ErrInvalidInput)
	}

	if req.DurationHours < domain.MinSessionHours || req.DurationHours > domain.MaxSessionHours {
		return fmt.Errorf("%w: durationHours must be in [%d, %d]",
			ErrInvalidInput, domain.MinSessionHours, domain.MaxSessionHours)
	}

	if req.Coach.WantsCoach() {
		if req.CoachHours <= 0 {
			return fmt.Errorf("%w: coachHours must be positive when a coach is requested", ErrInvalidInput)
		}
		if req.CoachHours > req.DurationHours {
			return fmt.Errorf("%w: coachHours cannot exceed durationHours", ErrInvalidInput)
		}
	} else if req.CoachHours != 0 {
		return fmt.Errorf("%w: coachHours must be zero without a coach", ErrInvalidInput)
	}

	return nil
}

// validateBookingWindow проверяет обе границы окна бронирования.
// Нижняя: начало слота не раньше now + MinBookingNoticeHours.
// Верхняя: начало слота не позже now + MaxAdvanceBookingDays.
func validateBookingWindow(startAt, now time.Time) error {
	if startAt.Before(now.Add(domain.MinBookingNoticeHours * time.Hour)) {
		return fmt.Errorf("%w: must book at least %d hours in advance",
			ErrTooLateToBook, domain.MinBookingNoticeHours)
	}

	if startAt.After(now.AddDate(0, 0, domain.MaxAdvanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance",
			ErrDateTooFarInFuture, domain.MaxAdvanceBookingDays)
	}

	return nil
}

// validateCoachExists проверяет, что конкретно запрошенный тренер есть в реестре
func validateCoachExists(selector domain.CoachSelector, roster []domain.Coach) error {
	coachID, ok := selector.CoachID()
	if !ok {
		return nil
	}
	for i := range roster {
		if roster[i].ID == coachID {
			return nil
		}
	}
	return ErrCoachNotFound
}

// lowestFreeSimulator выбирает наименьший свободный id симулятора из
// {1..SimulatorCount} по пересекающимся активным бронированиям.
// Возвращает 0, когда все симуляторы заняты.
func lowestFreeSimulator(bookings []*domain.Booking, start, end time.Time) int {
	occupied := make(map[int]bool, domain.SimulatorCount)
	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		if booking.Overlaps(start, end) {
			occupied[booking.SimulatorID] = true
		}
	}

	for id := domain.FirstSimulatorID; id <= domain.SimulatorCount; id++ {
		if !occupied[id] {
			return id
		}
	}
	return 0
}

// coachWorksWeekday проверяет участие тренера в дне недели
func coachWorksWeekday(coachID int64, weekday time.Weekday, availability map[int64][]domain.CoachAvailabilityBlock) bool {
	for _, block := range availability[coachID] {
		if block.Weekday == weekday {
			return true
		}
	}
	return false
}

// coachWindowContained проверяет полное покрытие [startHour, endHour)
// каким-то блоком тренера в этот день недели
func coachWindowContained(coachID int64, weekday time.Weekday, startHour, endHour int, availability map[int64][]domain.CoachAvailabilityBlock) bool {
	for _, block := range availability[coachID] {
		if block.Weekday == weekday && block.Contains(startHour, endHour) {
			return true
		}
	}
	return false
}

// coachHasConflict проверяет пересечение [start, end) с бронированиями тренера
func coachHasConflict(coachID int64, start, end time.Time, bookings []*domain.Booking) bool {
	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		if booking.CoachOverlaps(coachID, start, end) {
			return true
		}
	}
	return false
}
