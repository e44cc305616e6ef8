package generate_sessions

import (
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// generateDaySlots генерирует почасовые кандидаты для открытого дня.
// Кандидат отбрасывается, если startHour + duration выходит за час закрытия.
func generateDaySlots(date time.Time, window domain.DayWindow, durationHours int) []domain.Slot {
	slots := make([]domain.Slot, 0, window.CloseHour-window.OpenHour)

	for startHour := window.OpenHour; startHour+durationHours <= window.CloseHour; startHour++ {
		start := time.Date(date.Year(), date.Month(), date.Day(), startHour, 0, 0, 0, date.Location())
		slots = append(slots, domain.NewSlot(start, durationHours))
	}

	return slots
}

// dayClosureReason возвращает причину закрытия всей даты или пустую строку.
//
// Дата закрыта целиком, если: фиксированный выходной / закрыта по календарю /
// у КОНКРЕТНО запрошенного тренера нет блоков в этот день недели. Почасовые
// проверки (покрытие окна, конфликты) на закрытие даты не влияют - они
// оцениваются per-slot.
func dayClosureReason(date time.Time, window domain.DayWindow, selector domain.CoachSelector, availability map[int64][]domain.CoachAvailabilityBlock) domain.UnavailabilityReason {
	if !window.Open {
		if domain.IsClosedHoliday(date) {
			return domain.ReasonHoliday
		}
		return domain.ReasonClosed
	}

	if coachID, ok := selector.CoachID(); ok {
		if !coachWorksWeekday(coachID, date.Weekday(), availability) {
			return domain.ReasonCoachDayOff
		}
	}

	return ""
}

// evaluateSlot оценивает один кандидат по всем измерениям доступности.
// Порядок проверок фиксирован: при нескольких одновременных отказах
// сообщается ровно одна причина - первая отказавшая.
func evaluateSlot(slot domain.Slot, req *Request, now time.Time, snap *snapshot) domain.Slot {
	// 1. Нижняя граница окна бронирования
	if slot.StartAt.Before(now.Add(domain.MinBookingNoticeHours * time.Hour)) {
		return slot.Unavailable(domain.ReasonOutsideNoticeWindow)
	}

	// 2. Верхняя граница окна бронирования
	if slot.StartAt.After(now.AddDate(0, 0, domain.MaxAdvanceBookingDays)) {
		return slot.Unavailable(domain.ReasonBeyondHorizon)
	}

	if req.Coach.WantsCoach() && req.CoachHours > 0 {
		coachStart := slot.StartAt
		coachEnd := coachStart.Add(time.Duration(req.CoachHours) * time.Hour)
		startHour := coachStart.Hour()
		endHour := startHour + req.CoachHours

		if coachID, ok := req.Coach.CoachID(); ok {
			// 4. Полное покрытие окна тренера (участие в дне недели
			// проверено на уровне даты)
			if !coachWindowContained(coachID, slot.StartAt.Weekday(), startHour, endHour, snap.availability) {
				return slot.Unavailable(domain.ReasonCoachWindow)
			}

			// 5. Конфликт с существующими бронированиями тренера
			if coachHasConflict(coachID, coachStart, coachEnd, snap.bookings) {
				return slot.Unavailable(domain.ReasonCoachBusy)
			}
		} else {
			// 6. Для "any" достаточно одного тренера, проходящего проверки 3-5
			if resolveAnyCoach(snap.roster, slot.StartAt.Weekday(), startHour, endHour, coachStart, coachEnd, snap.availability, snap.bookings) == nil {
				return slot.Unavailable(domain.ReasonNoCoachAvailable)
			}
		}
	}

	// 7. Ёмкость пула симуляторов
	if countOverlappingBookings(slot.StartAt, slot.EndAt, snap.bookings) >= domain.SimulatorCount {
		return slot.Unavailable(domain.ReasonCapacityFull)
	}

	return slot
}

// resolveAnyCoach возвращает первого по порядку реестра тренера, проходящего
// проверки участия в дне, покрытия окна и отсутствия конфликтов. Порядок
// реестра стабильный (порядок регистрации), поэтому выбор детерминирован.
func resolveAnyCoach(
	roster []domain.Coach,
	weekday time.Weekday,
	startHour, endHour int,
	coachStart, coachEnd time.Time,
	availability map[int64][]domain.CoachAvailabilityBlock,
	bookings []*domain.Booking,
) *domain.Coach {
	for i := range roster {
		c := &roster[i]
		if !coachWorksWeekday(c.ID, weekday, availability) {
			continue
		}
		if !coachWindowContained(c.ID, weekday, startHour, endHour, availability) {
			continue
		}
		if coachHasConflict(c.ID, coachStart, coachEnd, bookings) {
			continue
		}
		return c
	}
	return nil
}

// coachWorksWeekday проверяет, есть ли у тренера хотя бы один блок
// доступности в этот день недели
func coachWorksWeekday(coachID int64, weekday time.Weekday, availability map[int64][]domain.CoachAvailabilityBlock) bool {
	for _, block := range availability[coachID] {
		if block.Weekday == weekday {
			return true
		}
	}
	return false
}

// coachWindowContained проверяет, что какой-то блок тренера в этот день
// недели ЦЕЛИКОМ содержит [startHour, endHour). Частичное покрытие
// недостаточно.
func coachWindowContained(coachID int64, weekday time.Weekday, startHour, endHour int, availability map[int64][]domain.CoachAvailabilityBlock) bool {
	for _, block := range availability[coachID] {
		if block.Weekday == weekday && block.Contains(startHour, endHour) {
			return true
		}
	}
	return false
}

// coachHasConflict проверяет пересечение [start, end) с бронированиями
// тренера. Строгие неравенства: граничащие интервалы не конфликтуют.
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

// countOverlappingBookings подсчитывает активные бронирования,
// пересекающиеся с [start, end). Каждое активное бронирование удерживает
// ровно один симулятор, поэтому счётчик сравнивается с размером пула.
func countOverlappingBookings(start, end time.Time, bookings []*domain.Booking) int {
	count := 0
	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		if booking.Overlaps(start, end) {
			count++
		}
	}
	return count
}

// aggregateMessage формирует человекочитаемую сводную причину, когда во всём
// горизонте нет ни одного доступного слота
func aggregateMessage(reasons map[domain.UnavailabilityReason]int, selector domain.CoachSelector) string {
	closedOnly := true
	coachOrClosed := true

	for reason := range reasons {
		switch reason {
		case domain.ReasonClosed, domain.ReasonHoliday:
			// closed-группа входит в обе категории
		case domain.ReasonCoachDayOff, domain.ReasonCoachWindow, domain.ReasonCoachBusy, domain.ReasonNoCoachAvailable:
			closedOnly = false
		default:
			closedOnly = false
			coachOrClosed = false
		}
	}

	switch {
	case len(reasons) == 0:
		return "no sessions in the requested period"
	case closedOnly:
		return "studio closed in the requested period"
	case coachOrClosed && selector.WantsCoach():
		return "no coach available in the requested period"
	default:
		return "no available sessions in the requested period"
	}
}
