package allocate_booking

import (
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// resolveCoach разрешает селектор тренера в конкретный id по ЖИВОМУ набору
// бронирований внутри транзакции аллокации. Возвращает nil для запросов без
// тренера.
//
// Для "any" реестр обходится в стабильном порядке регистрации, и берётся
// первый тренер, проходящий те же проверки, что использовал оценщик
// доступности: участие в дне недели, полное покрытие окна, отсутствие
// конфликтов. Если не прошёл ни один, хотя слот был оценён как доступный -
// это разрыв консистентности чтения между оценкой и аллокацией, и он
// возвращается как ErrCoachConflict, а не молча другой слот.
func resolveCoach(
	req *Request,
	roster []domain.Coach,
	availability map[int64][]domain.CoachAvailabilityBlock,
	bookings []*domain.Booking,
) (*int64, error) {
	if !req.Coach.WantsCoach() {
		return nil, nil
	}

	weekday := req.StartAt.Weekday()
	startHour := req.StartAt.Hour()
	endHour := startHour + req.CoachHours
	coachStart := req.StartAt
	coachEnd := coachStart.Add(time.Duration(req.CoachHours) * time.Hour)

	if coachID, ok := req.Coach.CoachID(); ok {
		if !coachWorksWeekday(coachID, weekday, availability) ||
			!coachWindowContained(coachID, weekday, startHour, endHour, availability) {
			return nil, ErrCoachUnavailable
		}
		if coachHasConflict(coachID, coachStart, coachEnd, bookings) {
			return nil, ErrCoachConflict
		}
		return &coachID, nil
	}

	for i := range roster {
		c := roster[i]
		if !coachWorksWeekday(c.ID, weekday, availability) {
			continue
		}
		if !coachWindowContained(c.ID, weekday, startHour, endHour, availability) {
			continue
		}
		if coachHasConflict(c.ID, coachStart, coachEnd, bookings) {
			continue
		}
		return &c.ID, nil
	}

	return nil, ErrCoachConflict
}
