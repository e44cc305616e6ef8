package allocate_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("allocate_booking: invalid input data")

	// ErrCoachNotFound возвращается, когда запрошенный тренер не существует
	ErrCoachNotFound = errors.New("allocate_booking: coach not found")

	// ErrStudioClosed возвращается, когда студия закрыта в указанную дату
	ErrStudioClosed = errors.New("allocate_booking: studio is closed on this date")

	// ErrOutsideBusinessHours возвращается, когда слот не помещается в рабочие часы
	ErrOutsideBusinessHours = errors.New("allocate_booking: slot is outside business hours")

	// ErrTooLateToBook возвращается при нарушении нижней границы окна бронирования
	ErrTooLateToBook = errors.New("allocate_booking: too late to book this slot")

	// ErrDateTooFarInFuture возвращается при нарушении верхней границы окна бронирования
	ErrDateTooFarInFuture = errors.New("allocate_booking: date is too far in the future")

	// ErrSimulatorsOccupied возвращается, когда все симуляторы заняты на момент аллокации
	ErrSimulatorsOccupied = errors.New("allocate_booking: all simulators are occupied")

	// ErrCoachUnavailable возвращается, когда тренер не работает в запрошенное окно
	ErrCoachUnavailable = errors.New("allocate_booking: coach is not available in this window")

	// ErrCoachConflict возвращается, когда тренер потерян между оценкой и аллокацией
	// (пересекающееся бронирование появилось, или ни один "any"-кандидат не прошёл)
	ErrCoachConflict = errors.New("allocate_booking: coach booking conflict")

	// ErrInsufficientCredits возвращается, когда кредитов не хватает.
	// Детали (required/available) несёт InsufficientCreditsError.
	ErrInsufficientCredits = errors.New("allocate_booking: insufficient credits")

	// ErrConcurrencyConflict возвращается, когда аллокация проиграла гонку
	// после исчерпания повторов. Для вызывающего это transient: безопасно
	// повторить весь цикл generate -> allocate.
	ErrConcurrencyConflict = errors.New("allocate_booking: concurrency conflict, please retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("allocate_booking: internal error")
)

// InsufficientCreditsError несёт требуемое и доступное количество часов,
// чтобы вызывающий мог направить пользователя на пополнение
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("%v: required=%d, available=%d", ErrInsufficientCredits, e.Required, e.Available)
}

// Unwrap позволяет errors.Is(err, ErrInsufficientCredits)
func (e *InsufficientCreditsError) Unwrap() error {
	return ErrInsufficientCredits
}
