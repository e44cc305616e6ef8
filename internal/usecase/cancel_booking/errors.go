package cancel_booking

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("invalid input")

	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied бронирование принадлежит другому пользователю
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyFinalized бронирование уже в терминальном статусе
	ErrAlreadyFinalized = errors.New("booking already finalized")

	// ErrConcurrencyConflict конфликт сериализации после исчерпания повторов
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal error")
)
