package domain

import "time"

// Simulator pool constants
const (
	// SimulatorCount количество физических симуляторов в студии.
	// Идентификаторы симуляторов - замкнутое множество {1..SimulatorCount}.
	SimulatorCount = 4

	FirstSimulatorID = 1
)

// Booking window constants
const (
	// MinBookingNoticeHours минимальное время до начала слота (нижняя граница окна бронирования)
	MinBookingNoticeHours = 2

	// MaxAdvanceBookingDays максимальный горизонт бронирования (верхняя граница окна)
	MaxAdvanceBookingDays = 30

	// DefaultHorizonDays горизонт генерации слотов по умолчанию
	DefaultHorizonDays = 7
)

// Annual fixed closure: the studio never opens on April 25 regardless of
// configured business hours or overrides.
const (
	ClosedHolidayMonth = time.April
	ClosedHolidayDay   = 25
)

// Business validation constants
const (
	MinSessionHours             = 1
	MaxSessionHours             = 8
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не удерживающих ёмкость симулятора/тренера.
// Используется при подсчёте занятости слотов.
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledByStudio,
	StatusExpired,
}

// ActiveStatuses список статусов, удерживающих ёмкость
var ActiveStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
	StatusCompleted,
}

// IsClosedHoliday reports whether the date falls on the fixed annual closure.
func IsClosedHoliday(date time.Time) bool {
	return date.Month() == ClosedHolidayMonth && date.Day() == ClosedHolidayDay
}
