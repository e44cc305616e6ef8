package generate_sessions

import (
	"context"
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// CalendarRepository интерфейс репозитория календарных правил
type CalendarRepository interface {
	GetBusinessHours(ctx context.Context) ([]domain.BusinessHoursRule, error)
	GetSpecialDates(ctx context.Context, from, to time.Time) (map[string]*domain.SpecialDateOverride, error)
}

// CoachRepository интерфейс репозитория тренеров
type CoachRepository interface {
	// GetRoster возвращает тренеров в стабильном порядке регистрации (id ASC)
	GetRoster(ctx context.Context) ([]domain.Coach, error)
	GetAvailability(ctx context.Context, coachID *int64) (map[int64][]domain.CoachAvailabilityBlock, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetOverlapping получает активные бронирования, пересекающиеся с [start, end)
	GetOverlapping(ctx context.Context, start, end time.Time) ([]*domain.Booking, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
