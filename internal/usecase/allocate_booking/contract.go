package allocate_booking

import (
	"context"
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	"github.com/m04kA/SimStudio-BookingService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// GetOverlapping внутри транзакции блокирует строки (FOR UPDATE)
	GetOverlapping(ctx context.Context, start, end time.Time) ([]*domain.Booking, error)
}

// CalendarRepository интерфейс репозитория календарных правил
type CalendarRepository interface {
	GetBusinessHours(ctx context.Context) ([]domain.BusinessHoursRule, error)
	GetSpecialDates(ctx context.Context, from, to time.Time) (map[string]*domain.SpecialDateOverride, error)
}

// CoachRepository интерфейс репозитория тренеров
type CoachRepository interface {
	GetRoster(ctx context.Context) ([]domain.Coach, error)
	GetAvailability(ctx context.Context, coachID *int64) (map[int64][]domain.CoachAvailabilityBlock, error)
}

// CreditsRepository интерфейс репозитория кредитных балансов
type CreditsRepository interface {
	GetBalance(ctx context.Context, userID int64) (*domain.CreditBalance, error)
	// Debit условное списание: не уходит в минус
	Debit(ctx context.Context, userID int64, hours int) (int, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс бизнес-метрик аллокации (nil, если сбор метрик выключен)
type Metrics interface {
	IncBookingCreated(status string)
	IncAllocationConflict()
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
