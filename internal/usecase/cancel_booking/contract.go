package cancel_booking

import (
	"context"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByID внутри транзакции блокирует строку (FOR UPDATE)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason *string) error
}

// CreditsRepository интерфейс репозитория кредитных балансов
type CreditsRepository interface {
	Refund(ctx context.Context, userID int64, hours int) (int, error)
}

// Metrics интерфейс бизнес-метрик отмены (nil, если сбор метрик выключен)
type Metrics interface {
	IncBookingCancelled()
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
