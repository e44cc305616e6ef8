package sweeper

import (
	"context"
	"time"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CompleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
