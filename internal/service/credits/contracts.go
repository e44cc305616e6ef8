package credits

import (
	"context"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// CreditsRepository интерфейс репозитория кредитных балансов
type CreditsRepository interface {
	GetBalance(ctx context.Context, userID int64) (*domain.CreditBalance, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
