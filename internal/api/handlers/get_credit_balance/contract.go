package get_credit_balance

import (
	"context"

	"github.com/m04kA/SimStudio-BookingService/internal/service/credits/models"
)

type CreditsService interface {
	GetBalance(ctx context.Context, userID int64) (*models.BalanceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
