package models

import (
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// BalanceResponse ответ с кредитным балансом пользователя
type BalanceResponse struct {
	UserID    int64     `json:"userId"`
	Hours     int       `json:"hours"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainBalance конвертирует domain модель в DTO
func FromDomainBalance(b *domain.CreditBalance) *BalanceResponse {
	if b == nil {
		return nil
	}

	return &BalanceResponse{
		UserID:    b.UserID,
		Hours:     b.Hours,
		UpdatedAt: b.UpdatedAt,
	}
}
