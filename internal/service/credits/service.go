package credits

import (
	"context"
	"errors"
	"fmt"

	creditsRepo "github.com/m04kA/SimStudio-BookingService/internal/infra/storage/credits"
	"github.com/m04kA/SimStudio-BookingService/internal/service/credits/models"
)

// Service сервис для чтения кредитных балансов
type Service struct {
	creditsRepo CreditsRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса кредитов
func NewService(creditsRepo CreditsRepository, logger Logger) *Service {
	return &Service{
		creditsRepo: creditsRepo,
		logger:      logger,
	}
}

// GetBalance получает баланс пользователя
// Отсутствие записи трактуется как нулевой баланс, а не ошибка
func (s *Service) GetBalance(ctx context.Context, userID int64) (*models.BalanceResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", ErrInvalidInput)
	}

	s.logger.Info("GetBalance: fetching balance for user=%d", userID)

	balance, err := s.creditsRepo.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, creditsRepo.ErrBalanceNotFound) {
			s.logger.Info("GetBalance: no balance record for user=%d, returning zero", userID)
			return &models.BalanceResponse{UserID: userID, Hours: 0}, nil
		}
		s.logger.Error("GetBalance: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetBalance - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBalance(balance), nil
}
