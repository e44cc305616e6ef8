package allocate_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	creditsRepo "github.com/m04kA/SimStudio-BookingService/internal/infra/storage/credits"
	userClient "github.com/m04kA/SimStudio-BookingService/internal/integrations/userservice"
	"github.com/m04kA/SimStudio-BookingService/pkg/txmanager"
)

// UseCase use case атомарной аллокации бронирования:
// симулятор + тренер + списание кредитов в одной сериализуемой транзакции
type UseCase struct {
	bookingRepo  BookingRepository
	calendarRepo CalendarRepository
	coachRepo    CoachRepository
	creditsRepo  CreditsRepository
	userClient   UserServiceClient
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	calendarRepo CalendarRepository,
	coachRepo CoachRepository,
	creditsRepo CreditsRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		calendarRepo: calendarRepo,
		coachRepo:    coachRepo,
		creditsRepo:  creditsRepo,
		userClient:   userClient,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет аллокацию выбранного слота.
//
// Оценка доступности (generate_sessions) доверенной не считается: занятость
// симуляторов, конфликты тренера и баланс кредитов пересчитываются здесь по
// живым данным под сериализуемой транзакцией. Расписания (календарь, окна
// тренеров) read-mostly и читаются до транзакции - для корректности
// критичны только бронирования и баланс.
//
// При конфликте сериализации транзакция повторяется целиком, включая выбор
// симулятора; после исчерпания повторов возвращается ErrConcurrencyConflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AllocateBooking: user=%d, start=%s, duration=%dh, coach=%s, coachHours=%d, pendingPayment=%t",
		req.UserID, req.StartAt.Format(time.RFC3339), req.DurationHours, req.Coach, req.CoachHours, req.PendingPayment)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AllocateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Обе границы окна бронирования
	now := uc.timeProvider.Now()
	if err := validateBookingWindow(req.StartAt, now); err != nil {
		uc.logger.Warn("AllocateBooking: booking window validation failed: %v", err)
		return nil, err
	}

	start := req.StartAt
	end := start.Add(time.Duration(req.DurationHours) * time.Hour)

	// 3. Слот должен попадать в эффективные рабочие часы даты
	if err := uc.validateSlotWithinHours(ctx, start, req.DurationHours); err != nil {
		return nil, err
	}

	// 4. Реестр и окна тренеров (read-mostly, вне транзакции)
	var roster []domain.Coach
	var availability map[int64][]domain.CoachAvailabilityBlock
	if req.Coach.WantsCoach() {
		var err error
		roster, err = uc.coachRepo.GetRoster(ctx)
		if err != nil {
			uc.logger.Error("AllocateBooking: failed to get coach roster: %v", err)
			return nil, fmt.Errorf("%w: failed to get coach roster: %w", ErrInternal, err)
		}
		if err := validateCoachExists(req.Coach, roster); err != nil {
			uc.logger.Warn("AllocateBooking: coach %s not found", req.Coach)
			return nil, err
		}
		availability, err = uc.coachRepo.GetAvailability(ctx, nil)
		if err != nil {
			uc.logger.Error("AllocateBooking: failed to get coach availability: %v", err)
			return nil, fmt.Errorf("%w: failed to get coach availability: %w", ErrInternal, err)
		}
	}

	// 5. Имя пользователя для денормализации (graceful degradation:
	// недоступность профильного сервиса не блокирует аллокацию)
	var userName *string
	if user, err := uc.userClient.GetUserWithGracefulDegradation(ctx, req.UserID); err == nil {
		userName = &user.Name
	} else if !errors.Is(err, userClient.ErrServiceDegraded) && !errors.Is(err, userClient.ErrUserNotFound) {
		uc.logger.Error("AllocateBooking: failed to get user profile: %v", err)
		return nil, fmt.Errorf("%w: failed to get user profile: %w", ErrInternal, err)
	}

	// 6. Аллокация в сериализуемой транзакции
	var result *domain.Booking
	var remainingCredits int

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Живые пересекающиеся бронирования с блокировкой строк
		bookings, err := uc.bookingRepo.GetOverlapping(txCtx, start, end)
		if err != nil {
			uc.logger.Error("AllocateBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %w", ErrInternal, err)
		}

		// 6.2. Пересчёт занятости пула и выбор наименьшего свободного симулятора
		simulatorID := lowestFreeSimulator(bookings, start, end)
		if simulatorID == 0 {
			uc.logger.Warn("AllocateBooking: all %d simulators occupied for %s", domain.SimulatorCount, start.Format(time.RFC3339))
			return ErrSimulatorsOccupied
		}

		// 6.3. Повторная проверка тренера по живым бронированиям
		coachID, err := resolveCoach(req, roster, availability, bookings)
		if err != nil {
			uc.logger.Warn("AllocateBooking: coach resolution failed for user=%d: %v", req.UserID, err)
			return err
		}

		// 6.4. Списание кредитов. Обходится ТОЛЬКО в явном режиме
		// pending_payment (заглушка до подтверждения оплаты).
		status := domain.StatusConfirmed
		if req.PendingPayment {
			status = domain.StatusPendingPayment
			remainingCredits, err = uc.currentBalance(txCtx, req.UserID)
			if err != nil {
				return err
			}
		} else {
			remainingCredits, err = uc.creditsRepo.Debit(txCtx, req.UserID, req.DurationHours)
			if err != nil {
				if errors.Is(err, creditsRepo.ErrInsufficientBalance) {
					available, balErr := uc.currentBalance(txCtx, req.UserID)
					if balErr != nil {
						return balErr
					}
					uc.logger.Warn("AllocateBooking: insufficient credits for user=%d: required=%d, available=%d",
						req.UserID, req.DurationHours, available)
					return &InsufficientCreditsError{Required: req.DurationHours, Available: available}
				}
				uc.logger.Error("AllocateBooking: failed to debit credits for user=%d: %v", req.UserID, err)
				return fmt.Errorf("%w: failed to debit credits: %w", ErrInternal, err)
			}
		}

		// 6.5. Запись бронирования - в той же транзакции, что и списание:
		// частично применённых состояний не существует по построению
		booking := &domain.Booking{
			UserID:        req.UserID,
			SimulatorID:   simulatorID,
			CoachID:       coachID,
			StartAt:       start,
			EndAt:         end,
			DurationHours: req.DurationHours,
			CoachHours:    req.CoachHours,
			Status:        status,
			UserName:      userName,
		}

		result, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("AllocateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationConflict) {
			uc.logger.Warn("AllocateBooking: serialization conflict for user=%d after retries: %v", req.UserID, err)
			if uc.metrics != nil {
				uc.metrics.IncAllocationConflict()
			}
			return nil, ErrConcurrencyConflict
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.IncBookingCreated(string(result.Status))
	}

	uc.logger.Info("AllocateBooking: created booking id=%d, simulator=%d, status=%s, remaining=%dh",
		result.ID, result.SimulatorID, result.Status, remainingCredits)

	return &Response{
		BookingID:        result.ID,
		SimulatorID:      result.SimulatorID,
		CoachID:          result.CoachID,
		StartAt:          result.StartAt,
		EndAt:            result.EndAt,
		Status:           string(result.Status),
		RemainingCredits: remainingCredits,
	}, nil
}

// validateSlotWithinHours проверяет, что слот попадает в эффективное окно
// рабочих часов своей даты (override > недельное правило, 25 апреля всегда
// закрыто, выходные по умолчанию закрыты)
func (uc *UseCase) validateSlotWithinHours(ctx context.Context, start time.Time, durationHours int) error {
	rules, err := uc.calendarRepo.GetBusinessHours(ctx)
	if err != nil {
		uc.logger.Error("AllocateBooking: failed to get business hours: %v", err)
		return fmt.Errorf("%w: failed to get business hours: %w", ErrInternal, err)
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	overrides, err := uc.calendarRepo.GetSpecialDates(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("AllocateBooking: failed to get special dates: %v", err)
		return fmt.Errorf("%w: failed to get special dates: %w", ErrInternal, err)
	}

	window := domain.ResolveDayWindow(day, rules, overrides[domain.DateKey(day)])
	if !window.Open {
		uc.logger.Warn("AllocateBooking: studio closed on %s", domain.DateKey(day))
		return ErrStudioClosed
	}

	startHour := start.Hour()
	if startHour < window.OpenHour || startHour+durationHours > window.CloseHour {
		uc.logger.Warn("AllocateBooking: slot %02d:00+%dh outside business hours %02d-%02d on %s",
			startHour, durationHours, window.OpenHour, window.CloseHour, domain.DateKey(day))
		return ErrOutsideBusinessHours
	}

	return nil
}

// currentBalance возвращает текущий баланс; отсутствие записи - ноль часов
func (uc *UseCase) currentBalance(ctx context.Context, userID int64) (int, error) {
	balance, err := uc.creditsRepo.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, creditsRepo.ErrBalanceNotFound) {
			return 0, nil
		}
		uc.logger.Error("AllocateBooking: failed to get balance for user=%d: %v", userID, err)
		return 0, fmt.Errorf("%w: failed to get balance: %w", ErrInternal, err)
	}
	return balance.Hours, nil
}
