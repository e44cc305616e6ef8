package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SimStudio-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/SimStudio-BookingService/pkg/txmanager"
)

// UseCase use case отмены бронирования с возвратом кредитов
type UseCase struct {
	bookingRepo BookingRepository
	creditsRepo CreditsRepository
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	creditsRepo CreditsRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		creditsRepo: creditsRepo,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute отменяет бронирование.
//
// Отмена симметрична аллокации: смена статуса и возврат кредитов происходят
// в одной сериализуемой транзакции. Возврат выполняется только для
// бронирований, по которым кредиты реально списывались - pending_payment
// отменяется без возврата.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, user=%d, byStudio=%t", req.BookingID, req.UserID, req.ByStudio)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Бронирование с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		// 2. Отменять чужие бронирования может только студия
		if !req.ByStudio && booking.UserID != req.UserID {
			uc.logger.Warn("CancelBooking: user=%d is not the owner of booking=%d", req.UserID, req.BookingID)
			return ErrAccessDenied
		}

		// 3. Терминальные статусы не отменяются повторно
		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking=%d in status %s cannot be cancelled", req.BookingID, booking.Status)
			return ErrAlreadyFinalized
		}

		status := domain.StatusCancelledByUser
		if req.ByStudio {
			status = domain.StatusCancelledByStudio
		}

		if err := uc.bookingRepo.Cancel(txCtx, req.BookingID, status, req.Reason); err != nil {
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
		}

		resp = &Response{
			BookingID: req.BookingID,
			Status:    string(status),
		}

		// 4. Возврат кредитов в той же транзакции, что и смена статуса
		if booking.WasDebited() {
			remaining, err := uc.creditsRepo.Refund(txCtx, booking.UserID, booking.DurationHours)
			if err != nil {
				uc.logger.Error("CancelBooking: failed to refund %dh to user=%d: %v", booking.DurationHours, booking.UserID, err)
				return fmt.Errorf("%w: failed to refund credits: %w", ErrInternal, err)
			}
			resp.RefundedHours = booking.DurationHours
			resp.RemainingCredits = remaining
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationConflict) {
			uc.logger.Warn("CancelBooking: serialization conflict for booking=%d after retries: %v", req.BookingID, err)
			return nil, ErrConcurrencyConflict
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.IncBookingCancelled()
	}

	uc.logger.Info("CancelBooking: booking=%d cancelled, status=%s, refunded=%dh", resp.BookingID, resp.Status, resp.RefundedHours)

	return resp, nil
}

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking ID must be positive", ErrInvalidInput)
	}
	if !req.ByStudio && req.UserID <= 0 {
		return fmt.Errorf("%w: user ID must be positive", ErrInvalidInput)
	}
	return nil
}
