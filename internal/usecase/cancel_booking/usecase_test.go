package cancel_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SimStudio-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/SimStudio-BookingService/pkg/txmanager"
)

// --- Фейки контрактов ---

type fakeBookingRepo struct {
	booking *domain.Booking

	cancelledID     int64
	cancelledStatus domain.BookingStatus
	cancelledReason *string
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason *string) error {
	f.cancelledID = id
	f.cancelledStatus = status
	f.cancelledReason = reason
	return nil
}

type fakeCreditsRepo struct {
	hours       int
	refundCalls int
}

func (f *fakeCreditsRepo) Refund(_ context.Context, _ int64, hours int) (int, error) {
	f.refundCalls++
	f.hours += hours
	return f.hours, nil
}

type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeMetrics struct {
	cancelled int
}

func (f *fakeMetrics) IncBookingCancelled() { f.cancelled++ }

// --- Сборка ---

type fixture struct {
	bookings *fakeBookingRepo
	credits  *fakeCreditsRepo
	tx       *fakeTxManager
	metrics  *fakeMetrics
	uc       *UseCase
}

func newFixture(booking *domain.Booking) *fixture {
	f := &fixture{
		bookings: &fakeBookingRepo{booking: booking},
		credits:  &fakeCreditsRepo{hours: 3},
		tx:       &fakeTxManager{},
		metrics:  &fakeMetrics{},
	}
	f.uc = NewUseCase(f.bookings, f.credits, f.tx, f.metrics, nopLogger{})
	return f
}

func confirmedBooking() *domain.Booking {
	start := time.Date(2026, 5, 12, 12, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:            42,
		UserID:        1,
		SimulatorID:   2,
		StartAt:       start,
		EndAt:         start.Add(2 * time.Hour),
		DurationHours: 2,
		Status:        domain.StatusConfirmed,
	}
}

// --- Тесты ---

func TestExecute_CancelRefundsDebitedHours(t *testing.T) {
	f := newFixture(confirmedBooking())

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, UserID: 1})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByUser), resp.Status)
	assert.Equal(t, 2, resp.RefundedHours)
	assert.Equal(t, 5, resp.RemainingCredits)

	assert.Equal(t, int64(42), f.bookings.cancelledID)
	assert.Equal(t, domain.StatusCancelledByUser, f.bookings.cancelledStatus)
	assert.Equal(t, 1, f.credits.refundCalls)
	assert.Equal(t, 1, f.metrics.cancelled)
}

func TestExecute_PendingPaymentCancelledWithoutRefund(t *testing.T) {
	booking := confirmedBooking()
	booking.Status = domain.StatusPendingPayment
	f := newFixture(booking)

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, UserID: 1})

	require.NoError(t, err)
	// Заглушка никогда не списывала кредиты - возвращать нечего
	assert.Zero(t, resp.RefundedHours)
	assert.Zero(t, f.credits.refundCalls)
	assert.Equal(t, domain.StatusCancelledByUser, f.bookings.cancelledStatus)
}

func TestExecute_StudioCancellation(t *testing.T) {
	f := newFixture(confirmedBooking())
	reason := "simulator maintenance"

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, ByStudio: true, Reason: &reason})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByStudio), resp.Status)
	// Отмена студией тоже возвращает списанные часы
	assert.Equal(t, 2, resp.RefundedHours)
	require.NotNil(t, f.bookings.cancelledReason)
	assert.Equal(t, reason, *f.bookings.cancelledReason)
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture(nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, UserID: 1})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_AccessDeniedForForeignBooking(t *testing.T) {
	f := newFixture(confirmedBooking())

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, UserID: 2})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, f.bookings.cancelledID)
	assert.Zero(t, f.credits.refundCalls)
}

func TestExecute_TerminalStatusesNotCancellable(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusCompleted,
		domain.StatusCancelledByUser,
		domain.StatusCancelledByStudio,
		domain.StatusExpired,
	} {
		t.Run(string(status), func(t *testing.T) {
			booking := confirmedBooking()
			booking.Status = status
			f := newFixture(booking)

			_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, UserID: 1})

			assert.ErrorIs(t, err, ErrAlreadyFinalized)
			assert.Zero(t, f.credits.refundCalls)
		})
	}
}

func TestExecute_SerializationConflictMapped(t *testing.T) {
	f := newFixture(confirmedBooking())
	f.tx.err = txmanager.ErrSerializationConflict

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, UserID: 1})

	assert.ErrorIs(t, err, ErrConcurrencyConflict)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(confirmedBooking())

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 0, UserID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{BookingID: 42})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
