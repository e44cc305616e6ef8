package allocate_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SimStudio-BookingService/internal/infra/storage/booking"
	creditsRepo "github.com/m04kA/SimStudio-BookingService/internal/infra/storage/credits"
	userClient "github.com/m04kA/SimStudio-BookingService/internal/integrations/userservice"
	"github.com/m04kA/SimStudio-BookingService/pkg/ptr"
	"github.com/m04kA/SimStudio-BookingService/pkg/txmanager"
)

// --- Фейки контрактов ---

type fakeBookingRepo struct {
	overlapping []*domain.Booking
	overlapErr  error
	created     *domain.Booking
	nextID      int64
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	booking.ID = f.nextID
	f.created = booking
	return booking, nil
}

func (f *fakeBookingRepo) GetOverlapping(_ context.Context, _, _ time.Time) ([]*domain.Booking, error) {
	if f.overlapErr != nil {
		return nil, f.overlapErr
	}
	return f.overlapping, nil
}

type fakeCalendarRepo struct {
	rules     []domain.BusinessHoursRule
	overrides map[string]*domain.SpecialDateOverride
}

func (f *fakeCalendarRepo) GetBusinessHours(_ context.Context) ([]domain.BusinessHoursRule, error) {
	return f.rules, nil
}

func (f *fakeCalendarRepo) GetSpecialDates(_ context.Context, _, _ time.Time) (map[string]*domain.SpecialDateOverride, error) {
	if f.overrides == nil {
		return map[string]*domain.SpecialDateOverride{}, nil
	}
	return f.overrides, nil
}

type fakeCoachRepo struct {
	roster       []domain.Coach
	availability map[int64][]domain.CoachAvailabilityBlock
}

func (f *fakeCoachRepo) GetRoster(_ context.Context) ([]domain.Coach, error) {
	return f.roster, nil
}

func (f *fakeCoachRepo) GetAvailability(_ context.Context, _ *int64) (map[int64][]domain.CoachAvailabilityBlock, error) {
	return f.availability, nil
}

type fakeCreditsRepo struct {
	hours      int
	debitCalls int
}

func (f *fakeCreditsRepo) GetBalance(_ context.Context, userID int64) (*domain.CreditBalance, error) {
	return &domain.CreditBalance{UserID: userID, Hours: f.hours}, nil
}

func (f *fakeCreditsRepo) Debit(_ context.Context, _ int64, hours int) (int, error) {
	f.debitCalls++
	if f.hours < hours {
		return 0, creditsRepo.ErrInsufficientBalance
	}
	f.hours -= hours
	return f.hours, nil
}

type fakeUserClient struct {
	user *userClient.User
	err  error
}

func (f *fakeUserClient) GetUserWithGracefulDegradation(_ context.Context, _ int64) (*userClient.User, error) {
	return f.user, f.err
}

// fakeTxManager исполняет fn без реальной транзакции; err подменяет результат
type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

// retryingTxManager повторяет fn при retryable-ошибке, как реальный менеджер
type retryingTxManager struct {
	attempts int
}

func (f *retryingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	const maxAttempts = 3
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		f.attempts++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !txmanager.IsRetryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", txmanager.ErrSerializationConflict, lastErr)
}

type fakeMetrics struct {
	created   []string
	conflicts int
}

func (f *fakeMetrics) IncBookingCreated(status string) { f.created = append(f.created, status) }
func (f *fakeMetrics) IncAllocationConflict()          { f.conflicts++ }

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Сборка ---

type fixture struct {
	bookings *fakeBookingRepo
	calendar *fakeCalendarRepo
	coaches  *fakeCoachRepo
	credits  *fakeCreditsRepo
	user     *fakeUserClient
	tx       *fakeTxManager
	metrics  *fakeMetrics
	uc       *UseCase
}

// Понедельник 2026-05-11, запрос в 08:00
var (
	testMonday = time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)
	testNow    = time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC)
)

func newFixture() *fixture {
	f := &fixture{
		bookings: &fakeBookingRepo{},
		calendar: &fakeCalendarRepo{rules: []domain.BusinessHoursRule{
			{Weekday: time.Monday, OpenHour: 9, CloseHour: 21},
			{Weekday: time.Tuesday, OpenHour: 9, CloseHour: 21},
		}},
		coaches: &fakeCoachRepo{},
		credits: &fakeCreditsRepo{hours: 10},
		user:    &fakeUserClient{user: &userClient.User{ID: 1, Name: "Ivan"}},
		tx:      &fakeTxManager{},
		metrics: &fakeMetrics{},
	}
	f.uc = &UseCase{
		bookingRepo:  f.bookings,
		calendarRepo: f.calendar,
		coachRepo:    f.coaches,
		creditsRepo:  f.credits,
		userClient:   f.user,
		txManager:    f.tx,
		metrics:      f.metrics,
		timeProvider: &fixedTimeProvider{now: testNow},
		logger:       nopLogger{},
	}
	return f
}

func validRequest() *Request {
	return &Request{
		UserID:        1,
		StartAt:       testMonday.Add(12 * time.Hour),
		DurationHours: 2,
		Coach:         domain.NoCoach(),
	}
}

// --- Тесты ---

func TestExecute_AllocatesLowestFreeSimulator(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 1, resp.SimulatorID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 8, resp.RemainingCredits)
	assert.Nil(t, resp.CoachID)

	require.NotNil(t, f.bookings.created)
	assert.Equal(t, testMonday.Add(12*time.Hour), f.bookings.created.StartAt)
	assert.Equal(t, testMonday.Add(14*time.Hour), f.bookings.created.EndAt)
	require.NotNil(t, f.bookings.created.UserName)
	assert.Equal(t, "Ivan", *f.bookings.created.UserName)
}

func TestExecute_SkipsOccupiedSimulators(t *testing.T) {
	f := newFixture()
	for _, sim := range []int{1, 2} {
		f.bookings.overlapping = append(f.bookings.overlapping, &domain.Booking{
			SimulatorID: sim,
			StartAt:     testMonday.Add(12 * time.Hour),
			EndAt:       testMonday.Add(14 * time.Hour),
			Status:      domain.StatusConfirmed,
		})
	}
	// Отменённое бронирование ёмкость не держит
	f.bookings.overlapping = append(f.bookings.overlapping, &domain.Booking{
		SimulatorID: 3,
		StartAt:     testMonday.Add(12 * time.Hour),
		EndAt:       testMonday.Add(14 * time.Hour),
		Status:      domain.StatusCancelledByUser,
	})

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 3, resp.SimulatorID)
}

func TestExecute_AllSimulatorsOccupied(t *testing.T) {
	f := newFixture()
	for sim := 1; sim <= domain.SimulatorCount; sim++ {
		f.bookings.overlapping = append(f.bookings.overlapping, &domain.Booking{
			SimulatorID: sim,
			StartAt:     testMonday.Add(12 * time.Hour),
			EndAt:       testMonday.Add(14 * time.Hour),
			Status:      domain.StatusConfirmed,
		})
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSimulatorsOccupied)
	assert.Nil(t, f.bookings.created)
}

func TestExecute_InsufficientCredits(t *testing.T) {
	f := newFixture()
	f.credits.hours = 1

	_, err := f.uc.Execute(context.Background(), validRequest())

	require.ErrorIs(t, err, ErrInsufficientCredits)

	var creditsErr *InsufficientCreditsError
	require.ErrorAs(t, err, &creditsErr)
	assert.Equal(t, 2, creditsErr.Required)
	assert.Equal(t, 1, creditsErr.Available)
	assert.Nil(t, f.bookings.created)
}

func TestExecute_PendingPaymentSkipsDebit(t *testing.T) {
	f := newFixture()
	f.credits.hours = 0 // кредитов нет вовсе

	req := validRequest()
	req.PendingPayment = true

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPendingPayment), resp.Status)
	assert.Zero(t, f.credits.debitCalls)
	require.NotNil(t, f.bookings.created)
	assert.Equal(t, domain.StatusPendingPayment, f.bookings.created.Status)
}

func TestExecute_BookingWindowBounds(t *testing.T) {
	f := newFixture()

	tooLate := validRequest()
	tooLate.StartAt = testNow.Add(1 * time.Hour) // 09:00, меньше 2 часов до начала
	_, err := f.uc.Execute(context.Background(), tooLate)
	assert.ErrorIs(t, err, ErrTooLateToBook)

	tooFar := validRequest()
	tooFar.StartAt = testNow.AddDate(0, 0, domain.MaxAdvanceBookingDays).Add(4 * time.Hour)
	_, err = f.uc.Execute(context.Background(), tooFar)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_ClosedDateAndOutsideHours(t *testing.T) {
	f := newFixture()

	// Суббота без правила - закрыто
	closed := validRequest()
	closed.StartAt = time.Date(2026, 5, 16, 12, 0, 0, 0, time.UTC)
	_, err := f.uc.Execute(context.Background(), closed)
	assert.ErrorIs(t, err, ErrStudioClosed)

	// Вторник 20:00 + 2 часа выходит за закрытие в 21:00
	outside := validRequest()
	outside.StartAt = time.Date(2026, 5, 12, 20, 0, 0, 0, time.UTC)
	_, err = f.uc.Execute(context.Background(), outside)
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)
}

func TestExecute_SpecificCoach(t *testing.T) {
	f := newFixture()
	f.coaches.roster = []domain.Coach{{ID: 7, Name: "Anna"}}
	f.coaches.availability = map[int64][]domain.CoachAvailabilityBlock{
		7: {{CoachID: 7, Weekday: time.Monday, StartHour: 10, EndHour: 16}},
	}

	req := validRequest()
	req.Coach = domain.SpecificCoach(7)
	req.CoachHours = 2

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, resp.CoachID)
	assert.Equal(t, int64(7), *resp.CoachID)
}

func TestExecute_SpecificCoachOutsideWindow(t *testing.T) {
	f := newFixture()
	f.coaches.roster = []domain.Coach{{ID: 7, Name: "Anna"}}
	f.coaches.availability = map[int64][]domain.CoachAvailabilityBlock{
		7: {{CoachID: 7, Weekday: time.Monday, StartHour: 9, EndHour: 13}},
	}

	// 12:00-14:00 с тренером: окно тренера кончается в 13:00
	req := validRequest()
	req.Coach = domain.SpecificCoach(7)
	req.CoachHours = 2

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrCoachUnavailable)
}

func TestExecute_SpecificCoachBusy(t *testing.T) {
	f := newFixture()
	f.coaches.roster = []domain.Coach{{ID: 7, Name: "Anna"}}
	f.coaches.availability = map[int64][]domain.CoachAvailabilityBlock{
		7: {{CoachID: 7, Weekday: time.Monday, StartHour: 9, EndHour: 21}},
	}
	f.bookings.overlapping = []*domain.Booking{{
		SimulatorID: 2,
		CoachID:     ptr.Ptr(int64(7)),
		StartAt:     testMonday.Add(13 * time.Hour),
		EndAt:       testMonday.Add(14 * time.Hour),
		CoachHours:  1,
		Status:      domain.StatusConfirmed,
	}}

	req := validRequest()
	req.Coach = domain.SpecificCoach(7)
	req.CoachHours = 2

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrCoachConflict)
}

func TestExecute_AnyCoachPicksFirstInRosterOrder(t *testing.T) {
	f := newFixture()
	f.coaches.roster = []domain.Coach{{ID: 1, Name: "Anna"}, {ID: 2, Name: "Boris"}}
	f.coaches.availability = map[int64][]domain.CoachAvailabilityBlock{
		1: {{CoachID: 1, Weekday: time.Monday, StartHour: 9, EndHour: 21}},
		2: {{CoachID: 2, Weekday: time.Monday, StartHour: 9, EndHour: 21}},
	}

	req := validRequest()
	req.Coach = domain.AnyCoach()
	req.CoachHours = 1

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, resp.CoachID)
	assert.Equal(t, int64(1), *resp.CoachID)

	// Первый занят - берётся следующий по порядку реестра
	f2 := newFixture()
	f2.coaches.roster = f.coaches.roster
	f2.coaches.availability = f.coaches.availability
	f2.bookings.overlapping = []*domain.Booking{{
		SimulatorID: 2,
		CoachID:     ptr.Ptr(int64(1)),
		StartAt:     testMonday.Add(12 * time.Hour),
		EndAt:       testMonday.Add(13 * time.Hour),
		CoachHours:  1,
		Status:      domain.StatusConfirmed,
	}}

	resp, err = f2.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, resp.CoachID)
	assert.Equal(t, int64(2), *resp.CoachID)
}

func TestExecute_CoachNotFound(t *testing.T) {
	f := newFixture()
	f.coaches.roster = []domain.Coach{{ID: 1, Name: "Anna"}}

	req := validRequest()
	req.Coach = domain.SpecificCoach(99)
	req.CoachHours = 1

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrCoachNotFound)
}

func TestExecute_SerializationConflictMapped(t *testing.T) {
	f := newFixture()
	f.tx.err = txmanager.ErrSerializationConflict

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Equal(t, 1, f.metrics.conflicts)
}

// Конфликт сериализации из SELECT ... FOR UPDATE приходит как ошибка
// запроса, обёрнутая репозиторием и use case. Цепочка причин должна
// пережить оба оборачивания: транзакция повторяется целиком, а после
// исчерпания попыток наружу уходит ErrConcurrencyConflict.
func TestExecute_RowLockConflictRetriedAndMapped(t *testing.T) {
	f := newFixture()
	rtx := &retryingTxManager{}
	f.uc.txManager = rtx
	f.bookings.overlapErr = fmt.Errorf("%w: GetOverlapping - execute query: %w",
		bookingRepo.ErrExecQuery, &pq.Error{Code: "40001"})

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Equal(t, 3, rtx.attempts)
	assert.Equal(t, 1, f.metrics.conflicts)
	assert.Nil(t, f.bookings.created)
}

func TestExecute_ReportsCreationMetric(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, []string{string(domain.StatusConfirmed)}, f.metrics.created)
	assert.Zero(t, f.metrics.conflicts)
}

func TestExecute_UserServiceDegradationDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.user.user = nil
	f.user.err = userClient.ErrServiceDegraded

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotNil(t, f.bookings.created)
	assert.Nil(t, f.bookings.created.UserName)
	assert.Equal(t, 1, resp.SimulatorID)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture()

	notWholeHour := validRequest()
	notWholeHour.StartAt = testMonday.Add(12*time.Hour + 30*time.Minute)
	_, err := f.uc.Execute(context.Background(), notWholeHour)
	assert.ErrorIs(t, err, ErrInvalidInput)

	badDuration := validRequest()
	badDuration.DurationHours = 0
	_, err = f.uc.Execute(context.Background(), badDuration)
	assert.ErrorIs(t, err, ErrInvalidInput)

	coachHoursWithoutCoach := validRequest()
	coachHoursWithoutCoach.CoachHours = 1
	_, err = f.uc.Execute(context.Background(), coachHoursWithoutCoach)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
