package generate_sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// UseCase use case генерации доступных сессий по горизонту дат
type UseCase struct {
	calendarRepo CalendarRepository
	coachRepo    CoachRepository
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	calendarRepo CalendarRepository,
	coachRepo CoachRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		calendarRepo: calendarRepo,
		coachRepo:    coachRepo,
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case генерации сессий.
//
// Хранилища читаются один раз в снапшот, дальше слоты вычисляются как
// чистая функция (snapshot, now) -> слоты: два вызова с одинаковыми
// снапшотами дают байт-в-байт одинаковый результат. Повторная сверка
// занятости при фактической аллокации выполняется в allocate_booking
// по живым данным.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSessions: user=%d, duration=%dh, coach=%s, coachHours=%d, from=%s, horizon=%d",
		req.UserID, req.DurationHours, req.Coach, req.CoachHours,
		req.ReferenceDate.Format(domain.DateFormat), req.HorizonDays)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSessions: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время и горизонт
	now := uc.timeProvider.Now()

	horizonDays := req.HorizonDays
	if horizonDays == 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	if horizonDays > domain.MaxAdvanceBookingDays {
		horizonDays = domain.MaxAdvanceBookingDays
	}

	from := time.Date(req.ReferenceDate.Year(), req.ReferenceDate.Month(), req.ReferenceDate.Day(),
		0, 0, 0, 0, req.ReferenceDate.Location())
	to := from.AddDate(0, 0, horizonDays)

	// 3. Снимаем снапшот read-only хранилищ
	snap, err := uc.loadSnapshot(ctx, req, from, to)
	if err != nil {
		return nil, err
	}

	// 4. Конкретно запрошенный тренер должен существовать
	if err := validateCoachExists(req.Coach, snap.roster); err != nil {
		uc.logger.Warn("GenerateSessions: coach %s not found", req.Coach)
		return nil, err
	}

	// 5. Генерируем и оцениваем слоты по датам
	resp := &Response{
		Dates:    make([]string, 0, horizonDays),
		Sessions: make(map[string][]domain.Slot, horizonDays),
	}

	availableCount := 0
	reasons := make(map[domain.UnavailabilityReason]int)

	for date := from; date.Before(to); date = date.AddDate(0, 0, 1) {
		key := domain.DateKey(date)
		resp.Dates = append(resp.Dates, key)

		window := domain.ResolveDayWindow(date, snap.rules, snap.overrides[key])

		// Закрытая дата - один слот-заглушка с причиной вместо почасовых
		if reason := dayClosureReason(date, window, req.Coach, snap.availability); reason != "" {
			resp.Sessions[key] = []domain.Slot{domain.NewPlaceholderSlot(date, reason)}
			reasons[reason]++
			continue
		}

		candidates := generateDaySlots(date, window, req.DurationHours)
		evaluated := make([]domain.Slot, len(candidates))
		for i, candidate := range candidates {
			evaluated[i] = evaluateSlot(candidate, req, now, snap)
			if evaluated[i].Available {
				availableCount++
			} else {
				reasons[evaluated[i].Reason]++
			}
		}
		resp.Sessions[key] = evaluated
	}

	if availableCount == 0 {
		resp.Message = aggregateMessage(reasons, req.Coach)
	}

	uc.logger.Info("GenerateSessions: %d dates, %d available slots for user=%d",
		len(resp.Dates), availableCount, req.UserID)

	return resp, nil
}

// loadSnapshot читает все нужные хранилища за один проход
func (uc *UseCase) loadSnapshot(ctx context.Context, req *Request, from, to time.Time) (*snapshot, error) {
	rules, err := uc.calendarRepo.GetBusinessHours(ctx)
	if err != nil {
		uc.logger.Error("GenerateSessions: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %w", ErrInternal, err)
	}

	overrides, err := uc.calendarRepo.GetSpecialDates(ctx, from, to)
	if err != nil {
		uc.logger.Error("GenerateSessions: failed to get special dates: %v", err)
		return nil, fmt.Errorf("%w: failed to get special dates: %w", ErrInternal, err)
	}

	snap := &snapshot{rules: rules, overrides: overrides}

	if req.Coach.WantsCoach() {
		snap.roster, err = uc.coachRepo.GetRoster(ctx)
		if err != nil {
			uc.logger.Error("GenerateSessions: failed to get coach roster: %v", err)
			return nil, fmt.Errorf("%w: failed to get coach roster: %w", ErrInternal, err)
		}

		snap.availability, err = uc.coachRepo.GetAvailability(ctx, nil)
		if err != nil {
			uc.logger.Error("GenerateSessions: failed to get coach availability: %v", err)
			return nil, fmt.Errorf("%w: failed to get coach availability: %w", ErrInternal, err)
		}
	}

	snap.bookings, err = uc.bookingRepo.GetOverlapping(ctx, from, to)
	if err != nil {
		uc.logger.Error("GenerateSessions: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	return snap, nil
}
