package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper фоновые задачи жизненного цикла бронирований:
// истечение неоплаченных заглушек и завершение прошедших сессий
type Sweeper struct {
	bookingRepo BookingRepository
	logger      Logger
	cron        *cron.Cron

	pendingTTL time.Duration
	timeout    time.Duration
}

// New создает новый экземпляр Sweeper
func New(bookingRepo BookingRepository, loc *time.Location, pendingTTL time.Duration, logger Logger) *Sweeper {
	return &Sweeper{
		bookingRepo: bookingRepo,
		logger:      logger,
		cron:        cron.New(cron.WithLocation(loc)),
		pendingTTL:  pendingTTL,
		timeout:     30 * time.Second,
	}
}

// Start регистрирует задачи по cron-расписанию и запускает планировщик
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return fmt.Errorf("sweeper: invalid schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Sweeper started: schedule=%q, pendingTTL=%s", schedule, s.pendingTTL)
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих задач
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.expirePending(ctx)
	s.completeFinished(ctx)
}

// expirePending переводит в expired неоплаченные заглушки старше TTL,
// освобождая слот для других пользователей
func (s *Sweeper) expirePending(ctx context.Context) {
	cutoff := time.Now().Add(-s.pendingTTL)

	expired, err := s.bookingRepo.ExpirePendingBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("Sweeper: failed to expire pending bookings: %v", err)
		return
	}

	if expired > 0 {
		s.logger.Info("Sweeper: expired %d pending bookings older than %s", expired, s.pendingTTL)
	}
}

// completeFinished переводит в completed подтверждённые бронирования,
// время которых прошло
func (s *Sweeper) completeFinished(ctx context.Context) {
	completed, err := s.bookingRepo.CompleteFinishedBefore(ctx, time.Now())
	if err != nil {
		s.logger.Error("Sweeper: failed to complete finished bookings: %v", err)
		return
	}

	if completed > 0 {
		s.logger.Info("Sweeper: completed %d finished bookings", completed)
	}
}
