// Package coach репозиторий тренеров и их недельных окон доступности.
// Данные read-only для движка.
package coach

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	"github.com/m04kA/SimStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SimStudio-BookingService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий тренеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тренеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRoster возвращает всех тренеров в порядке регистрации (id ASC).
// Порядок стабильный: на нём основан детерминированный выбор тренера
// для запросов "any coach".
func (r *Repository) GetRoster(ctx context.Context) ([]domain.Coach, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name").
		From("coaches").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRoster - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoster - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	roster := make([]domain.Coach, 0)
	for rows.Next() {
		var c domain.Coach
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("%w: GetRoster - scan row: %w", ErrScanRow, err)
		}
		roster = append(roster, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRoster - rows error: %w", ErrScanRow, err)
	}

	return roster, nil
}

// GetByID получает тренера по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Coach, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name").
		From("coaches").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var c domain.Coach
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan coach: %w", ErrScanRow, err)
	}

	return &c, nil
}

// GetAvailability возвращает недельные окна доступности, ключ - id тренера.
// Если coachID задан, возвращает окна только этого тренера.
func (r *Repository) GetAvailability(ctx context.Context, coachID *int64) (map[int64][]domain.CoachAvailabilityBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"coach_id",
		"weekday",
		"start_hour",
		"end_hour",
	).
		From("coach_availability").
		OrderBy("coach_id ASC, weekday ASC, start_hour ASC")

	if coachID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"coach_id": *coachID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailability - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailability - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	availability := make(map[int64][]domain.CoachAvailabilityBlock)
	for rows.Next() {
		var block domain.CoachAvailabilityBlock
		var weekday int
		if err := rows.Scan(&block.CoachID, &weekday, &block.StartHour, &block.EndHour); err != nil {
			return nil, fmt.Errorf("%w: GetAvailability - scan row: %w", ErrScanRow, err)
		}
		block.Weekday = time.Weekday(weekday)
		availability[block.CoachID] = append(availability[block.CoachID], block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAvailability - rows error: %w", ErrScanRow, err)
	}

	return availability, nil
}
