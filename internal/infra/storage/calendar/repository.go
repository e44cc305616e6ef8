// Package calendar репозиторий расписания студии: недельные рабочие часы
// и точечные override'ы на конкретные даты. Данные read-only для движка -
// редактируются административным контуром вне этого сервиса.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	"github.com/m04kA/SimStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SimStudio-BookingService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий календарных правил
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusinessHours возвращает недельные правила рабочих часов.
// Дни без правила считаются закрытыми на уровне domain.ResolveDayWindow.
func (r *Repository) GetBusinessHours(ctx context.Context) ([]domain.BusinessHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"open_hour",
		"close_hour",
		"is_closed",
	).
		From("business_hours").
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]domain.BusinessHoursRule, 0, 7)
	for rows.Next() {
		var rule domain.BusinessHoursRule
		var weekday int
		if err := rows.Scan(&weekday, &rule.OpenHour, &rule.CloseHour, &rule.Closed); err != nil {
			return nil, fmt.Errorf("%w: GetBusinessHours - scan row: %w", ErrScanRow, err)
		}
		rule.Weekday = time.Weekday(weekday)
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - rows error: %w", ErrScanRow, err)
	}

	return rules, nil
}

// GetSpecialDates возвращает override'ы для дат в [from, to),
// ключ - дата в формате YYYY-MM-DD.
func (r *Repository) GetSpecialDates(ctx context.Context, from, to time.Time) (map[string]*domain.SpecialDateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"date",
		"is_closed",
		"open_hour",
		"close_hour",
		"description",
	).
		From("special_dates").
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.Lt{"date": to}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDates - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make(map[string]*domain.SpecialDateOverride)
	for rows.Next() {
		var o domain.SpecialDateOverride
		if err := rows.Scan(&o.Date, &o.Closed, &o.OpenHour, &o.CloseHour, &o.Description); err != nil {
			return nil, fmt.Errorf("%w: GetSpecialDates - scan row: %w", ErrScanRow, err)
		}
		overrides[domain.DateKey(o.Date)] = &o
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDates - rows error: %w", ErrScanRow, err)
	}

	return overrides, nil
}
