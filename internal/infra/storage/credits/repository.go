// Package credits репозиторий предоплаченных часов пользователей.
// Единственное место, где баланс мутируется движком: списание при аллокации
// и возврат при отмене. Баланс не может уйти в минус - списание условное.
package credits

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	"github.com/m04kA/SimStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SimStudio-BookingService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий кредитных балансов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кредитов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBalance получает баланс пользователя.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetBalance(ctx context.Context, userID int64) (*domain.CreditBalance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("user_id", "hours", "updated_at").
		From("user_credits").
		Where(squirrel.Eq{"user_id": userID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBalance - build select query: %w", ErrBuildQuery, err)
	}

	var balance domain.CreditBalance
	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance.UserID, &balance.Hours, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBalanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBalance - scan balance: %w", ErrScanRow, err)
	}
	balance.UpdatedAt = updatedAt.Time

	return &balance, nil
}

// Debit списывает hours часов с баланса пользователя и возвращает новый
// баланс. Условный UPDATE: строка затрагивается только если баланса
// хватает, иначе ErrInsufficientBalance - до любой записи бронирования.
func (r *Repository) Debit(ctx context.Context, userID int64, hours int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("user_credits").
		Set("hours", squirrel.Expr("hours - ?", hours)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"hours": hours}).
		Suffix("RETURNING hours").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Debit - build update query: %w", ErrBuildQuery, err)
	}

	var newBalance int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&newBalance)
	if err == sql.ErrNoRows {
		// Либо записи нет, либо баланса не хватает - для вызывающего одно и то же
		return 0, ErrInsufficientBalance
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Debit - execute update: %w", ErrExecQuery, err)
	}

	return newBalance, nil
}

// Refund возвращает hours часов на баланс пользователя (upsert) и
// возвращает новый баланс.
func (r *Repository) Refund(ctx context.Context, userID int64, hours int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("user_credits").
		Columns("user_id", "hours").
		Values(userID, hours).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET hours = user_credits.hours + EXCLUDED.hours, updated_at = NOW()").
		Suffix("RETURNING hours").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Refund - build upsert query: %w", ErrBuildQuery, err)
	}

	var newBalance int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&newBalance); err != nil {
		return 0, fmt.Errorf("%w: Refund - execute upsert: %w", ErrExecQuery, err)
	}

	return newBalance, nil
}
