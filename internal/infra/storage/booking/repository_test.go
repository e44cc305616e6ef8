package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	"github.com/m04kA/SimStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SimStudio-BookingService/pkg/txmanager"
)

// failingTx транзакция, у которой любой запрос завершается заданной ошибкой
type failingTx struct {
	err error
}

func (t *failingTx) ExecContext(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
	return nil, t.err
}

func (t *failingTx) QueryContext(_ context.Context, _ string, _ ...interface{}) (*sql.Rows, error) {
	return nil, t.err
}

func (t *failingTx) QueryRowContext(_ context.Context, _ string, _ ...interface{}) *sql.Row {
	return nil
}

func (t *failingTx) Commit() error   { return nil }
func (t *failingTx) Rollback() error { return nil }

// Конфликт сериализации на уровне SELECT ... FOR UPDATE должен оставаться
// различимым для retry-логики менеджера транзакций после оборачивания
// ошибки репозиторием.
func TestGetOverlapping_SerializationFailureStaysRetryable(t *testing.T) {
	pqErr := &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"}
	ctx := dbmetrics.ContextWithTx(context.Background(), &failingTx{err: pqErr})

	repo := NewRepository(nil)
	start := time.Date(2026, 5, 11, 12, 0, 0, 0, time.UTC)

	_, err := repo.GetOverlapping(ctx, start, start.Add(2*time.Hour))
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrExecQuery)

	var unwrapped *pq.Error
	require.ErrorAs(t, err, &unwrapped)
	assert.Equal(t, pq.ErrorCode("40001"), unwrapped.Code)

	assert.True(t, txmanager.IsRetryable(err))
}

func TestCancel_ExecErrorKeepsDriverChain(t *testing.T) {
	pqErr := &pq.Error{Code: "40P01", Message: "deadlock detected"}
	ctx := dbmetrics.ContextWithTx(context.Background(), &failingTx{err: pqErr})

	repo := NewRepository(nil)

	err := repo.Cancel(ctx, 1, domain.StatusCancelledByUser, nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrExecQuery)

	var unwrapped *pq.Error
	assert.True(t, errors.As(err, &unwrapped))
	assert.True(t, txmanager.IsRetryable(err))
}
