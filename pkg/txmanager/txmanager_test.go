package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SimStudio-BookingService/pkg/dbmetrics"
)

type nopTx struct{}

func (nopTx) ExecContext(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (nopTx) QueryContext(_ context.Context, _ string, _ ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (nopTx) QueryRowContext(_ context.Context, _ string, _ ...interface{}) *sql.Row {
	return nil
}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type fakeBeginner struct {
	begins int
}

func (f *fakeBeginner) BeginTx(_ context.Context, _ *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.begins++
	return nopTx{}, nil
}

var errRepo = errors.New("booking.repository: failed to execute query")

// repoWrapped оборачивает ошибку драйвера так же, как это делают репозитории
func repoWrapped(driverErr error) error {
	return fmt.Errorf("%w: GetOverlapping - execute query: %w", errRepo, driverErr)
}

// Конфликт сериализации, пришедший из запроса внутри fn (а не из commit),
// тоже должен приводить к повтору транзакции целиком.
func TestDoSerializable_RetriesWrappedSerializationFailure(t *testing.T) {
	db := &fakeBeginner{}
	mgr := NewTransactionManager(db)

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return repoWrapped(&pq.Error{Code: "40001"})
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationConflict)
	assert.Equal(t, maxSerializableAttempts, attempts)
	assert.Equal(t, maxSerializableAttempts, db.begins)
}

func TestDoSerializable_RecoversAfterSingleConflict(t *testing.T) {
	db := &fakeBeginner{}
	mgr := NewTransactionManager(db)

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return repoWrapped(&pq.Error{Code: "40P01"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDoSerializable_NonRetryableFailsFast(t *testing.T) {
	db := &fakeBeginner{}
	mgr := NewTransactionManager(db)

	businessErr := errors.New("insufficient balance")

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return businessErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, businessErr)
	assert.NotErrorIs(t, err, ErrSerializationConflict)
	assert.Equal(t, 1, attempts)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"raw serialization failure", &pq.Error{Code: "40001"}, true},
		{"raw deadlock", &pq.Error{Code: "40P01"}, true},
		{"wrapped by repository", repoWrapped(&pq.Error{Code: "40001"}), true},
		{"double wrapped", fmt.Errorf("usecase: %w", repoWrapped(&pq.Error{Code: "40P01"})), true},
		{"other pq code", &pq.Error{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
