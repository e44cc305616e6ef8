// Package dbmetrics обёртка над *sql.DB со сбором метрик запросов
// и протаскиванием активной транзакции через context.
package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/m04kA/SimStudio-BookingService/pkg/metrics"
)

// DBExecutor общий интерфейс для *sql.DB, *sql.Tx и их метрик-обёрток
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor интерфейс транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type ctxKey struct{}

// ContextWithTx кладет активную транзакцию в context.
// Репозитории достают её через GetExecutor.
func ContextWithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// GetExecutor возвращает транзакцию из context, если она есть, иначе fallback
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(ctxKey{}).(TxExecutor); ok {
		return tx
	}
	return fallback
}

// IsInTransaction сообщает, выполняется ли вызов внутри транзакции
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKey{}).(TxExecutor)
	return ok
}

// DB обёртка над *sql.DB с метриками
type DB struct {
	db *sql.DB
	m  *metrics.Metrics
}

// WrapWithDefault оборачивает *sql.DB и запускает периодический сбор
// статистики пула соединений до закрытия stop.
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, serviceName string, stop <-chan struct{}) *DB {
	wrapped := &DB{db: db, m: m}

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.SetDBPoolStats(db.Stats())
			case <-stop:
				return
			}
		}
	}()

	return wrapped
}

// operation извлекает SQL-глагол для лейбла метрики
func operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

// ExecContext выполняет запрос с фиксацией метрик
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.m.ObserveDBQuery(operation(query), time.Since(start), err)
	return res, err
}

// QueryContext выполняет запрос с фиксацией метрик
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.m.ObserveDBQuery(operation(query), time.Since(start), err)
	return rows, err
}

// QueryRowContext выполняет запрос с фиксацией метрик
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.m.ObserveDBQuery(operation(query), time.Since(start), nil)
	return row
}

// BeginTx начинает транзакцию; запросы внутри неё тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &measuredTx{tx: tx, m: d.m}, nil
}

// Stats возвращает статистику пула соединений
func (d *DB) Stats() sql.DBStats {
	return d.db.Stats()
}

// measuredTx транзакция с метриками
type measuredTx struct {
	tx *sql.Tx
	m  *metrics.Metrics
}

func (t *measuredTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.m.ObserveDBQuery(operation(query), time.Since(start), err)
	return res, err
}

func (t *measuredTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.m.ObserveDBQuery(operation(query), time.Since(start), err)
	return rows, err
}

func (t *measuredTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.m.ObserveDBQuery(operation(query), time.Since(start), nil)
	return row
}

func (t *measuredTx) Commit() error   { return t.tx.Commit() }
func (t *measuredTx) Rollback() error { return t.tx.Rollback() }
