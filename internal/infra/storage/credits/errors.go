package credits

import "errors"

var (
	// ErrBalanceNotFound возвращается, когда у пользователя нет записи баланса
	ErrBalanceNotFound = errors.New("credits.repository: balance not found")

	// ErrInsufficientBalance возвращается, когда списание ушло бы в минус
	ErrInsufficientBalance = errors.New("credits.repository: insufficient balance")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("credits.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("credits.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("credits.repository: failed to scan row")
)
