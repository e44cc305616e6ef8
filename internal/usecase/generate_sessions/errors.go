package generate_sessions

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_sessions: invalid input data")

	// ErrCoachNotFound возвращается, когда запрошенный тренер не существует
	ErrCoachNotFound = errors.New("generate_sessions: coach not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_sessions: internal error")
)
