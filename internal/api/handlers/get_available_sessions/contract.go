package get_available_sessions

import (
	"context"

	generateSessions "github.com/m04kA/SimStudio-BookingService/internal/usecase/generate_sessions"
)

type GenerateSessionsUseCase interface {
	Execute(ctx context.Context, req *generateSessions.Request) (*generateSessions.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
