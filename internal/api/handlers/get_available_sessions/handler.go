package get_available_sessions

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SimStudio-BookingService/internal/api/middleware"
	generateSessions "github.com/m04kA/SimStudio-BookingService/internal/usecase/generate_sessions"
)

const (
	msgMissingDuration   = "длительность сессии обязательна"
	msgInvalidDuration   = "некорректная длительность сессии"
	msgInvalidCoach      = "некорректный параметр coach, ожидается none, any или ID тренера"
	msgInvalidCoachHours = "некорректное количество часов с тренером"
	msgInvalidHorizon    = "некорректный горизонт в днях"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequest    = "некорректные параметры запроса"
	msgCoachNotFound     = "тренер не найден"
)

type Handler struct {
	useCase GenerateSessionsUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase GenerateSessionsUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions
// Query params: duration (required, часы), coach (none|any|ID), coachHours,
// horizonDays, date (YYYY-MM-DD, default сегодня)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	params, errMsg := parseQuery(r.URL.Query().Get, h.loc, time.Now().In(h.loc))
	if errMsg != "" {
		h.logger.Warn("GET /sessions - Invalid query params: %s", errMsg)
		handlers.RespondBadRequest(w, errMsg)
		return
	}

	// userID опционален: маршрут публичный, но заголовок учитывается для логов
	userID, _ := middleware.GetUserID(r.Context())

	useCaseReq := &generateSessions.Request{
		UserID:        userID,
		DurationHours: params.durationHours,
		Coach:         params.coach,
		CoachHours:    params.coachHours,
		HorizonDays:   params.horizonDays,
		ReferenceDate: params.referenceDate,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSessions.ErrCoachNotFound):
			h.logger.Warn("GET /sessions - Coach not found: coach=%s", params.coach)
			handlers.RespondNotFound(w, msgCoachNotFound)

		case errors.Is(err, generateSessions.ErrInvalidInput):
			h.logger.Warn("GET /sessions - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /sessions - Failed to generate sessions: duration=%dh, coach=%s, error=%v",
				params.durationHours, params.coach, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /sessions - Sessions generated successfully: duration=%dh, coach=%s, days=%d",
		params.durationHours, params.coach, len(response.Days))
	handlers.RespondJSON(w, http.StatusOK, response)
}
