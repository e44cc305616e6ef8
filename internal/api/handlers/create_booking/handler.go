package create_booking

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SimStudio-BookingService/internal/api/middleware"
	allocateBooking "github.com/m04kA/SimStudio-BookingService/internal/usecase/allocate_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartAt       = "некорректное время начала, ожидается ISO 8601"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgStudioClosed         = "студия закрыта в выбранную дату"
	msgOutsideBusinessHours = "слот вне рабочих часов студии"
	msgTooLateToBook        = "до начала сессии осталось меньше минимального времени"
	msgDateTooFar           = "дата бронирования слишком далеко в будущем"
	msgSimulatorsOccupied   = "все симуляторы заняты в выбранное время"
	msgCoachNotFound        = "тренер не найден"
	msgCoachUnavailable     = "тренер не работает в выбранное время"
	msgCoachConflict        = "тренер занят в выбранное время"
	msgConcurrencyConflict  = "слот был занят параллельным бронированием, попробуйте ещё раз"
)

type Handler struct {
	useCase AllocateBookingUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase AllocateBookingUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, h.loc)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var creditsErr *allocateBooking.InsufficientCreditsError

		switch {
		case errors.As(err, &creditsErr):
			h.logger.Warn("POST /bookings - Insufficient credits: user_id=%d, required=%d, available=%d",
				userID, creditsErr.Required, creditsErr.Available)
			handlers.RespondError(w, http.StatusPaymentRequired,
				fmt.Sprintf("недостаточно кредитов: требуется %d ч, доступно %d ч", creditsErr.Required, creditsErr.Available))

		case errors.Is(err, allocateBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid request: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, allocateBooking.ErrStudioClosed):
			h.logger.Warn("POST /bookings - Studio closed: user_id=%d, start_at=%s", userID, req.StartAt)
			handlers.RespondBadRequest(w, msgStudioClosed)

		case errors.Is(err, allocateBooking.ErrOutsideBusinessHours):
			h.logger.Warn("POST /bookings - Outside business hours: user_id=%d, start_at=%s", userID, req.StartAt)
			handlers.RespondBadRequest(w, msgOutsideBusinessHours)

		case errors.Is(err, allocateBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: user_id=%d, start_at=%s", userID, req.StartAt)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, allocateBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: user_id=%d, start_at=%s", userID, req.StartAt)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, allocateBooking.ErrCoachNotFound):
			h.logger.Warn("POST /bookings - Coach not found: user_id=%d, coach=%s", userID, req.Coach)
			handlers.RespondNotFound(w, msgCoachNotFound)

		case errors.Is(err, allocateBooking.ErrCoachUnavailable):
			h.logger.Warn("POST /bookings - Coach unavailable: user_id=%d, coach=%s", userID, req.Coach)
			handlers.RespondError(w, http.StatusConflict, msgCoachUnavailable)

		case errors.Is(err, allocateBooking.ErrCoachConflict):
			h.logger.Warn("POST /bookings - Coach conflict: user_id=%d, coach=%s", userID, req.Coach)
			handlers.RespondError(w, http.StatusConflict, msgCoachConflict)

		case errors.Is(err, allocateBooking.ErrSimulatorsOccupied):
			h.logger.Warn("POST /bookings - Simulators occupied: user_id=%d, start_at=%s", userID, req.StartAt)
			handlers.RespondError(w, http.StatusConflict, msgSimulatorsOccupied)

		case errors.Is(err, allocateBooking.ErrConcurrencyConflict):
			h.logger.Warn("POST /bookings - Concurrency conflict: user_id=%d, start_at=%s", userID, req.StartAt)
			handlers.RespondError(w, http.StatusConflict, msgConcurrencyConflict)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, simulator=%d",
		result.BookingID, userID, result.SimulatorID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
