package create_booking

import (
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	allocateBooking "github.com/m04kA/SimStudio-BookingService/internal/usecase/allocate_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	StartAt        string `json:"startAt"` // ISO 8601
	DurationHours  int    `json:"durationHours"`
	Coach          string `json:"coach,omitempty"` // "none" | "any" | ID тренера
	CoachHours     int    `json:"coachHours,omitempty"`
	PendingPayment bool   `json:"pendingPayment,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID               int64  `json:"id"`
	SimulatorID      int    `json:"simulatorId"`
	CoachID          *int64 `json:"coachId,omitempty"`
	StartAt          string `json:"startAt"`
	EndAt            string `json:"endAt"`
	Status           string `json:"status"`
	RemainingCredits int    `json:"remainingCredits"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64, loc *time.Location) (*allocateBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	coach, err := domain.ParseCoachSelector(r.Coach)
	if err != nil {
		return nil, err
	}

	coachHours := r.CoachHours
	if coach.WantsCoach() && coachHours == 0 {
		// По умолчанию тренер сопровождает всю сессию
		coachHours = r.DurationHours
	}

	return &allocateBooking.Request{
		UserID:         userID,
		StartAt:        startAt.In(loc),
		DurationHours:  r.DurationHours,
		Coach:          coach,
		CoachHours:     coachHours,
		PendingPayment: r.PendingPayment,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *allocateBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:               resp.BookingID,
		SimulatorID:      resp.SimulatorID,
		CoachID:          resp.CoachID,
		StartAt:          resp.StartAt.Format(time.RFC3339),
		EndAt:            resp.EndAt.Format(time.RFC3339),
		Status:           resp.Status,
		RemainingCredits: resp.RemainingCredits,
	}
}
