package cancel_booking

import (
	cancelBooking "github.com/m04kA/SimStudio-BookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID               int64  `json:"id"`
	Status           string `json:"status"`
	RefundedHours    int    `json:"refundedHours"`
	RemainingCredits int    `json:"remainingCredits"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:               resp.BookingID,
		Status:           resp.Status,
		RefundedHours:    resp.RefundedHours,
		RemainingCredits: resp.RemainingCredits,
	}
}
