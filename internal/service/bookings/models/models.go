package models

import (
	"errors"
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	SimulatorID   int    `json:"simulatorId"`
	CoachID       *int64 `json:"coachId,omitempty"`
	StartAt       string `json:"startAt"` // ISO 8601
	EndAt         string `json:"endAt"`   // ISO 8601
	DurationHours int    `json:"durationHours"`
	CoachHours    int    `json:"coachHours"`
	Status        string `json:"status"`

	// Денормализованные данные
	UserName *string `json:"userName,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		SimulatorID:        b.SimulatorID,
		CoachID:            b.CoachID,
		StartAt:            b.StartAt.Format(time.RFC3339),
		EndAt:              b.EndAt.Format(time.RFC3339),
		DurationHours:      b.DurationHours,
		CoachHours:         b.CoachHours,
		Status:             string(b.Status),
		UserName:           b.UserName,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPendingPayment,
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusCancelledByUser,
		domain.StatusCancelledByStudio,
		domain.StatusExpired,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
