package generate_sessions

import (
	"fmt"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DurationHours < domain.MinSessionHours || req.DurationHours > domain.MaxSessionHours {
		return fmt.Errorf("%w: durationHours must be in [%d, %d]",
			ErrInvalidInput, domain.MinSessionHours, domain.MaxSessionHours)
	}

	if req.ReferenceDate.IsZero() {
		return fmt.Errorf("%w: referenceDate is required", ErrInvalidInput)
	}

	if req.HorizonDays < 0 {
		return fmt.Errorf("%w: horizonDays must be non-negative", ErrInvalidInput)
	}

	if req.Coach.WantsCoach() {
		if req.CoachHours <= 0 {
			return fmt.Errorf("%w: coachHours must be positive when a coach is requested", ErrInvalidInput)
		}
		if req.CoachHours > req.DurationHours {
			return fmt.Errorf("%w: coachHours cannot exceed durationHours", ErrInvalidInput)
		}
	} else if req.CoachHours != 0 {
		return fmt.Errorf("%w: coachHours must be zero without a coach", ErrInvalidInput)
	}

	return nil
}

// validateCoachExists проверяет, что конкретно запрошенный тренер есть в реестре
func validateCoachExists(selector domain.CoachSelector, roster []domain.Coach) error {
	coachID, ok := selector.CoachID()
	if !ok {
		return nil
	}
	for i := range roster {
		if roster[i].ID == coachID {
			return nil
		}
	}
	return ErrCoachNotFound
}
