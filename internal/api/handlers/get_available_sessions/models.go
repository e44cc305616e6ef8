package get_available_sessions

import (
	"strconv"
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
	generateSessions "github.com/m04kA/SimStudio-BookingService/internal/usecase/generate_sessions"
)

// SessionsResponse HTTP response model
type SessionsResponse struct {
	Days    []DaySessions `json:"days"`
	Message string        `json:"message,omitempty"`
}

// DaySessions слоты одной даты
type DaySessions struct {
	Date     string    `json:"date"` // "2026-05-12"
	Sessions []Session `json:"sessions"`
}

// Session модель слота
type Session struct {
	StartAt   string `json:"startAt"` // ISO 8601
	EndAt     string `json:"endAt"`   // ISO 8601
	Label     string `json:"label"`   // "10:00 - 12:00", "--" для заглушки закрытого дня
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// queryParams разобранные query параметры запроса
type queryParams struct {
	durationHours int
	coach         domain.CoachSelector
	coachHours    int
	horizonDays   int
	referenceDate time.Time
}

// parseQuery разбирает query параметры.
// date по умолчанию - сегодняшняя дата в таймзоне студии.
func parseQuery(get func(string) string, loc *time.Location, now time.Time) (*queryParams, string) {
	durationStr := get("duration")
	if durationStr == "" {
		return nil, msgMissingDuration
	}
	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		return nil, msgInvalidDuration
	}

	coach, err := domain.ParseCoachSelector(get("coach"))
	if err != nil {
		return nil, msgInvalidCoach
	}

	coachHours := 0
	if s := get("coachHours"); s != "" {
		if coachHours, err = strconv.Atoi(s); err != nil {
			return nil, msgInvalidCoachHours
		}
	} else if coach.WantsCoach() {
		// По умолчанию тренер сопровождает всю сессию
		coachHours = duration
	}

	horizonDays := 0
	if s := get("horizonDays"); s != "" {
		if horizonDays, err = strconv.Atoi(s); err != nil {
			return nil, msgInvalidHorizon
		}
	}

	referenceDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if s := get("date"); s != "" {
		parsed, err := time.ParseInLocation(domain.DateFormat, s, loc)
		if err != nil {
			return nil, msgInvalidDate
		}
		referenceDate = parsed
	}

	return &queryParams{
		durationHours: duration,
		coach:         coach,
		coachHours:    coachHours,
		horizonDays:   horizonDays,
		referenceDate: referenceDate,
	}, ""
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSessions.Response) *SessionsResponse {
	days := make([]DaySessions, 0, len(resp.Dates))
	for _, date := range resp.Dates {
		slots := resp.Sessions[date]
		sessions := make([]Session, len(slots))
		for i, slot := range slots {
			sessions[i] = Session{
				StartAt:   slot.StartAt.Format(time.RFC3339),
				EndAt:     slot.EndAt.Format(time.RFC3339),
				Label:     slot.Label,
				Available: slot.Available,
				Reason:    string(slot.Reason),
			}
		}
		days = append(days, DaySessions{Date: date, Sessions: sessions})
	}

	return &SessionsResponse{
		Days:    days,
		Message: resp.Message,
	}
}
