package domain

import "time"

// BusinessHoursRule represents the standing weekly operating hours for one
// day of the week. Hours are whole-hour boundaries (0-24).
type BusinessHoursRule struct {
	Weekday   time.Weekday
	OpenHour  int
	CloseHour int
	Closed    bool
}

// SpecialDateOverride represents a one-off closure or modified hours for a
// single calendar date. It takes precedence over the weekly rule.
type SpecialDateOverride struct {
	Date        time.Time // date only, time part ignored
	Closed      bool
	OpenHour    *int // nil = keep the weekly rule's open hour
	CloseHour   *int
	Description string
}

// DayWindow is the effective open/close window resolved for one date.
type DayWindow struct {
	Open      bool
	OpenHour  int
	CloseHour int
}

// ResolveDayWindow computes the effective operating window for a date.
//
// Порядок разрешения:
//  1. фиксированный ежегодный выходной (25 апреля) - всегда закрыто;
//  2. override на конкретную дату (закрытие или изменённые часы);
//  3. недельное правило для дня недели;
//  4. суббота и воскресенье без правила/override - закрыто.
func ResolveDayWindow(date time.Time, rules []BusinessHoursRule, override *SpecialDateOverride) DayWindow {
	if IsClosedHoliday(date) {
		return DayWindow{Open: false}
	}

	var rule *BusinessHoursRule
	for i := range rules {
		if rules[i].Weekday == date.Weekday() {
			rule = &rules[i]
			break
		}
	}

	if override != nil {
		if override.Closed {
			return DayWindow{Open: false}
		}
		window := DayWindow{Open: true}
		// Изменённые часы берём из override, недостающие - из недельного правила
		if override.OpenHour != nil {
			window.OpenHour = *override.OpenHour
		} else if rule != nil && !rule.Closed {
			window.OpenHour = rule.OpenHour
		} else {
			return DayWindow{Open: false}
		}
		if override.CloseHour != nil {
			window.CloseHour = *override.CloseHour
		} else if rule != nil && !rule.Closed {
			window.CloseHour = rule.CloseHour
		} else {
			return DayWindow{Open: false}
		}
		if window.CloseHour <= window.OpenHour {
			return DayWindow{Open: false}
		}
		return window
	}

	if rule == nil {
		// Выходные по умолчанию закрыты, будние без правила тоже
		return DayWindow{Open: false}
	}
	if rule.Closed || rule.CloseHour <= rule.OpenHour {
		return DayWindow{Open: false}
	}

	return DayWindow{Open: true, OpenHour: rule.OpenHour, CloseHour: rule.CloseHour}
}

// DateKey returns the canonical YYYY-MM-DD key for a date.
func DateKey(date time.Time) string {
	return date.Format(DateFormat)
}
