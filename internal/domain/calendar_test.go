package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SimStudio-BookingService/pkg/ptr"
)

func weekdayRules() []BusinessHoursRule {
	return []BusinessHoursRule{
		{Weekday: time.Monday, OpenHour: 9, CloseHour: 21},
		{Weekday: time.Tuesday, OpenHour: 9, CloseHour: 21},
		{Weekday: time.Wednesday, OpenHour: 9, CloseHour: 21},
		{Weekday: time.Thursday, OpenHour: 9, CloseHour: 21},
		{Weekday: time.Friday, OpenHour: 9, CloseHour: 21},
	}
}

func TestResolveDayWindow_WeekdayRule(t *testing.T) {
	// Понедельник
	date := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, date.Weekday())

	window := ResolveDayWindow(date, weekdayRules(), nil)

	assert.True(t, window.Open)
	assert.Equal(t, 9, window.OpenHour)
	assert.Equal(t, 21, window.CloseHour)
}

func TestResolveDayWindow_WeekendClosedByDefault(t *testing.T) {
	saturday := time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Saturday, saturday.Weekday())
	sunday := saturday.AddDate(0, 0, 1)

	assert.False(t, ResolveDayWindow(saturday, weekdayRules(), nil).Open)
	assert.False(t, ResolveDayWindow(sunday, weekdayRules(), nil).Open)
}

func TestResolveDayWindow_AnnualHolidayAlwaysClosed(t *testing.T) {
	// 25 апреля закрыто даже при явном override с часами
	date := time.Date(2026, 4, 25, 0, 0, 0, 0, time.UTC)
	override := &SpecialDateOverride{Date: date, OpenHour: ptr.Ptr(10), CloseHour: ptr.Ptr(18)}

	window := ResolveDayWindow(date, weekdayRules(), override)

	assert.False(t, window.Open)
	assert.True(t, IsClosedHoliday(date))
}

func TestResolveDayWindow_OverrideClosure(t *testing.T) {
	date := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	override := &SpecialDateOverride{Date: date, Closed: true, Description: "maintenance"}

	assert.False(t, ResolveDayWindow(date, weekdayRules(), override).Open)
}

func TestResolveDayWindow_OverrideOpensWeekend(t *testing.T) {
	saturday := time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC)
	override := &SpecialDateOverride{Date: saturday, OpenHour: ptr.Ptr(10), CloseHour: ptr.Ptr(16)}

	window := ResolveDayWindow(saturday, weekdayRules(), override)

	assert.True(t, window.Open)
	assert.Equal(t, 10, window.OpenHour)
	assert.Equal(t, 16, window.CloseHour)
}

func TestResolveDayWindow_OverridePartialHoursFallBackToRule(t *testing.T) {
	// Override задаёт только час закрытия, час открытия берётся из недельного правила
	date := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Tuesday, date.Weekday())
	override := &SpecialDateOverride{Date: date, CloseHour: ptr.Ptr(15)}

	window := ResolveDayWindow(date, weekdayRules(), override)

	assert.True(t, window.Open)
	assert.Equal(t, 9, window.OpenHour)
	assert.Equal(t, 15, window.CloseHour)
}

func TestResolveDayWindow_OverridePartialHoursWithoutRuleClosed(t *testing.T) {
	// Суббота без недельного правила: частичный override не даёт полного окна
	saturday := time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC)
	override := &SpecialDateOverride{Date: saturday, CloseHour: ptr.Ptr(15)}

	assert.False(t, ResolveDayWindow(saturday, weekdayRules(), override).Open)
}

func TestResolveDayWindow_DegenerateWindowClosed(t *testing.T) {
	date := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	override := &SpecialDateOverride{Date: date, OpenHour: ptr.Ptr(15), CloseHour: ptr.Ptr(15)}

	assert.False(t, ResolveDayWindow(date, weekdayRules(), override).Open)
}
