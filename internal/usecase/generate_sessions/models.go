package generate_sessions

import (
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// Request модель запроса на генерацию сессий
type Request struct {
	UserID        int64                // ID пользователя (для логирования, не влияет на результат)
	DurationHours int                  // Длительность сессии в целых часах
	Coach         domain.CoachSelector // none / any / конкретный тренер
	CoachHours    int                  // Сколько часов из сессии идёт с тренером (0 без тренера)
	HorizonDays   int                  // Горизонт в днях (0 = DefaultHorizonDays)
	ReferenceDate time.Time            // Первая дата горизонта (без времени)
}

// Response модель ответа: слоты по датам
type Response struct {
	// Dates отсортированные по возрастанию ключи Sessions - порядок обхода
	// детерминирован независимо от порядка итерации map
	Dates []string

	// Sessions слоты по ISO-дате (YYYY-MM-DD), внутри даты по возрастанию времени
	Sessions map[string][]domain.Slot

	// Message агрегированная причина, когда доступных слотов нет.
	// Пустая строка, если хотя бы один слот доступен.
	Message string
}

// snapshot срез состояния read-only хранилищ, по которому слоты
// вычисляются как чистая функция
type snapshot struct {
	rules        []domain.BusinessHoursRule
	overrides    map[string]*domain.SpecialDateOverride
	roster       []domain.Coach
	availability map[int64][]domain.CoachAvailabilityBlock
	bookings     []*domain.Booking
}
