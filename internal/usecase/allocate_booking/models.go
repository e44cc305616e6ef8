package allocate_booking

import (
	"time"

	"github.com/m04kA/SimStudio-BookingService/internal/domain"
)

// Request модель запроса на аллокацию бронирования
type Request struct {
	UserID        int64                // ID пользователя
	StartAt       time.Time            // Начало выбранного слота (целый час)
	DurationHours int                  // Длительность сессии в целых часах
	Coach         domain.CoachSelector // none / any / конкретный тренер
	CoachHours    int                  // Часы с тренером от начала слота (0 без тренера)

	// PendingPayment явный режим заглушки для платёжного redirect-флоу:
	// бронирование создаётся со статусом pending_payment БЕЗ списания
	// кредитов и либо подтверждается после оплаты, либо истекает по TTL.
	// Это единственный путь в обход проверки баланса.
	PendingPayment bool
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID        int64     // ID созданного бронирования
	SimulatorID      int       // Назначенный симулятор (наименьший свободный из {1..4})
	CoachID          *int64    // Разрешённый тренер (nil без тренера)
	StartAt          time.Time // Начало сессии
	EndAt            time.Time // Конец сессии
	Status           string    // Статус бронирования
	RemainingCredits int       // Баланс после списания
}
