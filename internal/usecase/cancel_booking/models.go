package cancel_booking

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64
	UserID    int64
	// ByStudio отмена инициирована студией, а не владельцем
	ByStudio bool
	Reason   *string
}

// Response модель ответа отмены бронирования
type Response struct {
	BookingID     int64
	Status        string
	RefundedHours int
	// RemainingCredits баланс после возврата; актуален только при RefundedHours > 0
	RemainingCredits int
}
