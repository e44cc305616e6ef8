package domain

import "time"

// CreditBalance is a user's remaining prepaid simulator hours.
// Hours никогда не уходит в минус: списание - условный UPDATE,
// который отклоняется до записи бронирования (см. credits repository).
type CreditBalance struct {
	UserID    int64
	Hours     int
	UpdatedAt time.Time
}

// CanCover reports whether the balance covers the requested hours.
func (c *CreditBalance) CanCover(hours int) bool {
	return c.Hours >= hours
}
