package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
)

// Booking is one seat of one showtime sold to one user.
type Booking struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	ShowtimeID  uuid.UUID       `db:"showtime_id"`
	SeatNumber  int             `db:"seat_number"`
	Price       decimal.Decimal `db:"price"`
	BookingTime time.Time       `db:"booking_time"`
	Status      BookingStatus   `db:"status"`
}
