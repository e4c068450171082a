package response

import (
	"time"

	"theater-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID          string            `json:"id"`
	Showtime    *ShowtimeResponse `json:"showtime,omitempty"`
	SeatNumber  int               `json:"seat_number"`
	Price       decimal.Decimal   `json:"price"`
	BookingTime time.Time         `json:"booking_time"`
	Status      string            `json:"status"`
}

func BookingToResponse(booking *entity.Booking, showtime *ShowtimeResponse) BookingResponse {
	return BookingResponse{
		ID:          booking.ID.String(),
		Showtime:    showtime,
		SeatNumber:  booking.SeatNumber,
		Price:       booking.Price,
		BookingTime: booking.BookingTime,
		Status:      string(booking.Status),
	}
}

type SeatAvailabilityResponse struct {
	ShowtimeID string `json:"showtime_id"`
	SeatNumber int    `json:"seat_number"`
	Available  bool   `json:"available"`
}
