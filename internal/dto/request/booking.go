package request

type SeatRequest struct {
	SeatNumber int `json:"seat_number" validate:"required,min=1"`
}

type BookingRequest struct {
	ShowtimeID string        `json:"showtime_id" validate:"required,uuid"`
	Seats      []SeatRequest `json:"seats" validate:"required,min=1,dive"`
}

// SeatNumbers returns the requested seat numbers in request order.
func (r *BookingRequest) SeatNumbers() []int {
	seats := make([]int, len(r.Seats))
	for i, s := range r.Seats {
		seats[i] = s.SeatNumber
	}
	return seats
}
