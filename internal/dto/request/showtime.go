package request

import "time"

type ShowtimeRequest struct {
	MovieID   string    `json:"movie_id" validate:"required,uuid"`
	TheaterID string    `json:"theater_id" validate:"required,uuid"`
	StartTime time.Time `json:"start_time" validate:"required,future"`
	MaxSeats  int       `json:"max_seats" validate:"required,min=1"`
}

// AvailabilityQuery asks whether a theater is free over [StartTime, EndTime].
type AvailabilityQuery struct {
	TheaterID string    `json:"theater_id" validate:"required,uuid"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}
