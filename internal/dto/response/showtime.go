package response

import (
	"time"

	"theater-booking/internal/data/entity"
)

type ShowtimeResponse struct {
	ID             string           `json:"id"`
	Movie          *MovieResponse   `json:"movie,omitempty"`
	Theater        *TheaterResponse `json:"theater,omitempty"`
	StartTime      time.Time        `json:"start_time"`
	EndTime        time.Time        `json:"end_time"`
	MaxSeats       int              `json:"max_seats"`
	AvailableSeats int              `json:"available_seats"`
}

// ShowtimeToResponse converts a showtime. movie and theater are embedded
// when given.
func ShowtimeToResponse(showtime *entity.Showtime, movie *entity.Movie, theater *entity.Theater) ShowtimeResponse {
	resp := ShowtimeResponse{
		ID:             showtime.ID.String(),
		StartTime:      showtime.StartTime,
		EndTime:        showtime.EndTime,
		MaxSeats:       showtime.MaxSeats,
		AvailableSeats: showtime.AvailableSeats,
	}
	if movie != nil {
		m := MovieToResponse(movie)
		resp.Movie = &m
	}
	if theater != nil {
		t := TheaterToResponse(theater)
		resp.Theater = &t
	}
	return resp
}

type AvailabilityResponse struct {
	TheaterID string    `json:"theater_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}
