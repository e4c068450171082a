package entity

import (
	"time"

	"github.com/google/uuid"
)

type Showtime struct {
	Base
	MovieID        uuid.UUID `db:"movie_id"`
	TheaterID      uuid.UUID `db:"theater_id"`
	StartTime      time.Time `db:"start_time"`
	EndTime        time.Time `db:"end_time"`
	MaxSeats       int       `db:"max_seats"`
	AvailableSeats int       `db:"available_seats"`
	Version        int64     `db:"version"`
}

// EndTimeFor returns when a screening of a movie lasting duration minutes
// that starts at start ends.
func EndTimeFor(start time.Time, duration int) time.Time {
	return start.Add(time.Duration(duration) * time.Minute)
}

// Overlaps reports whether the showtime shares any instant with [start, end].
// Touching boundaries count as overlap.
func (s *Showtime) Overlaps(start, end time.Time) bool {
	return !s.StartTime.After(end) && !s.EndTime.Before(start)
}
