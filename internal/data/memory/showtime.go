package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"theater-booking/internal/data/entity"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
)

type showtimeRepository struct {
	s *Store
}

// showtimeIDs returns the ids of the showtimes matching keep, sorted so
// that callers locking several rows always lock them in the same order.
func (s *Store) showtimeIDs(keep func(entity.Showtime) bool) []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0)
	for id, st := range s.showtimes {
		if keep(st) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// deleteShowtimeLocked removes a showtime and its bookings. Caller holds s.mu.
func (s *Store) deleteShowtimeLocked(id uuid.UUID) func() {
	st := s.showtimes[id]
	removed := make([]entity.Booking, 0)
	for bid, b := range s.bookings {
		if b.ShowtimeID == id {
			removed = append(removed, b)
			delete(s.bookings, bid)
			delete(s.seats, seatKey{showtimeID: id, seat: b.SeatNumber})
		}
	}
	delete(s.showtimes, id)

	return func() {
		s.showtimes[id] = st
		for _, b := range removed {
			s.bookings[b.ID] = b
			s.seats[seatKey{showtimeID: id, seat: b.SeatNumber}] = b.ID
		}
	}
}

func (s *Store) findShowtimes(keep func(entity.Showtime) bool) []*entity.Showtime {
	s.mu.RLock()
	result := make([]*entity.Showtime, 0)
	for _, st := range s.showtimes {
		if keep(st) {
			result = append(result, &st)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result
}

func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	return r.s.write(ctx, func() (func(), error) {
		if _, ok := r.s.movies[showtime.MovieID]; !ok {
			return nil, fmt.Errorf("showtime references missing movie %s", showtime.MovieID)
		}
		if _, ok := r.s.theaters[showtime.TheaterID]; !ok {
			return nil, fmt.Errorf("showtime references missing theater %s", showtime.TheaterID)
		}
		r.s.showtimes[showtime.ID] = *showtime
		return func() { delete(r.s.showtimes, showtime.ID) }, nil
	})
}

func (r *showtimeRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Showtime, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.showtimes[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *showtimeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	if err := r.s.lockRow(ctx, showtimeLockKey(id)); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *showtimeRepository) FindByMovie(_ context.Context, movieID uuid.UUID) ([]*entity.Showtime, error) {
	return r.s.findShowtimes(func(st entity.Showtime) bool { return st.MovieID == movieID }), nil
}

func (r *showtimeRepository) FindByTheater(_ context.Context, theaterID uuid.UUID) ([]*entity.Showtime, error) {
	return r.s.findShowtimes(func(st entity.Showtime) bool { return st.TheaterID == theaterID }), nil
}

func (r *showtimeRepository) FindOverlapping(_ context.Context, theaterID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]*entity.Showtime, error) {
	return r.s.findShowtimes(func(st entity.Showtime) bool {
		return st.TheaterID == theaterID && st.ID != excludeID && st.Overlaps(start, end)
	}), nil
}

func (r *showtimeRepository) CountByTheater(_ context.Context, theaterID uuid.UUID) (int64, error) {
	return int64(len(r.s.findShowtimes(func(st entity.Showtime) bool { return st.TheaterID == theaterID }))), nil
}

func (r *showtimeRepository) CountByMovie(_ context.Context, movieID uuid.UUID) (int64, error) {
	return int64(len(r.s.findShowtimes(func(st entity.Showtime) bool { return st.MovieID == movieID }))), nil
}

func (r *showtimeRepository) MaxSeatsInTheater(_ context.Context, theaterID uuid.UUID) (int, error) {
	maxSeats := 0
	for _, st := range r.s.findShowtimes(func(st entity.Showtime) bool { return st.TheaterID == theaterID }) {
		maxSeats = max(maxSeats, st.MaxSeats)
	}
	return maxSeats, nil
}

func (r *showtimeRepository) Update(ctx context.Context, showtime *entity.Showtime) error {
	return r.s.write(ctx, func() (func(), error) {
		old, ok := r.s.showtimes[showtime.ID]
		if !ok || old.Version != showtime.Version {
			return nil, fmt.Errorf("update showtime %s: %w", showtime.ID, database.ErrStaleRow)
		}
		if _, ok := r.s.theaters[showtime.TheaterID]; !ok {
			return nil, fmt.Errorf("showtime references missing theater %s", showtime.TheaterID)
		}

		showtime.Version++
		r.s.showtimes[showtime.ID] = *showtime
		return func() { r.s.showtimes[old.ID] = old }, nil
	})
}

func (r *showtimeRepository) DecrementAvailableSeats(ctx context.Context, id uuid.UUID, n int) error {
	return r.s.write(ctx, func() (func(), error) {
		old, ok := r.s.showtimes[id]
		if !ok || old.AvailableSeats < n {
			return nil, fmt.Errorf("decrement seats of showtime %s: %w", id, database.ErrStaleRow)
		}

		st := old
		st.AvailableSeats -= n
		st.Version++
		st.UpdatedAt = time.Now()
		r.s.showtimes[id] = st
		return func() { r.s.showtimes[id] = old }, nil
	})
}

func (r *showtimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func() (func(), error) {
		if _, ok := r.s.showtimes[id]; !ok {
			return nil, fmt.Errorf("delete showtime %s: %w", id, database.ErrStaleRow)
		}
		return r.s.deleteShowtimeLocked(id), nil
	})
}
