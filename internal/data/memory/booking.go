package memory

import (
	"context"
	"fmt"
	"sort"

	"theater-booking/internal/data/entity"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
)

type bookingRepository struct {
	s *Store
}

func (r *bookingRepository) CreateBatch(ctx context.Context, bookings []*entity.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	return r.s.write(ctx, func() (func(), error) {
		// check the whole batch before touching anything
		batch := make(map[seatKey]struct{}, len(bookings))
		for _, b := range bookings {
			key := seatKey{showtimeID: b.ShowtimeID, seat: b.SeatNumber}
			if _, taken := r.s.seats[key]; taken {
				return nil, fmt.Errorf("seat %d of showtime %s: %w", b.SeatNumber, b.ShowtimeID, database.ErrUniqueViolation)
			}
			if _, dup := batch[key]; dup {
				return nil, fmt.Errorf("seat %d of showtime %s: %w", b.SeatNumber, b.ShowtimeID, database.ErrUniqueViolation)
			}
			if _, ok := r.s.showtimes[b.ShowtimeID]; !ok {
				return nil, fmt.Errorf("booking references missing showtime %s", b.ShowtimeID)
			}
			if _, ok := r.s.users[b.UserID]; !ok {
				return nil, fmt.Errorf("booking references missing user %s", b.UserID)
			}
			batch[key] = struct{}{}
		}

		for _, b := range bookings {
			r.s.bookings[b.ID] = *b
			r.s.seats[seatKey{showtimeID: b.ShowtimeID, seat: b.SeatNumber}] = b.ID
		}

		return func() {
			for _, b := range bookings {
				delete(r.s.bookings, b.ID)
				delete(r.s.seats, seatKey{showtimeID: b.ShowtimeID, seat: b.SeatNumber})
			}
		}, nil
	})
}

func (r *bookingRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *bookingRepository) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	r.s.mu.RLock()
	result := make([]*entity.Booking, 0)
	for _, b := range r.s.bookings {
		if b.UserID == userID {
			result = append(result, &b)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].BookingTime.Equal(result[j].BookingTime) {
			return result[i].BookingTime.After(result[j].BookingTime)
		}
		return result[i].SeatNumber < result[j].SeatNumber
	})
	return result, nil
}

func (r *bookingRepository) FindBookedSeats(_ context.Context, showtimeID uuid.UUID, seats []int) ([]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	booked := make([]int, 0)
	for _, seat := range seats {
		if _, ok := r.s.seats[seatKey{showtimeID: showtimeID, seat: seat}]; ok {
			booked = append(booked, seat)
		}
	}
	sort.Ints(booked)
	return booked, nil
}

func (r *bookingRepository) ExistsByShowtimeAndSeat(_ context.Context, showtimeID uuid.UUID, seatNumber int) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.seats[seatKey{showtimeID: showtimeID, seat: seatNumber}]
	return ok, nil
}

func (r *bookingRepository) CountByShowtime(_ context.Context, showtimeID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, b := range r.s.bookings {
		if b.ShowtimeID == showtimeID {
			n++
		}
	}
	return n, nil
}
