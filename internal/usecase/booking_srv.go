package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"
	"theater-booking/pkg/apperror"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingService interface {
	// CreateBooking books every requested seat of one showtime for the
	// caller, or none of them. Bookings come back ordered by seat number.
	CreateBooking(ctx context.Context, username string, req *request.BookingRequest) ([]response.BookingResponse, error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, username string) ([]response.BookingResponse, error)
	// IsSeatAvailable is a plain read; it does not wait for bookings in flight.
	IsSeatAvailable(ctx context.Context, showtimeID string, seatNumber int) (*response.SeatAvailabilityResponse, error)
}

type bookingService struct {
	repo        *repository.Repository
	ticketPrice decimal.Decimal
	log         *zap.Logger
}

func NewBookingService(repo *repository.Repository, ticketPrice decimal.Decimal, log *zap.Logger) BookingService {
	return &bookingService{
		repo:        repo,
		ticketPrice: ticketPrice,
		log:         log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) resolveUser(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found with username: %s", username)
	}
	return user, nil
}

func firstDuplicate(seats []int) (int, bool) {
	seen := make(map[int]struct{}, len(seats))
	for _, seat := range seats {
		if _, ok := seen[seat]; ok {
			return seat, true
		}
		seen[seat] = struct{}{}
	}
	return 0, false
}

func (s *bookingService) CreateBooking(ctx context.Context, username string, req *request.BookingRequest) ([]response.BookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	showtimeID, err := parseID(req.ShowtimeID, "showtime")
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	seats := req.SeatNumbers()
	if seat, dup := firstDuplicate(seats); dup {
		return nil, apperror.Conflict(apperror.CodeDuplicateSeat, "Cannot book the same seat twice: %d", seat)
	}
	sort.Ints(seats)

	var (
		bookings []*entity.Booking
		showtime *entity.Showtime
	)
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// held until commit; concurrent bookings of this showtime queue here
		st, err := s.repo.Showtime.FindByIDForUpdate(ctx, showtimeID)
		if err != nil {
			return fmt.Errorf("lock showtime: %w", err)
		}
		if st == nil {
			return showtimeNotFound(showtimeID)
		}

		if st.AvailableSeats < len(seats) {
			return apperror.Conflict(apperror.CodeInsufficientSeats,
				"Not enough seats available. Requested: %d, available: %d", len(seats), st.AvailableSeats)
		}

		for _, seat := range seats {
			if seat < 1 || seat > st.MaxSeats {
				return apperror.BadRequest(apperror.CodeInvalidSeatNumber,
					"Invalid seat number %d. Maximum seat number is: %d", seat, st.MaxSeats)
			}
		}

		booked, err := s.repo.Booking.FindBookedSeats(ctx, showtimeID, seats)
		if err != nil {
			return fmt.Errorf("find booked seats: %w", err)
		}
		if len(booked) > 0 {
			return apperror.Conflict(apperror.CodeSeatAlreadyBooked, "Seat %d is already booked", booked[0])
		}

		now := time.Now()
		batch := make([]*entity.Booking, len(seats))
		for i, seat := range seats {
			batch[i] = &entity.Booking{
				ID:          uuid.New(),
				UserID:      user.ID,
				ShowtimeID:  showtimeID,
				SeatNumber:  seat,
				Price:       s.ticketPrice,
				BookingTime: now,
				Status:      entity.BookingStatusConfirmed,
			}
		}

		if err := s.repo.Booking.CreateBatch(ctx, batch); err != nil {
			if errors.Is(err, database.ErrUniqueViolation) {
				return apperror.Conflict(apperror.CodeSeatAlreadyBooked,
					"One of the requested seats is already booked").Wrap(err)
			}
			return fmt.Errorf("create bookings: %w", err)
		}

		if err := s.repo.Showtime.DecrementAvailableSeats(ctx, showtimeID, len(seats)); err != nil {
			if errors.Is(err, database.ErrStaleRow) {
				return apperror.Conflict(apperror.CodeInsufficientSeats, "Not enough seats available").Wrap(err)
			}
			return fmt.Errorf("decrement available seats: %w", err)
		}

		st.AvailableSeats -= len(seats)
		bookings, showtime = batch, st
		return nil
	})
	if err != nil {
		if appErr, ok := apperror.As(err); ok {
			s.log.Info("Booking rejected",
				zap.String("username", username),
				zap.String("showtime_id", showtimeID.String()),
				zap.Ints("seats", seats),
				zap.String("code", string(appErr.Code)),
			)
		}
		return nil, err
	}

	s.log.Info("Seats booked",
		zap.String("username", username),
		zap.String("showtime_id", showtimeID.String()),
		zap.Ints("seats", seats),
		zap.Int("available_seats", showtime.AvailableSeats),
	)

	showtimeResp, err := s.showtimeResponse(ctx, showtime)
	if err != nil {
		return nil, err
	}

	result := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = response.BookingToResponse(b, showtimeResp)
	}
	return result, nil
}

func (s *bookingService) showtimeResponse(ctx context.Context, showtime *entity.Showtime) (*response.ShowtimeResponse, error) {
	movie, err := s.repo.Movie.FindByID(ctx, showtime.MovieID)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	theater, err := s.repo.Theater.FindByID(ctx, showtime.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("find theater: %w", err)
	}
	resp := response.ShowtimeToResponse(showtime, movie, theater)
	return &resp, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID(bookingID, "booking")
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking by id: %w", err)
	}
	if booking == nil {
		return nil, apperror.NotFound(apperror.CodeBookingNotFound, "Booking not found with id: %s", id)
	}

	var showtimeResp *response.ShowtimeResponse
	showtime, err := s.repo.Showtime.FindByID(ctx, booking.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("find showtime: %w", err)
	}
	if showtime != nil {
		if showtimeResp, err = s.showtimeResponse(ctx, showtime); err != nil {
			return nil, err
		}
	}

	resp := response.BookingToResponse(booking, showtimeResp)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, username string) ([]response.BookingResponse, error) {
	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	showtimes := make(map[uuid.UUID]*response.ShowtimeResponse)
	result := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		st, ok := showtimes[b.ShowtimeID]
		if !ok {
			showtime, err := s.repo.Showtime.FindByID(ctx, b.ShowtimeID)
			if err != nil {
				return nil, fmt.Errorf("find showtime: %w", err)
			}
			if showtime != nil {
				if st, err = s.showtimeResponse(ctx, showtime); err != nil {
					return nil, err
				}
			}
			showtimes[b.ShowtimeID] = st
		}
		result[i] = response.BookingToResponse(b, st)
	}

	return result, nil
}

func (s *bookingService) IsSeatAvailable(ctx context.Context, showtimeID string, seatNumber int) (*response.SeatAvailabilityResponse, error) {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return nil, err
	}
	if seatNumber < 1 {
		return nil, apperror.BadRequest(apperror.CodeInvalidSeatNumber, "Seat number must be at least 1")
	}

	booked, err := s.repo.Booking.ExistsByShowtimeAndSeat(ctx, id, seatNumber)
	if err != nil {
		return nil, fmt.Errorf("check seat: %w", err)
	}

	return &response.SeatAvailabilityResponse{
		ShowtimeID: id.String(),
		SeatNumber: seatNumber,
		Available:  !booked,
	}, nil
}
