//go:build integration

package integration_test

import (
	"context"
	"time"

	"theater-booking/internal/data/repository"
	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"
	"theater-booking/internal/usecase"
	"theater-booking/pkg/database"
	"theater-booking/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/zap"
)

// BaseSuite runs the services against a migrated Postgres container.
type BaseSuite struct {
	suite.Suite
	ctx         context.Context
	dbContainer *PostgresContainer
	db          database.PgxIface
	repo        *repository.Repository
	svc         *usecase.Service
}

func (s *BaseSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := getDbContainer(s.ctx)
	s.Require().NoError(err)
	s.dbContainer = container

	s.Require().NoError(database.Migrate(container.ConnectionString))

	s.db, err = database.Connect(s.ctx, container.ConnectionString, 25)
	s.Require().NoError(err)

	s.repo = repository.NewRepository(s.db, database.TxConfig{
		LockTimeout: 2 * time.Second,
		MaxRetries:  3,
	}, zap.NewNop())

	config := &utils.Config{Booking: utils.BookingConfig{TicketPrice: decimal.RequireFromString("12.50")}}
	s.svc = usecase.NewService(s.repo, config, zap.NewNop())
}

func (s *BaseSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container); err != nil {
			s.T().Logf("failed to terminate container: %s", err)
		}
	}
}

func (s *BaseSuite) SetupTest() {
	_, err := s.db.Exec(s.ctx, `TRUNCATE bookings, showtimes, theaters, movies, users CASCADE`)
	s.Require().NoError(err)
}

type fixture struct {
	movie   *response.MovieResponse
	theater *response.TheaterResponse
	start   time.Time
}

func (s *BaseSuite) seed(users ...string) fixture {
	movie, err := s.svc.Movie.CreateMovie(s.ctx, &request.MovieRequest{
		Title: "Inception", Genre: "Sci-Fi", Duration: 120, Rating: "PG-13", ReleaseYear: 2010,
	})
	s.Require().NoError(err)

	theater, err := s.svc.Theater.CreateTheater(s.ctx, &request.TheaterRequest{Name: "Hall A", Capacity: 100})
	s.Require().NoError(err)

	for _, name := range users {
		_, err := s.svc.User.RegisterUser(s.ctx, &request.RegisterUserRequest{
			Username: name, Email: name + "@example.com", Role: "CUSTOMER",
		})
		s.Require().NoError(err)
	}

	return fixture{
		movie:   movie,
		theater: theater,
		start:   time.Now().Add(48 * time.Hour).Truncate(time.Second).UTC(),
	}
}

func (s *BaseSuite) createShowtime(f fixture, start time.Time, maxSeats int) *response.ShowtimeResponse {
	st, err := s.svc.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
		MovieID:   f.movie.ID,
		TheaterID: f.theater.ID,
		StartTime: start,
		MaxSeats:  maxSeats,
	})
	s.Require().NoError(err)
	return st
}

func (s *BaseSuite) book(username, showtimeID string, seats ...int) ([]response.BookingResponse, error) {
	req := &request.BookingRequest{ShowtimeID: showtimeID}
	for _, seat := range seats {
		req.Seats = append(req.Seats, request.SeatRequest{SeatNumber: seat})
	}
	return s.svc.Booking.CreateBooking(s.ctx, username, req)
}
