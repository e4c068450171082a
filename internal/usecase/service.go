package usecase

import (
	"theater-booking/internal/data/repository"
	"theater-booking/pkg/apperror"
	"theater-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	User     UserService
	Movie    MovieService
	Theater  TheaterService
	Showtime ShowtimeService
	Booking  BookingService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		User:     NewUserService(repo, log),
		Movie:    NewMovieService(repo, log),
		Theater:  NewTheaterService(repo, log),
		Showtime: NewShowtimeService(repo, log),
		Booking:  NewBookingService(repo, config.Booking.TicketPrice, log),
	}
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.BadRequest(apperror.CodeInvalidID, "Invalid %s id: %s", what, raw)
	}
	return id, nil
}

func validate(req any) error {
	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

func movieNotFound(id any) error {
	return apperror.NotFound(apperror.CodeMovieNotFound, "Movie not found with id: %v", id)
}

func theaterNotFound(id any) error {
	return apperror.NotFound(apperror.CodeTheaterNotFound, "Theater not found with id: %v", id)
}

func showtimeNotFound(id any) error {
	return apperror.NotFound(apperror.CodeShowtimeNotFound, "Showtime not found with id: %v", id)
}
