package repository

import (
	"theater-booking/pkg/database"

	"go.uber.org/zap"
)

// Repository groups the stores used by the services. Tx opens transactions
// that every repository in the group takes part in.
type Repository struct {
	Movie    MovieRepository
	Theater  TheaterRepository
	Showtime ShowtimeRepository
	Booking  BookingRepository
	User     UserRepository
	Tx       database.Transactor
}

func NewRepository(db database.PgxIface, txCfg database.TxConfig, log *zap.Logger) *Repository {
	return &Repository{
		Movie:    NewMovieRepository(db, log),
		Theater:  NewTheaterRepository(db, log),
		Showtime: NewShowtimeRepository(db, log),
		Booking:  NewBookingRepository(db, log),
		User:     NewUserRepository(db, log),
		Tx:       database.NewTransactor(db, txCfg, log),
	}
}
