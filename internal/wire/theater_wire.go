package wire

import (
	"theater-booking/internal/adaptor"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTheater(
	r chi.Router,
	theaterHandler *adaptor.TheaterHandler,
	showtimeHandler *adaptor.ShowtimeHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/theaters", theaterHandler.GetTheaters)
	r.Get("/api/theaters/{id}", theaterHandler.GetTheaterByID)
	r.Get("/api/theaters/{id}/showtimes", showtimeHandler.GetShowtimesByTheater)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(adminOnly(config, log)...)

		r.Post("/api/theaters", theaterHandler.CreateTheater)
		r.Put("/api/theaters/{id}", theaterHandler.UpdateTheater)
		r.Delete("/api/theaters/{id}", theaterHandler.DeleteTheater)
	})
}
