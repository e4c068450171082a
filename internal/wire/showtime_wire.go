package wire

import (
	"theater-booking/internal/adaptor"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireShowtime(
	r chi.Router,
	showtimeHandler *adaptor.ShowtimeHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/showtimes/availability?theater_id=...&start_time=...&end_time=...
	r.Get("/api/showtimes/availability", showtimeHandler.CheckAvailability)
	r.Get("/api/showtimes/{id}", showtimeHandler.GetShowtimeByID)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(adminOnly(config, log)...)

		r.Post("/api/showtimes", showtimeHandler.CreateShowtime)
		r.Put("/api/showtimes/{id}", showtimeHandler.UpdateShowtime)
		r.Delete("/api/showtimes/{id}", showtimeHandler.DeleteShowtime)
	})
}
