package wire

import (
	"theater-booking/internal/adaptor"
	"theater-booking/pkg/middleware"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/user", bookingHandler.GetUserBookings)
		// GET /api/bookings/seat-available?showtime_id=...&seat_number=...
		r.Get("/seat-available", bookingHandler.IsSeatAvailable)
		r.Get("/{id}", bookingHandler.GetBookingByID)
	})
}
