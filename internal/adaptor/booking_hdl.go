package adaptor

import (
	"net/http"
	"strconv"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/usecase"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsernameFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	bookings, err := h.service.CreateBooking(r.Context(), username, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", bookings)
}

// GetBookingByID handles GET /api/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBookingByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved successfully", booking)
}

// GetUserBookings handles GET /api/bookings/user
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsernameFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), username)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved successfully", bookings)
}

// IsSeatAvailable handles GET /api/bookings/seat-available?showtime_id=&seat_number=
func (h *BookingHandler) IsSeatAvailable(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	seatNumber, err := strconv.Atoi(query.Get("seat_number"))
	if err != nil {
		utils.ResponseError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed",
			map[string]string{"seat_number": "Must be a number"})
		return
	}

	availability, err := h.service.IsSeatAvailable(r.Context(), query.Get("showtime_id"), seatNumber)
	if err != nil {
		handleServiceError(w, h.log, err, "check seat availability")
		return
	}

	utils.ResponseSuccess(w, "Seat availability checked", availability)
}
