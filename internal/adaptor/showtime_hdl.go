package adaptor

import (
	"net/http"
	"time"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/usecase"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowtimeHandler struct {
	service usecase.ShowtimeService
	log     *zap.Logger
}

func NewShowtimeHandler(service usecase.ShowtimeService, log *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{
		service: service,
		log:     log.With(zap.String("handler", "showtime")),
	}
}

// GetShowtimeByID handles GET /api/showtimes/{id}
func (h *ShowtimeHandler) GetShowtimeByID(w http.ResponseWriter, r *http.Request) {
	showtime, err := h.service.GetShowtimeByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get showtime by ID")
		return
	}

	utils.ResponseSuccess(w, "Showtime retrieved successfully", showtime)
}

// GetShowtimesByMovie handles GET /api/movies/{id}/showtimes
func (h *ShowtimeHandler) GetShowtimesByMovie(w http.ResponseWriter, r *http.Request) {
	showtimes, err := h.service.GetShowtimesByMovie(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get showtimes by movie")
		return
	}

	utils.ResponseSuccess(w, "Showtimes retrieved successfully", showtimes)
}

// GetShowtimesByTheater handles GET /api/theaters/{id}/showtimes
func (h *ShowtimeHandler) GetShowtimesByTheater(w http.ResponseWriter, r *http.Request) {
	showtimes, err := h.service.GetShowtimesByTheater(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get showtimes by theater")
		return
	}

	utils.ResponseSuccess(w, "Showtimes retrieved successfully", showtimes)
}

// CheckAvailability handles GET /api/showtimes/availability?theater_id=&start_time=&end_time=
// Times are RFC 3339.
func (h *ShowtimeHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	errs := make(map[string]string)

	parseTime := func(field string) time.Time {
		raw := query.Get(field)
		if raw == "" {
			errs[field] = "This field is required"
			return time.Time{}
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs[field] = "Must be an RFC 3339 timestamp"
		}
		return t
	}

	q := &request.AvailabilityQuery{
		TheaterID: query.Get("theater_id"),
		StartTime: parseTime("start_time"),
		EndTime:   parseTime("end_time"),
	}
	if len(errs) > 0 {
		utils.ResponseError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", errs)
		return
	}

	availability, err := h.service.IsShowtimeAvailable(r.Context(), q)
	if err != nil {
		handleServiceError(w, h.log, err, "check showtime availability")
		return
	}

	utils.ResponseSuccess(w, "Availability checked", availability)
}

// CreateShowtime handles POST /api/showtimes (admin)
func (h *ShowtimeHandler) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.ShowtimeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	showtime, err := h.service.CreateShowtime(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create showtime")
		return
	}

	utils.ResponseCreated(w, "Showtime created successfully", showtime)
}

// UpdateShowtime handles PUT /api/showtimes/{id} (admin)
func (h *ShowtimeHandler) UpdateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.ShowtimeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	showtime, err := h.service.UpdateShowtime(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update showtime")
		return
	}

	utils.ResponseSuccess(w, "Showtime updated successfully", showtime)
}

// DeleteShowtime handles DELETE /api/showtimes/{id} (admin)
func (h *ShowtimeHandler) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteShowtime(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete showtime")
		return
	}

	utils.ResponseSuccess(w, "Showtime deleted successfully", nil)
}
