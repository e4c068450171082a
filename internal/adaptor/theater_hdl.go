package adaptor

import (
	"net/http"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/usecase"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TheaterHandler struct {
	service usecase.TheaterService
	log     *zap.Logger
}

func NewTheaterHandler(service usecase.TheaterService, log *zap.Logger) *TheaterHandler {
	return &TheaterHandler{
		service: service,
		log:     log.With(zap.String("handler", "theater")),
	}
}

// GetTheaters handles GET /api/theaters
func (h *TheaterHandler) GetTheaters(w http.ResponseWriter, r *http.Request) {
	theaters, err := h.service.GetTheaters(r.Context(), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get theaters")
		return
	}

	utils.ResponseSuccess(w, "Theaters retrieved successfully", theaters)
}

// GetTheaterByID handles GET /api/theaters/{id}
func (h *TheaterHandler) GetTheaterByID(w http.ResponseWriter, r *http.Request) {
	theater, err := h.service.GetTheaterByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get theater by ID")
		return
	}

	utils.ResponseSuccess(w, "Theater retrieved successfully", theater)
}

// CreateTheater handles POST /api/theaters (admin)
func (h *TheaterHandler) CreateTheater(w http.ResponseWriter, r *http.Request) {
	var req request.TheaterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	theater, err := h.service.CreateTheater(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create theater")
		return
	}

	utils.ResponseCreated(w, "Theater created successfully", theater)
}

// UpdateTheater handles PUT /api/theaters/{id} (admin)
func (h *TheaterHandler) UpdateTheater(w http.ResponseWriter, r *http.Request) {
	var req request.TheaterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	theater, err := h.service.UpdateTheater(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update theater")
		return
	}

	utils.ResponseSuccess(w, "Theater updated successfully", theater)
}

// DeleteTheater handles DELETE /api/theaters/{id} (admin)
func (h *TheaterHandler) DeleteTheater(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTheater(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete theater")
		return
	}

	utils.ResponseSuccess(w, "Theater deleted successfully", nil)
}
