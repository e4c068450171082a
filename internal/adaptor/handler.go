package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/usecase"
	"theater-booking/pkg/apperror"
	"theater-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	User     *UserHandler
	Movie    *MovieHandler
	Theater  *TheaterHandler
	Showtime *ShowtimeHandler
	Booking  *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		User:     NewUserHandler(service.User, log),
		Movie:    NewMovieHandler(service.Movie, log),
		Theater:  NewTheaterHandler(service.Theater, log),
		Showtime: NewShowtimeHandler(service.Showtime, log),
		Booking:  NewBookingHandler(service.Booking, log),
	}
}

// decodeBody reads a JSON body into dst. It writes the 400 itself and
// reports false when the body is unusable.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

// handleServiceError maps service errors onto HTTP responses. Anything
// that is not an *apperror.Error is a 500 without details.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr, ok := apperror.As(err)
	if !ok {
		if errors.Is(err, context.Canceled) {
			log.Warn(operation+" aborted", zap.Error(err))
		} else {
			log.Error(operation+" failed",
				zap.Error(err),
				zap.String("operation", operation))
		}
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	var status int
	switch appErr.Kind {
	case apperror.KindNotFound:
		status = http.StatusNotFound
	case apperror.KindBadRequest:
		status = http.StatusBadRequest
	case apperror.KindConflict:
		status = http.StatusConflict
	default:
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	if appErr.Code == apperror.CodeValidationFailed {
		log.Warn(operation+" validation failed",
			zap.String("errors", utils.FormatValidationErrors(appErr.Fields)))
	} else {
		log.Info(operation+" rejected",
			zap.String("code", string(appErr.Code)),
			zap.String("message", appErr.Message))
	}

	var fields any
	if len(appErr.Fields) > 0 {
		fields = appErr.Fields
	}
	utils.ResponseError(w, status, string(appErr.Code), appErr.Message, fields)
}
