package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"
	"theater-booking/pkg/apperror"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ShowtimeService interface {
	// CreateShowtime schedules a movie in a theater. The end time is derived
	// from the movie duration and may not overlap another showtime of the
	// same theater.
	CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error)
	GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error)
	GetShowtimesByMovie(ctx context.Context, movieID string) ([]response.ShowtimeResponse, error)
	GetShowtimesByTheater(ctx context.Context, theaterID string) ([]response.ShowtimeResponse, error)
	// UpdateShowtime replaces the schedule of a showtime that has no bookings
	// yet and resets its available seats to the new max.
	UpdateShowtime(ctx context.Context, showtimeID string, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error)
	DeleteShowtime(ctx context.Context, showtimeID string) error
	IsShowtimeAvailable(ctx context.Context, query *request.AvailabilityQuery) (*response.AvailabilityResponse, error)
}

type showtimeService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewShowtimeService(repo *repository.Repository, log *zap.Logger) ShowtimeService {
	return &showtimeService{
		repo: repo,
		log:  log.With(zap.String("service", "showtime")),
	}
}

// schedule is a validated showtime request with its ids parsed.
type schedule struct {
	movieID   uuid.UUID
	theaterID uuid.UUID
	start     time.Time
	maxSeats  int
}

func parseSchedule(req *request.ShowtimeRequest) (*schedule, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	movieID, err := parseID(req.MovieID, "movie")
	if err != nil {
		return nil, err
	}
	theaterID, err := parseID(req.TheaterID, "theater")
	if err != nil {
		return nil, err
	}
	return &schedule{movieID: movieID, theaterID: theaterID, start: req.StartTime, maxSeats: req.MaxSeats}, nil
}

// lockMovie share-locks the movie so its duration cannot change or the
// movie be deleted before the transaction commits.
func (s *showtimeService) lockMovie(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	movie, err := s.repo.Movie.FindByIDForShare(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lock movie: %w", err)
	}
	if movie == nil {
		return nil, movieNotFound(id)
	}
	return movie, nil
}

// checkSlot locks the movie and the theater and verifies the slot fits.
// Returns the derived end time. Locks are taken movie first, then theater.
func (s *showtimeService) checkSlot(ctx context.Context, sc *schedule, excludeID uuid.UUID, overlapMsg string) (*entity.Movie, *entity.Theater, time.Time, error) {
	movie, err := s.lockMovie(ctx, sc.movieID)
	if err != nil {
		return nil, nil, time.Time{}, err
	}

	theater, err := s.repo.Theater.FindByIDForUpdate(ctx, sc.theaterID)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("lock theater: %w", err)
	}
	if theater == nil {
		return nil, nil, time.Time{}, theaterNotFound(sc.theaterID)
	}

	if sc.maxSeats > theater.Capacity {
		return nil, nil, time.Time{}, apperror.BadRequest(apperror.CodeCapacityExceeded,
			"Max seats cannot exceed theater capacity: %d", theater.Capacity)
	}

	end := entity.EndTimeFor(sc.start, movie.Duration)

	overlapping, err := s.repo.Showtime.FindOverlapping(ctx, sc.theaterID, sc.start, end, excludeID)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("find overlapping showtimes: %w", err)
	}
	if len(overlapping) > 0 {
		s.log.Info("Showtime slot taken",
			zap.String("theater_id", sc.theaterID.String()),
			zap.Time("start_time", sc.start),
			zap.String("conflicts_with", overlapping[0].ID.String()),
		)
		return nil, nil, time.Time{}, apperror.Conflict(apperror.CodeShowtimeOverlap, "%s", overlapMsg)
	}

	return movie, theater, end, nil
}

func (s *showtimeService) CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	sc, err := parseSchedule(req)
	if err != nil {
		return nil, err
	}

	var resp response.ShowtimeResponse
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		movie, theater, end, err := s.checkSlot(ctx, sc, uuid.Nil,
			"There is already a showtime scheduled in this theater at the requested time")
		if err != nil {
			return err
		}

		now := time.Now()
		showtime := &entity.Showtime{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			MovieID:        sc.movieID,
			TheaterID:      sc.theaterID,
			StartTime:      sc.start,
			EndTime:        end,
			MaxSeats:       sc.maxSeats,
			AvailableSeats: sc.maxSeats,
			Version:        1,
		}

		if err := s.repo.Showtime.Create(ctx, showtime); err != nil {
			return fmt.Errorf("create showtime: %w", err)
		}

		saved, err := s.repo.Showtime.FindByID(ctx, showtime.ID)
		if err != nil {
			return fmt.Errorf("reload showtime: %w", err)
		}
		resp = response.ShowtimeToResponse(saved, movie, theater)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Showtime created",
		zap.String("showtime_id", resp.ID),
		zap.String("theater_id", sc.theaterID.String()),
		zap.Time("start_time", resp.StartTime),
		zap.Time("end_time", resp.EndTime),
	)

	return &resp, nil
}

func (s *showtimeService) GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error) {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return nil, err
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtime by id: %w", err)
	}
	if showtime == nil {
		return nil, showtimeNotFound(id)
	}

	resp, err := s.toResponse(ctx, showtime)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// toResponse embeds the showtime's movie and theater.
func (s *showtimeService) toResponse(ctx context.Context, showtime *entity.Showtime) (response.ShowtimeResponse, error) {
	movie, err := s.repo.Movie.FindByID(ctx, showtime.MovieID)
	if err != nil {
		return response.ShowtimeResponse{}, fmt.Errorf("find movie: %w", err)
	}
	theater, err := s.repo.Theater.FindByID(ctx, showtime.TheaterID)
	if err != nil {
		return response.ShowtimeResponse{}, fmt.Errorf("find theater: %w", err)
	}
	return response.ShowtimeToResponse(showtime, movie, theater), nil
}

func (s *showtimeService) GetShowtimesByMovie(ctx context.Context, movieID string) ([]response.ShowtimeResponse, error) {
	id, err := parseID(movieID, "movie")
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, movieNotFound(id)
	}

	showtimes, err := s.repo.Showtime.FindByMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtimes by movie: %w", err)
	}

	// one movie, few theaters
	theaters := make(map[uuid.UUID]*entity.Theater)
	result := make([]response.ShowtimeResponse, len(showtimes))
	for i, st := range showtimes {
		theater, ok := theaters[st.TheaterID]
		if !ok {
			if theater, err = s.repo.Theater.FindByID(ctx, st.TheaterID); err != nil {
				return nil, fmt.Errorf("find theater: %w", err)
			}
			theaters[st.TheaterID] = theater
		}
		result[i] = response.ShowtimeToResponse(st, movie, theater)
	}

	return result, nil
}

func (s *showtimeService) GetShowtimesByTheater(ctx context.Context, theaterID string) ([]response.ShowtimeResponse, error) {
	id, err := parseID(theaterID, "theater")
	if err != nil {
		return nil, err
	}

	theater, err := s.repo.Theater.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find theater: %w", err)
	}
	if theater == nil {
		return nil, theaterNotFound(id)
	}

	showtimes, err := s.repo.Showtime.FindByTheater(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtimes by theater: %w", err)
	}

	movies := make(map[uuid.UUID]*entity.Movie)
	result := make([]response.ShowtimeResponse, len(showtimes))
	for i, st := range showtimes {
		movie, ok := movies[st.MovieID]
		if !ok {
			if movie, err = s.repo.Movie.FindByID(ctx, st.MovieID); err != nil {
				return nil, fmt.Errorf("find movie: %w", err)
			}
			movies[st.MovieID] = movie
		}
		result[i] = response.ShowtimeToResponse(st, movie, theater)
	}

	return result, nil
}

// lockUnbooked locks the showtime row and checks it has no bookings. The
// lock keeps a booking from slipping in before the caller commits.
func (s *showtimeService) lockUnbooked(ctx context.Context, id uuid.UUID, action string) (*entity.Showtime, error) {
	showtime, err := s.repo.Showtime.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lock showtime: %w", err)
	}
	if showtime == nil {
		return nil, showtimeNotFound(id)
	}

	count, err := s.repo.Booking.CountByShowtime(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if count > 0 {
		return nil, apperror.BadRequest(apperror.CodeShowtimeHasBookings,
			"Cannot %s showtime with existing bookings", action)
	}

	return showtime, nil
}

func (s *showtimeService) UpdateShowtime(ctx context.Context, showtimeID string, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return nil, err
	}
	sc, err := parseSchedule(req)
	if err != nil {
		return nil, err
	}

	var resp response.ShowtimeResponse
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// movie before showtime, the order a movie delete cascades in
		if _, err := s.lockMovie(ctx, sc.movieID); err != nil {
			return err
		}

		showtime, err := s.lockUnbooked(ctx, id, "update")
		if err != nil {
			return err
		}

		movie, theater, end, err := s.checkSlot(ctx, sc, id,
			"There is already another showtime scheduled in this theater at the requested time")
		if err != nil {
			return err
		}

		showtime.MovieID = sc.movieID
		showtime.TheaterID = sc.theaterID
		showtime.StartTime = sc.start
		showtime.EndTime = end
		showtime.MaxSeats = sc.maxSeats
		showtime.AvailableSeats = sc.maxSeats
		showtime.UpdatedAt = time.Now()

		if err := s.repo.Showtime.Update(ctx, showtime); err != nil {
			if errors.Is(err, database.ErrStaleRow) {
				return apperror.Conflict(apperror.CodeEditConflict,
					"Showtime was modified concurrently, please retry").Wrap(err)
			}
			return fmt.Errorf("update showtime: %w", err)
		}

		resp = response.ShowtimeToResponse(showtime, movie, theater)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Showtime updated",
		zap.String("showtime_id", id.String()),
		zap.Time("start_time", resp.StartTime),
	)

	return &resp, nil
}

func (s *showtimeService) DeleteShowtime(ctx context.Context, showtimeID string) error {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return err
	}

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.lockUnbooked(ctx, id, "delete"); err != nil {
			return err
		}
		if err := s.repo.Showtime.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete showtime: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Showtime deleted", zap.String("showtime_id", id.String()))
	return nil
}

func (s *showtimeService) IsShowtimeAvailable(ctx context.Context, query *request.AvailabilityQuery) (*response.AvailabilityResponse, error) {
	if err := validate(query); err != nil {
		return nil, err
	}
	theaterID, err := parseID(query.TheaterID, "theater")
	if err != nil {
		return nil, err
	}

	theater, err := s.repo.Theater.FindByID(ctx, theaterID)
	if err != nil {
		return nil, fmt.Errorf("find theater: %w", err)
	}
	if theater == nil {
		return nil, theaterNotFound(theaterID)
	}

	overlapping, err := s.repo.Showtime.FindOverlapping(ctx, theaterID, query.StartTime, query.EndTime, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("find overlapping showtimes: %w", err)
	}

	return &response.AvailabilityResponse{
		TheaterID: theaterID.String(),
		StartTime: query.StartTime,
		EndTime:   query.EndTime,
		Available: len(overlapping) == 0,
	}, nil
}
