package usecase

import (
	"context"
	"fmt"
	"time"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"
	"theater-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MovieService interface {
	GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID string, req *request.MovieRequest) (*response.MovieResponse, error)
	// DeleteMovie removes the movie with all of its showtimes and bookings.
	DeleteMovie(ctx context.Context, movieID string) error
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(repo *repository.Repository, log *zap.Logger) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, err := s.repo.Movie.FindAll(ctx, req.Offset(), req.Limit())
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}

	total, err := s.repo.Movie.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	movieResponses := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		movieResponses[i] = response.MovieToResponse(movie)
	}

	return response.NewPaginatedResponse(movieResponses, req.CurrentPage(), req.Limit(), total), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	id, err := parseID(movieID, "movie")
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie by id: %w", err)
	}
	if movie == nil {
		return nil, movieNotFound(id)
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       req.Title,
		Genre:       req.Genre,
		Duration:    req.Duration,
		Rating:      req.Rating,
		ReleaseYear: req.ReleaseYear,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, req *request.MovieRequest) (*response.MovieResponse, error) {
	id, err := parseID(movieID, "movie")
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *entity.Movie
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// held until commit so no showtime is scheduled against the old duration
		movie, err := s.repo.Movie.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock movie: %w", err)
		}
		if movie == nil {
			return movieNotFound(id)
		}

		// end times of existing showtimes were derived from the old duration
		if req.Duration != movie.Duration {
			count, err := s.repo.Showtime.CountByMovie(ctx, id)
			if err != nil {
				return fmt.Errorf("count showtimes: %w", err)
			}
			if count > 0 {
				return apperror.BadRequest(apperror.CodeMovieHasShowtimes,
					"Cannot change the duration of a movie with scheduled showtimes")
			}
		}

		movie.Title = req.Title
		movie.Genre = req.Genre
		movie.Duration = req.Duration
		movie.Rating = req.Rating
		movie.ReleaseYear = req.ReleaseYear
		movie.UpdatedAt = time.Now()

		if err := s.repo.Movie.Update(ctx, movie); err != nil {
			return fmt.Errorf("update movie: %w", err)
		}
		updated = movie
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Movie updated", zap.String("movie_id", id.String()))

	resp := response.MovieToResponse(updated)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	id, err := parseID(movieID, "movie")
	if err != nil {
		return err
	}

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		movie, err := s.repo.Movie.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock movie: %w", err)
		}
		if movie == nil {
			return movieNotFound(id)
		}

		if err := s.repo.Movie.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete movie: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Movie deleted", zap.String("movie_id", id.String()))
	return nil
}
