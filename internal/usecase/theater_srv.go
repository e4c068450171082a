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

type TheaterService interface {
	GetTheaters(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TheaterResponse], error)
	GetTheaterByID(ctx context.Context, theaterID string) (*response.TheaterResponse, error)
	CreateTheater(ctx context.Context, req *request.TheaterRequest) (*response.TheaterResponse, error)
	UpdateTheater(ctx context.Context, theaterID string, req *request.TheaterRequest) (*response.TheaterResponse, error)
	// DeleteTheater fails while the theater has any showtime.
	DeleteTheater(ctx context.Context, theaterID string) error
}

type theaterService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTheaterService(repo *repository.Repository, log *zap.Logger) TheaterService {
	return &theaterService{
		repo: repo,
		log:  log.With(zap.String("service", "theater")),
	}
}

func theaterNameTaken(name string) error {
	return apperror.Conflict(apperror.CodeTheaterNameExists, "Theater already exists with name: %s", name)
}

func (s *theaterService) GetTheaters(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TheaterResponse], error) {
	theaters, err := s.repo.Theater.FindAll(ctx, req.Offset(), req.Limit())
	if err != nil {
		return nil, fmt.Errorf("get theaters: %w", err)
	}

	total, err := s.repo.Theater.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count theaters: %w", err)
	}

	theaterResponses := make([]response.TheaterResponse, len(theaters))
	for i, theater := range theaters {
		theaterResponses[i] = response.TheaterToResponse(theater)
	}

	return response.NewPaginatedResponse(theaterResponses, req.CurrentPage(), req.Limit(), total), nil
}

func (s *theaterService) GetTheaterByID(ctx context.Context, theaterID string) (*response.TheaterResponse, error) {
	id, err := parseID(theaterID, "theater")
	if err != nil {
		return nil, err
	}

	theater, err := s.repo.Theater.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get theater by id: %w", err)
	}
	if theater == nil {
		return nil, theaterNotFound(id)
	}

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}

func (s *theaterService) CreateTheater(ctx context.Context, req *request.TheaterRequest) (*response.TheaterResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Theater.FindByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("find theater by name: %w", err)
	}
	if existing != nil {
		return nil, theaterNameTaken(req.Name)
	}

	now := time.Now()
	theater := &entity.Theater{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:     req.Name,
		Capacity: req.Capacity,
	}

	// the unique index settles races between concurrent creates
	if err := s.repo.Theater.Create(ctx, theater); err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return nil, theaterNameTaken(req.Name)
		}
		return nil, fmt.Errorf("create theater: %w", err)
	}

	s.log.Info("Theater created",
		zap.String("theater_id", theater.ID.String()),
		zap.String("name", theater.Name),
	)

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}

func (s *theaterService) UpdateTheater(ctx context.Context, theaterID string, req *request.TheaterRequest) (*response.TheaterResponse, error) {
	id, err := parseID(theaterID, "theater")
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *entity.Theater
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		theater, err := s.repo.Theater.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock theater: %w", err)
		}
		if theater == nil {
			return theaterNotFound(id)
		}

		if req.Name != theater.Name {
			existing, err := s.repo.Theater.FindByName(ctx, req.Name)
			if err != nil {
				return fmt.Errorf("find theater by name: %w", err)
			}
			if existing != nil && existing.ID != id {
				return theaterNameTaken(req.Name)
			}
		}

		if req.Capacity < theater.Capacity {
			maxSeats, err := s.repo.Showtime.MaxSeatsInTheater(ctx, id)
			if err != nil {
				return fmt.Errorf("max seats in theater: %w", err)
			}
			if req.Capacity < maxSeats {
				return apperror.BadRequest(apperror.CodeInvalidCapacity,
					"Capacity cannot be lower than the max seats of a scheduled showtime: %d", maxSeats)
			}
		}

		theater.Name = req.Name
		theater.Capacity = req.Capacity
		theater.UpdatedAt = time.Now()

		if err := s.repo.Theater.Update(ctx, theater); err != nil {
			if errors.Is(err, database.ErrUniqueViolation) {
				return theaterNameTaken(req.Name)
			}
			return fmt.Errorf("update theater: %w", err)
		}
		updated = theater
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Theater updated", zap.String("theater_id", id.String()))

	resp := response.TheaterToResponse(updated)
	return &resp, nil
}

func (s *theaterService) DeleteTheater(ctx context.Context, theaterID string) error {
	id, err := parseID(theaterID, "theater")
	if err != nil {
		return err
	}

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		theater, err := s.repo.Theater.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock theater: %w", err)
		}
		if theater == nil {
			return theaterNotFound(id)
		}

		count, err := s.repo.Showtime.CountByTheater(ctx, id)
		if err != nil {
			return fmt.Errorf("count showtimes: %w", err)
		}
		if count > 0 {
			return apperror.BadRequest(apperror.CodeTheaterInUse, "Cannot delete theater with scheduled showtimes")
		}

		if err := s.repo.Theater.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete theater: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Theater deleted", zap.String("theater_id", id.String()))
	return nil
}
