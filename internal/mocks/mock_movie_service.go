package mocks

import (
	"context"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"

	"github.com/stretchr/testify/mock"
)

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.PaginatedResponse[response.MovieResponse]), args.Error(1)
}

func (m *MockMovieService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.MovieResponse), args.Error(1)
}

func (m *MockMovieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.MovieResponse), args.Error(1)
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, movieID string, req *request.MovieRequest) (*response.MovieResponse, error) {
	args := m.Called(ctx, movieID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.MovieResponse), args.Error(1)
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, movieID string) error {
	args := m.Called(ctx, movieID)
	return args.Error(0)
}
