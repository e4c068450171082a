package mocks

import (
	"context"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"

	"github.com/stretchr/testify/mock"
)

type MockTheaterService struct {
	mock.Mock
}

func (m *MockTheaterService) GetTheaters(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TheaterResponse], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.PaginatedResponse[response.TheaterResponse]), args.Error(1)
}

func (m *MockTheaterService) GetTheaterByID(ctx context.Context, theaterID string) (*response.TheaterResponse, error) {
	args := m.Called(ctx, theaterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.TheaterResponse), args.Error(1)
}

func (m *MockTheaterService) CreateTheater(ctx context.Context, req *request.TheaterRequest) (*response.TheaterResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.TheaterResponse), args.Error(1)
}

func (m *MockTheaterService) UpdateTheater(ctx context.Context, theaterID string, req *request.TheaterRequest) (*response.TheaterResponse, error) {
	args := m.Called(ctx, theaterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.TheaterResponse), args.Error(1)
}

func (m *MockTheaterService) DeleteTheater(ctx context.Context, theaterID string) error {
	args := m.Called(ctx, theaterID)
	return args.Error(0)
}
