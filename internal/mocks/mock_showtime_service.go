package mocks

import (
	"context"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"

	"github.com/stretchr/testify/mock"
)

type MockShowtimeService struct {
	mock.Mock
}

func (m *MockShowtimeService) CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.ShowtimeResponse), args.Error(1)
}

func (m *MockShowtimeService) GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.ShowtimeResponse), args.Error(1)
}

func (m *MockShowtimeService) GetShowtimesByMovie(ctx context.Context, movieID string) ([]response.ShowtimeResponse, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response.ShowtimeResponse), args.Error(1)
}

func (m *MockShowtimeService) GetShowtimesByTheater(ctx context.Context, theaterID string) ([]response.ShowtimeResponse, error) {
	args := m.Called(ctx, theaterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response.ShowtimeResponse), args.Error(1)
}

func (m *MockShowtimeService) UpdateShowtime(ctx context.Context, showtimeID string, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	args := m.Called(ctx, showtimeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.ShowtimeResponse), args.Error(1)
}

func (m *MockShowtimeService) DeleteShowtime(ctx context.Context, showtimeID string) error {
	args := m.Called(ctx, showtimeID)
	return args.Error(0)
}

func (m *MockShowtimeService) IsShowtimeAvailable(ctx context.Context, query *request.AvailabilityQuery) (*response.AvailabilityResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.AvailabilityResponse), args.Error(1)
}
