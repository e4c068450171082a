package mocks

import (
	"context"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"

	"github.com/stretchr/testify/mock"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, username string, req *request.BookingRequest) ([]response.BookingResponse, error) {
	args := m.Called(ctx, username, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response.BookingResponse), args.Error(1)
}

func (m *MockBookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.BookingResponse), args.Error(1)
}

func (m *MockBookingService) GetUserBookings(ctx context.Context, username string) ([]response.BookingResponse, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response.BookingResponse), args.Error(1)
}

func (m *MockBookingService) IsSeatAvailable(ctx context.Context, showtimeID string, seatNumber int) (*response.SeatAvailabilityResponse, error) {
	args := m.Called(ctx, showtimeID, seatNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.SeatAvailabilityResponse), args.Error(1)
}
