package usecase

import (
	"fmt"
	"sync"
	"sync/atomic"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"
	"theater-booking/pkg/apperror"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func seatNumbers(bookings []response.BookingResponse) []int {
	seats := make([]int, len(bookings))
	for i, b := range bookings {
		seats[i] = b.SeatNumber
	}
	return seats
}

func (s *ServiceTestSuite) TestCreateBooking_TwoCallersSameSeat() {
	st := s.createShowtime(s.start, 50)
	s.Equal(50, st.AvailableSeats)

	bookings, err := s.book("alice", st.ID, 2, 1)
	s.Require().NoError(err)
	s.Empty(cmp.Diff([]int{1, 2}, seatNumbers(bookings)))
	for _, b := range bookings {
		s.Equal("CONFIRMED", b.Status)
		s.True(decimal.NewFromInt(10).Equal(b.Price))
		s.Require().NotNil(b.Showtime)
		s.Equal(48, b.Showtime.AvailableSeats)
	}
	s.Equal(48, s.availableSeats(st.ID))

	_, err = s.book("bob", st.ID, 1)
	s.assertAppError(err, apperror.KindConflict, apperror.CodeSeatAlreadyBooked)
	s.EqualError(err, "Seat 1 is already booked")
	s.Equal(48, s.availableSeats(st.ID))
}

func (s *ServiceTestSuite) TestCreateBooking_ConcurrentLastSeat() {
	st := s.createShowtime(s.start, 1)

	const callers = 20
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.book("alice", st.ID, 1)
			switch {
			case err == nil:
				succeeded.Add(1)
			case apperror.KindOf(err) == apperror.KindConflict:
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), succeeded.Load())
	s.Equal(int32(callers-1), conflicts.Load())
	s.Equal(0, s.availableSeats(st.ID))

	avail, err := s.svc.Booking.IsSeatAvailable(s.ctx, st.ID, 1)
	s.Require().NoError(err)
	s.False(avail.Available)
}

func (s *ServiceTestSuite) TestCreateBooking_ConcurrentDistinctSeatsConserveCapacity() {
	st := s.createShowtime(s.start, 30)

	var wg sync.WaitGroup
	errs := make([]error, 30)
	for seat := 1; seat <= 30; seat++ {
		wg.Add(1)
		go func(seat int) {
			defer wg.Done()
			user := "alice"
			if seat%2 == 0 {
				user = "bob"
			}
			_, errs[seat-1] = s.book(user, st.ID, seat)
		}(seat)
	}
	wg.Wait()

	for i, err := range errs {
		s.NoError(err, "seat %d", i+1)
	}

	alice, err := s.svc.Booking.GetUserBookings(s.ctx, "alice")
	s.Require().NoError(err)
	bob, err := s.svc.Booking.GetUserBookings(s.ctx, "bob")
	s.Require().NoError(err)

	s.Equal(30, len(alice)+len(bob))
	s.Equal(30-len(alice)-len(bob), s.availableSeats(st.ID))
}

func (s *ServiceTestSuite) TestCreateBooking_BatchIsAtomic() {
	st := s.createShowtime(s.start, 50)
	_, err := s.book("bob", st.ID, 2)
	s.Require().NoError(err)

	_, err = s.book("alice", st.ID, 1, 2)
	s.assertAppError(err, apperror.KindConflict, apperror.CodeSeatAlreadyBooked)
	s.EqualError(err, "Seat 2 is already booked")

	avail, err := s.svc.Booking.IsSeatAvailable(s.ctx, st.ID, 1)
	s.Require().NoError(err)
	s.True(avail.Available)
	s.Equal(49, s.availableSeats(st.ID))
}

func (s *ServiceTestSuite) TestCreateBooking_Rejections() {
	st := s.createShowtime(s.start, 3)
	_, err := s.book("bob", st.ID, 1, 2)
	s.Require().NoError(err)

	tests := []struct {
		name     string
		username string
		req      *request.BookingRequest
		kind     apperror.Kind
		code     apperror.Code
		msg      string
	}{
		{
			name:     "duplicate seat in request",
			username: "alice",
			req:      &request.BookingRequest{ShowtimeID: st.ID, Seats: []request.SeatRequest{{SeatNumber: 3}, {SeatNumber: 3}}},
			kind:     apperror.KindConflict,
			code:     apperror.CodeDuplicateSeat,
			msg:      "Cannot book the same seat twice: 3",
		},
		{
			name:     "more seats than available",
			username: "alice",
			req:      &request.BookingRequest{ShowtimeID: st.ID, Seats: []request.SeatRequest{{SeatNumber: 3}, {SeatNumber: 4}}},
			kind:     apperror.KindConflict,
			code:     apperror.CodeInsufficientSeats,
		},
		{
			name:     "seat beyond max seats",
			username: "alice",
			req:      &request.BookingRequest{ShowtimeID: st.ID, Seats: []request.SeatRequest{{SeatNumber: 4}}},
			kind:     apperror.KindBadRequest,
			code:     apperror.CodeInvalidSeatNumber,
			msg:      "Invalid seat number 4. Maximum seat number is: 3",
		},
		{
			name:     "unknown showtime",
			username: "alice",
			req:      &request.BookingRequest{ShowtimeID: uuid.NewString(), Seats: []request.SeatRequest{{SeatNumber: 1}}},
			kind:     apperror.KindNotFound,
			code:     apperror.CodeShowtimeNotFound,
		},
		{
			name:     "unknown user",
			username: "mallory",
			req:      &request.BookingRequest{ShowtimeID: st.ID, Seats: []request.SeatRequest{{SeatNumber: 3}}},
			kind:     apperror.KindNotFound,
			code:     apperror.CodeUserNotFound,
		},
		{
			name:     "no seats",
			username: "alice",
			req:      &request.BookingRequest{ShowtimeID: st.ID},
			kind:     apperror.KindBadRequest,
			code:     apperror.CodeValidationFailed,
		},
		{
			name:     "seat zero",
			username: "alice",
			req:      &request.BookingRequest{ShowtimeID: st.ID, Seats: []request.SeatRequest{{SeatNumber: 0}}},
			kind:     apperror.KindBadRequest,
			code:     apperror.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Booking.CreateBooking(s.ctx, tt.username, tt.req)
			s.assertAppError(err, tt.kind, tt.code)
			if tt.msg != "" {
				s.EqualError(err, tt.msg)
			}
		})
	}

	s.Equal(1, s.availableSeats(st.ID))
}

func (s *ServiceTestSuite) TestGetBookings() {
	st := s.createShowtime(s.start, 10)
	created, err := s.book("alice", st.ID, 5)
	s.Require().NoError(err)

	got, err := s.svc.Booking.GetBookingByID(s.ctx, created[0].ID)
	s.Require().NoError(err)
	s.Equal(5, got.SeatNumber)
	s.Equal(s.movie.Title, got.Showtime.Movie.Title)

	_, err = s.svc.Booking.GetBookingByID(s.ctx, uuid.NewString())
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeBookingNotFound)

	_, err = s.svc.Booking.GetBookingByID(s.ctx, "not-a-uuid")
	s.assertAppError(err, apperror.KindBadRequest, apperror.CodeInvalidID)

	mine, err := s.svc.Booking.GetUserBookings(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(mine, 1)

	theirs, err := s.svc.Booking.GetUserBookings(s.ctx, "bob")
	s.Require().NoError(err)
	s.Empty(theirs)
}

func (s *ServiceTestSuite) TestIsSeatAvailable() {
	st := s.createShowtime(s.start, 10)
	_, err := s.book("alice", st.ID, 4)
	s.Require().NoError(err)

	for seat, want := range map[int]bool{3: true, 4: false, 5: true} {
		avail, err := s.svc.Booking.IsSeatAvailable(s.ctx, st.ID, seat)
		s.Require().NoError(err)
		s.Equal(want, avail.Available, fmt.Sprintf("seat %d", seat))
	}
}
