package usecase

import (
	"sync"
	"sync/atomic"
	"time"

	"theater-booking/internal/dto/request"
	"theater-booking/pkg/apperror"

	"github.com/google/uuid"
)

func (s *ServiceTestSuite) TestCreateShowtime_DerivesEndTimeAndRejectsOverlap() {
	st := s.createShowtime(s.start, 50)
	s.True(st.EndTime.Equal(s.start.Add(120 * time.Minute)))
	s.Equal(50, st.MaxSeats)
	s.Equal(50, st.AvailableSeats)
	s.Equal(s.movie.ID, st.Movie.ID)
	s.Equal(s.theater.ID, st.Theater.ID)

	_, err := s.svc.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
		MovieID:   s.movie.ID,
		TheaterID: s.theater.ID,
		StartTime: s.start.Add(30 * time.Minute),
		MaxSeats:  10,
	})
	s.assertAppError(err, apperror.KindConflict, apperror.CodeShowtimeOverlap)
	s.EqualError(err, "There is already a showtime scheduled in this theater at the requested time")

	list, err := s.svc.Showtime.GetShowtimesByTheater(s.ctx, s.theater.ID)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *ServiceTestSuite) TestCreateShowtime_BoundariesAreInclusive() {
	st := s.createShowtime(s.start, 50)

	_, err := s.svc.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
		MovieID: s.movie.ID, TheaterID: s.theater.ID, StartTime: st.EndTime, MaxSeats: 10,
	})
	s.assertAppError(err, apperror.KindConflict, apperror.CodeShowtimeOverlap)

	next := s.createShowtime(st.EndTime.Add(time.Minute), 10)
	s.NotEqual(st.ID, next.ID)

	// another theater is unaffected
	other, err := s.svc.Theater.CreateTheater(s.ctx, &request.TheaterRequest{Name: "Hall B", Capacity: 20})
	s.Require().NoError(err)
	_, err = s.svc.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
		MovieID: s.movie.ID, TheaterID: other.ID, StartTime: s.start, MaxSeats: 20,
	})
	s.NoError(err)
}

func (s *ServiceTestSuite) TestCreateShowtime_Rejections() {
	tests := []struct {
		name string
		req  *request.ShowtimeRequest
		kind apperror.Kind
		code apperror.Code
	}{
		{
			name: "max seats above capacity",
			req:  &request.ShowtimeRequest{MovieID: s.movie.ID, TheaterID: s.theater.ID, StartTime: s.start, MaxSeats: 101},
			kind: apperror.KindBadRequest,
			code: apperror.CodeCapacityExceeded,
		},
		{
			name: "unknown movie",
			req:  &request.ShowtimeRequest{MovieID: uuid.NewString(), TheaterID: s.theater.ID, StartTime: s.start, MaxSeats: 10},
			kind: apperror.KindNotFound,
			code: apperror.CodeMovieNotFound,
		},
		{
			name: "unknown theater",
			req:  &request.ShowtimeRequest{MovieID: s.movie.ID, TheaterID: uuid.NewString(), StartTime: s.start, MaxSeats: 10},
			kind: apperror.KindNotFound,
			code: apperror.CodeTheaterNotFound,
		},
		{
			name: "start in the past",
			req:  &request.ShowtimeRequest{MovieID: s.movie.ID, TheaterID: s.theater.ID, StartTime: time.Now().Add(-time.Hour), MaxSeats: 10},
			kind: apperror.KindBadRequest,
			code: apperror.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Showtime.CreateShowtime(s.ctx, tt.req)
			s.assertAppError(err, tt.kind, tt.code)
		})
	}

	_, err := s.svc.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
		MovieID: s.movie.ID, TheaterID: s.theater.ID, StartTime: s.start, MaxSeats: 101,
	})
	s.EqualError(err, "Max seats cannot exceed theater capacity: 100")
}

func (s *ServiceTestSuite) TestCreateShowtime_ConcurrentSameSlot() {
	const callers = 10
	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.svc.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
				MovieID:   s.movie.ID,
				TheaterID: s.theater.ID,
				StartTime: s.start.Add(time.Duration(i) * time.Minute),
				MaxSeats:  10,
			})
			if err == nil {
				created.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
	list, err := s.svc.Showtime.GetShowtimesByTheater(s.ctx, s.theater.ID)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *ServiceTestSuite) TestUpdateShowtime() {
	st := s.createShowtime(s.start, 50)
	later := s.createShowtime(s.start.Add(4*time.Hour), 50)

	// moving within its own slot only overlaps itself
	updated, err := s.svc.Showtime.UpdateShowtime(s.ctx, st.ID, &request.ShowtimeRequest{
		MovieID: s.movie.ID, TheaterID: s.theater.ID, StartTime: s.start.Add(10 * time.Minute), MaxSeats: 40,
	})
	s.Require().NoError(err)
	s.Equal(40, updated.MaxSeats)
	s.Equal(40, updated.AvailableSeats)
	s.True(updated.EndTime.Equal(s.start.Add(130 * time.Minute)))

	_, err = s.svc.Showtime.UpdateShowtime(s.ctx, st.ID, &request.ShowtimeRequest{
		MovieID: s.movie.ID, TheaterID: s.theater.ID, StartTime: later.StartTime.Add(-time.Hour), MaxSeats: 40,
	})
	s.assertAppError(err, apperror.KindConflict, apperror.CodeShowtimeOverlap)
	s.EqualError(err, "There is already another showtime scheduled in this theater at the requested time")

	// the rejected update left the showtime as it was
	got, err := s.svc.Showtime.GetShowtimeByID(s.ctx, st.ID)
	s.Require().NoError(err)
	s.True(got.StartTime.Equal(updated.StartTime))
	s.True(got.EndTime.Equal(updated.EndTime))
	s.Equal(40, got.MaxSeats)
	s.Equal(40, got.AvailableSeats)

	_, err = s.svc.Showtime.UpdateShowtime(s.ctx, uuid.NewString(), &request.ShowtimeRequest{
		MovieID: s.movie.ID, TheaterID: s.theater.ID, StartTime: s.start, MaxSeats: 40,
	})
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeShowtimeNotFound)
}

func (s *ServiceTestSuite) TestShowtimeImmutableOnceBooked() {
	st := s.createShowtime(s.start, 50)
	_, err := s.book("alice", st.ID, 1)
	s.Require().NoError(err)

	_, err = s.svc.Showtime.UpdateShowtime(s.ctx, st.ID, &request.ShowtimeRequest{
		MovieID: s.movie.ID, TheaterID: s.theater.ID, StartTime: s.start.Add(6 * time.Hour), MaxSeats: 10,
	})
	s.assertAppError(err, apperror.KindBadRequest, apperror.CodeShowtimeHasBookings)
	s.EqualError(err, "Cannot update showtime with existing bookings")

	err = s.svc.Showtime.DeleteShowtime(s.ctx, st.ID)
	s.assertAppError(err, apperror.KindBadRequest, apperror.CodeShowtimeHasBookings)
	s.EqualError(err, "Cannot delete showtime with existing bookings")

	after, err := s.svc.Showtime.GetShowtimeByID(s.ctx, st.ID)
	s.Require().NoError(err)
	s.True(after.StartTime.Equal(st.StartTime))
	s.Equal(50, after.MaxSeats)
	s.Equal(49, after.AvailableSeats)
}

func (s *ServiceTestSuite) TestDeleteShowtime() {
	st := s.createShowtime(s.start, 50)

	s.Require().NoError(s.svc.Showtime.DeleteShowtime(s.ctx, st.ID))

	_, err := s.svc.Showtime.GetShowtimeByID(s.ctx, st.ID)
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeShowtimeNotFound)

	err = s.svc.Showtime.DeleteShowtime(s.ctx, st.ID)
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeShowtimeNotFound)
}

func (s *ServiceTestSuite) TestIsShowtimeAvailable() {
	st := s.createShowtime(s.start, 50)

	tests := []struct {
		name       string
		start, end time.Time
		available  bool
	}{
		{"overlapping", s.start.Add(time.Hour), s.start.Add(3 * time.Hour), false},
		{"touching end", st.EndTime, st.EndTime.Add(time.Hour), false},
		{"free", st.EndTime.Add(time.Minute), st.EndTime.Add(time.Hour), true},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.svc.Showtime.IsShowtimeAvailable(s.ctx, &request.AvailabilityQuery{
				TheaterID: s.theater.ID, StartTime: tt.start, EndTime: tt.end,
			})
			s.Require().NoError(err)
			s.Equal(tt.available, resp.Available)
		})
	}

	_, err := s.svc.Showtime.IsShowtimeAvailable(s.ctx, &request.AvailabilityQuery{
		TheaterID: uuid.NewString(), StartTime: s.start, EndTime: s.start.Add(time.Hour),
	})
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeTheaterNotFound)
}

func (s *ServiceTestSuite) TestShowtimesByParent() {
	s.createShowtime(s.start.Add(5*time.Hour), 10)
	s.createShowtime(s.start, 10)

	list, err := s.svc.Showtime.GetShowtimesByMovie(s.ctx, s.movie.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.True(list[0].StartTime.Before(list[1].StartTime))

	_, err = s.svc.Showtime.GetShowtimesByMovie(s.ctx, uuid.NewString())
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeMovieNotFound)

	_, err = s.svc.Showtime.GetShowtimesByTheater(s.ctx, uuid.NewString())
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeTheaterNotFound)
}
