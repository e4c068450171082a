package usecase

import (
	"sync"
	"sync/atomic"
	"time"

	"theater-booking/internal/dto/request"
	"theater-booking/pkg/apperror"

	"github.com/google/uuid"
)

func (s *ServiceTestSuite) TestCreateTheater_NameUnique() {
	_, err := s.svc.Theater.CreateTheater(s.ctx, &request.TheaterRequest{Name: "Hall A", Capacity: 10})
	s.assertAppError(err, apperror.KindConflict, apperror.CodeTheaterNameExists)
	s.EqualError(err, "Theater already exists with name: Hall A")

	_, err = s.svc.Theater.CreateTheater(s.ctx, &request.TheaterRequest{Name: "", Capacity: 0})
	s.assertAppError(err, apperror.KindBadRequest, apperror.CodeValidationFailed)
	appErr, _ := apperror.As(err)
	s.Contains(appErr.Fields, "name")
	s.Contains(appErr.Fields, "capacity")
}

func (s *ServiceTestSuite) TestCreateTheater_ConcurrentSameName() {
	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.Theater.CreateTheater(s.ctx, &request.TheaterRequest{Name: "Hall Z", Capacity: 10})
			if err == nil {
				created.Add(1)
			} else {
				s.Equal(apperror.CodeTheaterNameExists, apperror.CodeOf(err))
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
}

func (s *ServiceTestSuite) TestUpdateTheater() {
	other, err := s.svc.Theater.CreateTheater(s.ctx, &request.TheaterRequest{Name: "Hall B", Capacity: 50})
	s.Require().NoError(err)

	_, err = s.svc.Theater.UpdateTheater(s.ctx, other.ID, &request.TheaterRequest{Name: "Hall A", Capacity: 50})
	s.assertAppError(err, apperror.KindConflict, apperror.CodeTheaterNameExists)

	// keeping its own name is not a conflict
	updated, err := s.svc.Theater.UpdateTheater(s.ctx, other.ID, &request.TheaterRequest{Name: "Hall B", Capacity: 60})
	s.Require().NoError(err)
	s.Equal(60, updated.Capacity)

	renamed, err := s.svc.Theater.UpdateTheater(s.ctx, other.ID, &request.TheaterRequest{Name: "Hall C", Capacity: 60})
	s.Require().NoError(err)
	s.Equal("Hall C", renamed.Name)

	_, err = s.svc.Theater.UpdateTheater(s.ctx, uuid.NewString(), &request.TheaterRequest{Name: "X", Capacity: 1})
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeTheaterNotFound)
}

func (s *ServiceTestSuite) TestUpdateTheater_CapacityBelowShowtime() {
	s.createShowtime(s.start, 80)

	_, err := s.svc.Theater.UpdateTheater(s.ctx, s.theater.ID, &request.TheaterRequest{Name: "Hall A", Capacity: 79})
	s.assertAppError(err, apperror.KindBadRequest, apperror.CodeInvalidCapacity)

	_, err = s.svc.Theater.UpdateTheater(s.ctx, s.theater.ID, &request.TheaterRequest{Name: "Hall A", Capacity: 80})
	s.NoError(err)
}

func (s *ServiceTestSuite) TestDeleteTheater_Guard() {
	st := s.createShowtime(s.start.Add(time.Hour), 10)

	err := s.svc.Theater.DeleteTheater(s.ctx, s.theater.ID)
	s.assertAppError(err, apperror.KindBadRequest, apperror.CodeTheaterInUse)
	s.EqualError(err, "Cannot delete theater with scheduled showtimes")

	s.Require().NoError(s.svc.Showtime.DeleteShowtime(s.ctx, st.ID))
	s.Require().NoError(s.svc.Theater.DeleteTheater(s.ctx, s.theater.ID))

	_, err = s.svc.Theater.GetTheaterByID(s.ctx, s.theater.ID)
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeTheaterNotFound)

	// the name is free again
	_, err = s.svc.Theater.CreateTheater(s.ctx, &request.TheaterRequest{Name: "Hall A", Capacity: 10})
	s.NoError(err)
}

func (s *ServiceTestSuite) TestGetTheaters() {
	for _, name := range []string{"Hall B", "Hall C"} {
		_, err := s.svc.Theater.CreateTheater(s.ctx, &request.TheaterRequest{Name: name, Capacity: 10})
		s.Require().NoError(err)
	}

	page, err := s.svc.Theater.GetTheaters(s.ctx, &request.PaginatedRequest{Page: 2, PerPage: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), page.Pagination.Total)
	s.Equal(2, page.Pagination.TotalPages)
	s.Require().Len(page.Data, 1)
	s.Equal("Hall C", page.Data[0].Name)
}
