package usecase

import (
	"context"
	"sync"
	"time"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"
	"theater-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *ServiceTestSuite) TestMovieCRUD() {
	got, err := s.svc.Movie.GetMovieByID(s.ctx, s.movie.ID)
	s.Require().NoError(err)
	s.Equal("Inception", got.Title)

	updated, err := s.svc.Movie.UpdateMovie(s.ctx, s.movie.ID, &request.MovieRequest{
		Title: "Inception (Director's Cut)", Genre: "Sci-Fi", Duration: 120, Rating: "PG-13", ReleaseYear: 2010,
	})
	s.Require().NoError(err)
	s.Equal("Inception (Director's Cut)", updated.Title)

	_, err = s.svc.Movie.GetMovieByID(s.ctx, uuid.NewString())
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeMovieNotFound)

	_, err = s.svc.Movie.CreateMovie(s.ctx, &request.MovieRequest{Title: "Old", Genre: "Drama", Duration: 90, Rating: "G", ReleaseYear: 1850})
	s.assertAppError(err, apperror.KindBadRequest, apperror.CodeValidationFailed)

	page, err := s.svc.Movie.GetMovies(s.ctx, &request.PaginatedRequest{Page: 1, PerPage: 10})
	s.Require().NoError(err)
	s.Equal(int64(1), page.Pagination.Total)
}

func (s *ServiceTestSuite) TestUpdateMovie_DurationLockedByShowtimes() {
	s.createShowtime(s.start, 10)

	_, err := s.svc.Movie.UpdateMovie(s.ctx, s.movie.ID, &request.MovieRequest{
		Title: "Inception", Genre: "Sci-Fi", Duration: 150, Rating: "PG-13", ReleaseYear: 2010,
	})
	s.assertAppError(err, apperror.KindBadRequest, apperror.CodeMovieHasShowtimes)

	got, err := s.svc.Movie.GetMovieByID(s.ctx, s.movie.ID)
	s.Require().NoError(err)
	s.Equal(120, got.Duration)
}

func (s *ServiceTestSuite) TestDeleteMovie_Cascades() {
	st := s.createShowtime(s.start, 10)
	bookings, err := s.book("alice", st.ID, 1)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Movie.DeleteMovie(s.ctx, s.movie.ID))

	_, err = s.svc.Showtime.GetShowtimeByID(s.ctx, st.ID)
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeShowtimeNotFound)
	_, err = s.svc.Booking.GetBookingByID(s.ctx, bookings[0].ID)
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeBookingNotFound)

	// the theater is free to go now
	s.NoError(s.svc.Theater.DeleteTheater(s.ctx, s.theater.ID))

	err = s.svc.Movie.DeleteMovie(s.ctx, s.movie.ID)
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeMovieNotFound)
}

// pausingMovieRepository holds the first scheduling read of a movie until
// release is closed, keeping the caller's transaction open.
type pausingMovieRepository struct {
	repository.MovieRepository
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func (r *pausingMovieRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	movie, err := r.MovieRepository.FindByIDForShare(ctx, id)
	r.once.Do(func() {
		close(r.reached)
		<-r.release
	})
	return movie, err
}

// runDuringScheduling creates a showtime whose movie read is held open while
// concurrent runs. It returns once both have finished.
func (s *ServiceTestSuite) runDuringScheduling(concurrent func(svc *Service)) (*response.ShowtimeResponse, error) {
	movies := &pausingMovieRepository{
		MovieRepository: s.repo.Movie,
		reached:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	repo := *s.repo
	repo.Movie = movies
	svc := NewService(&repo, s.cfg, zap.NewNop())

	var (
		wg        sync.WaitGroup
		created   *response.ShowtimeResponse
		createErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		created, createErr = svc.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
			MovieID:   s.movie.ID,
			TheaterID: s.theater.ID,
			StartTime: s.start,
			MaxSeats:  10,
		})
	}()

	<-movies.reached
	go func() {
		defer wg.Done()
		concurrent(svc)
	}()
	time.Sleep(50 * time.Millisecond)
	close(movies.release)
	wg.Wait()

	return created, createErr
}

func (s *ServiceTestSuite) TestUpdateMovie_DurationWaitsForScheduling() {
	var updateErr error
	created, createErr := s.runDuringScheduling(func(svc *Service) {
		_, updateErr = svc.Movie.UpdateMovie(s.ctx, s.movie.ID, &request.MovieRequest{
			Title: "Inception", Genre: "Sci-Fi", Duration: 60, Rating: "PG-13", ReleaseYear: 2010,
		})
	})
	s.Require().NoError(createErr)
	s.assertAppError(updateErr, apperror.KindBadRequest, apperror.CodeMovieHasShowtimes)

	movie, err := s.svc.Movie.GetMovieByID(s.ctx, s.movie.ID)
	s.Require().NoError(err)
	s.Equal(120, movie.Duration)

	st, err := s.svc.Showtime.GetShowtimeByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(time.Duration(movie.Duration)*time.Minute, st.EndTime.Sub(st.StartTime))
}

func (s *ServiceTestSuite) TestDeleteMovie_CascadesToShowtimeScheduledConcurrently() {
	var deleteErr error
	created, createErr := s.runDuringScheduling(func(svc *Service) {
		deleteErr = svc.Movie.DeleteMovie(s.ctx, s.movie.ID)
	})
	s.Require().NoError(createErr)
	s.Require().NoError(deleteErr)

	_, err := s.svc.Showtime.GetShowtimeByID(s.ctx, created.ID)
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeShowtimeNotFound)

	// no orphan showtime keeps the theater in use
	s.NoError(s.svc.Theater.DeleteTheater(s.ctx, s.theater.ID))
}
