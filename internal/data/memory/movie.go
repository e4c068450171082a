package memory

import (
	"context"
	"fmt"
	"sort"

	"theater-booking/internal/data/entity"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
)

type movieRepository struct {
	s *Store
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	return r.s.write(ctx, func() (func(), error) {
		if _, ok := r.s.movies[movie.ID]; ok {
			return nil, fmt.Errorf("movie %s: %w", movie.ID, database.ErrUniqueViolation)
		}
		r.s.movies[movie.ID] = *movie
		return func() { delete(r.s.movies, movie.ID) }, nil
	})
}

func (r *movieRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.movies[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// FindByIDForShare takes the same exclusive row lock as FindByIDForUpdate;
// the store has no shared locks.
func (r *movieRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	return r.FindByIDForUpdate(ctx, id)
}

func (r *movieRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	if err := r.s.lockRow(ctx, movieLockKey(id)); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *movieRepository) FindAll(_ context.Context, offset, limit int) ([]*entity.Movie, error) {
	r.s.mu.RLock()
	all := make([]*entity.Movie, 0, len(r.s.movies))
	for _, m := range r.s.movies {
		all = append(all, &m)
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Title != all[j].Title {
			return all[i].Title < all[j].Title
		}
		return all[i].ID.String() < all[j].ID.String()
	})

	return page(all, offset, limit), nil
}

func (r *movieRepository) CountAll(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.movies)), nil
}

func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) error {
	return r.s.write(ctx, func() (func(), error) {
		old, ok := r.s.movies[movie.ID]
		if !ok {
			return nil, fmt.Errorf("update movie %s: %w", movie.ID, database.ErrStaleRow)
		}
		r.s.movies[movie.ID] = *movie
		return func() { r.s.movies[movie.ID] = old }, nil
	})
}

// Delete cascades to the movie's showtimes and their bookings. The movie
// row is locked before its showtimes are listed, so no showtime can be
// scheduled for it in between. Each showtime row is then locked so the
// delete waits for bookings in flight.
func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.s.lockRow(ctx, movieLockKey(id)); err != nil {
			return err
		}

		showtimeIDs := r.s.showtimeIDs(func(st entity.Showtime) bool { return st.MovieID == id })
		for _, stID := range showtimeIDs {
			if err := r.s.lockRow(ctx, showtimeLockKey(stID)); err != nil {
				return err
			}
		}

		return r.s.write(ctx, func() (func(), error) {
			movie, ok := r.s.movies[id]
			if !ok {
				return nil, fmt.Errorf("delete movie %s: %w", id, database.ErrStaleRow)
			}

			var undo []func()
			for _, stID := range showtimeIDs {
				undo = append(undo, r.s.deleteShowtimeLocked(stID))
			}
			delete(r.s.movies, id)

			return func() {
				r.s.movies[id] = movie
				for i := len(undo) - 1; i >= 0; i-- {
					undo[i]()
				}
			}, nil
		})
	})
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
