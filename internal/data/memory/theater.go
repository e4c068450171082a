package memory

import (
	"context"
	"fmt"
	"sort"

	"theater-booking/internal/data/entity"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
)

type theaterRepository struct {
	s *Store
}

func (r *theaterRepository) Create(ctx context.Context, theater *entity.Theater) error {
	return r.s.write(ctx, func() (func(), error) {
		if _, taken := r.s.theaterNames[theater.Name]; taken {
			return nil, fmt.Errorf("theater name %q: %w", theater.Name, database.ErrUniqueViolation)
		}
		r.s.theaters[theater.ID] = *theater
		r.s.theaterNames[theater.Name] = theater.ID
		return func() {
			delete(r.s.theaters, theater.ID)
			delete(r.s.theaterNames, theater.Name)
		}, nil
	})
}

func (r *theaterRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Theater, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.theaters[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *theaterRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Theater, error) {
	if err := r.s.lockRow(ctx, theaterLockKey(id)); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *theaterRepository) FindByName(_ context.Context, name string) (*entity.Theater, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.theaterNames[name]
	if !ok {
		return nil, nil
	}
	t := r.s.theaters[id]
	return &t, nil
}

func (r *theaterRepository) FindAll(_ context.Context, offset, limit int) ([]*entity.Theater, error) {
	r.s.mu.RLock()
	all := make([]*entity.Theater, 0, len(r.s.theaters))
	for _, t := range r.s.theaters {
		all = append(all, &t)
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	return page(all, offset, limit), nil
}

func (r *theaterRepository) CountAll(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.theaters)), nil
}

func (r *theaterRepository) Update(ctx context.Context, theater *entity.Theater) error {
	return r.s.write(ctx, func() (func(), error) {
		old, ok := r.s.theaters[theater.ID]
		if !ok {
			return nil, fmt.Errorf("update theater %s: %w", theater.ID, database.ErrStaleRow)
		}
		if owner, taken := r.s.theaterNames[theater.Name]; taken && owner != theater.ID {
			return nil, fmt.Errorf("theater name %q: %w", theater.Name, database.ErrUniqueViolation)
		}

		delete(r.s.theaterNames, old.Name)
		r.s.theaterNames[theater.Name] = theater.ID
		r.s.theaters[theater.ID] = *theater

		return func() {
			delete(r.s.theaterNames, theater.Name)
			r.s.theaterNames[old.Name] = old.ID
			r.s.theaters[old.ID] = old
		}, nil
	})
}

func (r *theaterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func() (func(), error) {
		old, ok := r.s.theaters[id]
		if !ok {
			return nil, fmt.Errorf("delete theater %s: %w", id, database.ErrStaleRow)
		}
		for _, st := range r.s.showtimes {
			if st.TheaterID == id {
				return nil, fmt.Errorf("theater %s is referenced by showtime %s", id, st.ID)
			}
		}

		delete(r.s.theaters, id)
		delete(r.s.theaterNames, old.Name)

		return func() {
			r.s.theaters[id] = old
			r.s.theaterNames[old.Name] = id
		}, nil
	})
}
