package memory

import (
	"context"
	"fmt"

	"theater-booking/internal/data/entity"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.s.write(ctx, func() (func(), error) {
		if _, taken := r.s.usernames[user.Username]; taken {
			return nil, fmt.Errorf("username %q: %w", user.Username, database.ErrUniqueViolation)
		}
		r.s.users[user.ID] = *user
		r.s.usernames[user.Username] = user.ID
		return func() {
			delete(r.s.users, user.ID)
			delete(r.s.usernames, user.Username)
		}, nil
	})
}

func (r *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usernames[username]
	if !ok {
		return nil, nil
	}
	u := r.s.users[id]
	return &u, nil
}
