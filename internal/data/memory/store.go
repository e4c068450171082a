// Package memory is an in-process implementation of the repository
// interfaces. It keeps the transactional behaviour of the PostgreSQL store:
// row locks held until the transaction ends, unique indexes, and rollback
// of every write made inside a failed transaction.
//
// Writes are visible to other goroutines as soon as they are made, so
// readers that do not take a row lock can observe uncommitted state.
package memory

import (
	"context"
	"fmt"
	"sync"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seatKey struct {
	showtimeID uuid.UUID
	seat       int
}

type Store struct {
	mu sync.RWMutex

	movies    map[uuid.UUID]entity.Movie
	theaters  map[uuid.UUID]entity.Theater
	showtimes map[uuid.UUID]entity.Showtime
	bookings  map[uuid.UUID]entity.Booking
	users     map[uuid.UUID]entity.User

	// unique indexes
	theaterNames map[string]uuid.UUID
	usernames    map[string]uuid.UUID
	seats        map[seatKey]uuid.UUID

	locks *lockTable
	cfg   database.TxConfig
	log   *zap.Logger
}

func NewStore(cfg database.TxConfig, log *zap.Logger) *Store {
	return &Store{
		movies:       make(map[uuid.UUID]entity.Movie),
		theaters:     make(map[uuid.UUID]entity.Theater),
		showtimes:    make(map[uuid.UUID]entity.Showtime),
		bookings:     make(map[uuid.UUID]entity.Booking),
		users:        make(map[uuid.UUID]entity.User),
		theaterNames: make(map[string]uuid.UUID),
		usernames:    make(map[string]uuid.UUID),
		seats:        make(map[seatKey]uuid.UUID),
		locks:        newLockTable(),
		cfg:          cfg,
		log:          log.With(zap.String("component", "memory_store")),
	}
}

// Repository returns the store's repositories wired to its transactor.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		Movie:    &movieRepository{s: s},
		Theater:  &theaterRepository{s: s},
		Showtime: &showtimeRepository{s: s},
		Booking:  &bookingRepository{s: s},
		User:     &userRepository{s: s},
		Tx:       s,
	}
}

type txKey struct{}

type tx struct {
	held []string
	undo []func()
}

func txFrom(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

func (t *tx) holds(key string) bool {
	for _, k := range t.held {
		if k == key {
			return true
		}
	}
	return false
}

// WithinTx implements database.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	return database.Retry(ctx, s.cfg.MaxRetries, s.log, func() error {
		return s.run(ctx, fn)
	})
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	t := &tx{}

	defer func() {
		if p := recover(); p != nil {
			s.rollback(t)
			s.release(t)
			panic(p)
		}
		if err != nil {
			s.rollback(t)
		}
		s.release(t)
	}()

	return fn(context.WithValue(ctx, txKey{}, t))
}

func (s *Store) rollback(t *tx) {
	if len(t.undo) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (s *Store) release(t *tx) {
	for _, key := range t.held {
		s.locks.release(key)
	}
	t.held = nil
}

// lockRow takes the exclusive lock on key for the transaction in ctx.
// Outside a transaction it is a no-op, like a locking read in autocommit.
func (s *Store) lockRow(ctx context.Context, key string) error {
	t := txFrom(ctx)
	if t == nil || t.holds(key) {
		return nil
	}
	if err := s.locks.acquire(ctx, key, s.cfg.LockTimeout); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	t.held = append(t.held, key)
	return nil
}

// write runs fn under the store's write lock. The undo func it returns is
// kept by the transaction in ctx and run if that transaction fails.
func (s *Store) write(ctx context.Context, fn func() (undo func(), err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	undo, err := fn()
	if err != nil {
		return err
	}
	if t := txFrom(ctx); t != nil && undo != nil {
		t.undo = append(t.undo, undo)
	}
	return nil
}

func movieLockKey(id uuid.UUID) string    { return "movie:" + id.String() }
func showtimeLockKey(id uuid.UUID) string { return "showtime:" + id.String() }
func theaterLockKey(id uuid.UUID) string  { return "theater:" + id.String() }
