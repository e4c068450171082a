package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"theater-booking/pkg/apperror"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Transactor runs fn inside a single transaction. Repositories called with
// the ctx passed to fn take part in that transaction. Nested calls join the
// outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TxConfig struct {
	// LockTimeout bounds how long a statement waits for a row lock.
	LockTimeout time.Duration
	// MaxRetries is how many times a transaction that failed with
	// ErrLockTimeout is re-run before giving up.
	MaxRetries int
}

type txKey struct{}

// Conn returns the transaction bound to ctx, or db when there is none.
func Conn(ctx context.Context, db Querier) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}

type pgTransactor struct {
	db  PgxIface
	cfg TxConfig
	log *zap.Logger
}

func NewTransactor(db PgxIface, cfg TxConfig, log *zap.Logger) Transactor {
	return &pgTransactor{
		db:  db,
		cfg: cfg,
		log: log.With(zap.String("component", "transactor")),
	}
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	return Retry(ctx, t.cfg.MaxRetries, t.log, func() error {
		return t.run(ctx, fn)
	})
}

func (t *pgTransactor) run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if t.cfg.LockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.cfg.LockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if _, ok := apperror.As(err); !ok {
			err = MapError(err)
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return MapError(fmt.Errorf("commit transaction: %w", err))
	}

	return nil
}

// Retry re-runs op while it fails with ErrLockTimeout, backing off
// exponentially, at most maxRetries extra times. When the retries are used
// up the caller gets a LOCK_TIMEOUT conflict.
func Retry(ctx context.Context, maxRetries int, log *zap.Logger, op func() error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 50 * time.Millisecond
	expo.MaxInterval = time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(maxRetries)), ctx)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrLockTimeout) {
			log.Warn("Transaction aborted by lock contention",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		return backoff.Permanent(err)
	}, policy)

	if err != nil && errors.Is(err, ErrLockTimeout) {
		return apperror.Conflict(apperror.CodeLockTimeout,
			"The requested resource is busy, please retry").Wrap(err)
	}
	return err
}
