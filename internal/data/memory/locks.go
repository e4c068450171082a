package memory

import (
	"context"
	"sync"
	"time"

	"theater-booking/pkg/database"
)

// lockTable hands out one exclusive lock per row key. Each lock is a
// channel with room for a single token. An entry lives only while it has a
// holder or waiters.
type lockTable struct {
	mu   sync.Mutex
	rows map[string]*rowLock
}

type rowLock struct {
	token chan struct{}
	refs  int
}

func newLockTable() *lockTable {
	return &lockTable{rows: make(map[string]*rowLock)}
}

func (l *lockTable) ref(key string) *rowLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	row, ok := l.rows[key]
	if !ok {
		row = &rowLock{token: make(chan struct{}, 1)}
		l.rows[key] = row
	}
	row.refs++
	return row
}

func (l *lockTable) unref(key string, row *rowLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	row.refs--
	if row.refs == 0 {
		delete(l.rows, key)
	}
}

// acquire blocks until key is free, timeout passes (0 waits forever) or
// ctx is done.
func (l *lockTable) acquire(ctx context.Context, key string, timeout time.Duration) error {
	row := l.ref(key)

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case row.token <- struct{}{}:
		return nil
	case <-expired:
		l.unref(key, row)
		return database.ErrLockTimeout
	case <-ctx.Done():
		l.unref(key, row)
		return ctx.Err()
	}
}

// release must only be called by the holder of key.
func (l *lockTable) release(key string) {
	l.mu.Lock()
	row := l.rows[key]
	l.mu.Unlock()

	<-row.token
	l.unref(key, row)
}

func (l *lockTable) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}
