package lock

import (
	"context"
	"errors"
	"sync"
)

var ErrLockNotAcquired = errors.New("doctor lock not acquired")

// DoctorLocker serializes writes to one doctor's agenda.
type DoctorLocker interface {
	WithDoctorLock(ctx context.Context, doctorID uint, fn func(ctx context.Context) error) error
}

// LocalDoctorLocker guards each doctor with an in-process mutex. It is only
// correct with a single API instance.
type LocalDoctorLocker struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewLocalDoctorLocker() *LocalDoctorLocker {
	return &LocalDoctorLocker{locks: make(map[uint]*sync.Mutex)}
}

func (l *LocalDoctorLocker) WithDoctorLock(ctx context.Context, doctorID uint, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[doctorID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[doctorID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
