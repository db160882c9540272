// Package lock serializes schedule writes that touch the same attendee on the
// same date, so two requests cannot both pass the conflict check for one slot.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yukikurage/meeting-scheduler-api/internal/constants"
)

// ErrNotAcquired is returned when a key is held by another request
var ErrNotAcquired = errors.New("slot lock is held by another request")

// Locker acquires a set of keys atomically. The returned release function
// must be called once the guarded write has finished.
type Locker interface {
	Acquire(ctx context.Context, keys []string, ttl time.Duration) (release func(), err error)
}

// SlotKey names the lock for one attendee on one date
func SlotKey(employeeID uint64, date string) string {
	return fmt.Sprintf("%s:%d:%s", constants.SlotLockPrefix, employeeID, date)
}

// normalizeKeys sorts and de-duplicates keys so that concurrent callers
// acquire them in the same order
func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LocalLocker keeps locks in process memory. Suitable for a single instance.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Acquire takes every key or none. Expired entries are treated as free.
func (l *LocalLocker) Acquire(ctx context.Context, keys []string, ttl time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys = normalizeKeys(keys)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for _, k := range keys {
		if expires, ok := l.held[k]; ok && now.Before(expires) {
			return nil, ErrNotAcquired
		}
	}

	expires := now.Add(ttl)
	for _, k := range keys {
		l.held[k] = expires
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for _, k := range keys {
				if l.held[k].Equal(expires) {
					delete(l.held, k)
				}
			}
		})
	}, nil
}
