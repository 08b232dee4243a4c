// Package lock serializes bookings on one box and one date.
package lock

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Release frees a held lock. Calling it more than once is safe.
type Release func()

type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// BoxDateKey names the critical section for bookings on a box and date.
func BoxDateKey(boxID uint, date string) string {
	return fmt.Sprintf("lock:box:%d:%s", boxID, date)
}
