// Package lock serialises check-then-act sections keyed by a string, such as
// one user's attendance for one day.
package lock

import (
	"context"
	"fmt"
	"strings"
)

// Locker hands out exclusive access to a key until the returned unlock runs.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// With runs fn while holding key.
func With(ctx context.Context, locker Locker, key string, fn func() error) error {
	unlock, err := locker.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("acquire %s: %w", key, err)
	}
	defer unlock()
	return fn()
}

// Key joins parts with ':'.
func Key(parts ...any) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		segments = append(segments, fmt.Sprint(part))
	}
	return strings.Join(segments, ":")
}
