package storage

import (
	"errors"
	"time"
)

// Retry runs a database operation up to 3 times with exponential backoff.
// Lookup failures are returned at once.
func Retry(operation func() error) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := operation(); err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
				return err
			}
			lastErr = err
			if i < maxRetries-1 {
				time.Sleep(baseDelay * time.Duration(1<<i))
			}
			continue
		}
		return nil
	}
	return lastErr
}
