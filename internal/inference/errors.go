package inference

import (
	"errors"
	"fmt"
)

// TransientError marks a model failure worth retrying: rate limiting,
// upstream 5xx, timeouts and dropped connections.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient model error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient model error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err, or anything it wraps, is a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
