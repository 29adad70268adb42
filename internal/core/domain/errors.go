package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound   = errors.New("evidence item not found")
	ErrBundleNotFound = errors.New("bundle not found")
	ErrInvalidInput   = errors.New("invalid input")

	// ErrEmptyBundle signals that a bundle resolved to zero member items;
	// generation observes it as the no-op condition, not a failure.
	ErrEmptyBundle = errors.New("bundle has no resolvable members")

	// ErrGenerationInFlight rejects a second generation request for a bundle
	// whose previous request has not completed.
	ErrGenerationInFlight = errors.New("generation already in flight for bundle")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
