package errors

import (
	"errors"
	"fmt"
)

// Common error types shared by the snapshot stores
var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidKey = errors.New("invalid key")
	ErrNilEntry   = errors.New("entry cannot be nil")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
