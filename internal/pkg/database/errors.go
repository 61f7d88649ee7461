package database

import (
	"errors"
	"fmt"
)

// ErrPersistence marks a failure of the backing store itself, as opposed to a
// rejected operation. The HTTP layer reports it as a server error.
var ErrPersistence = errors.New("persistence failure")

// Wrap annotates a driver error with op and marks it as ErrPersistence.
// A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
