package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NotFoundError: the target does not exist or belongs to someone else.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StateError: the target exists but is not in a state that allows the action.
type StateError struct {
	Action string
	State  string
	Reason string
}

func (e *StateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s: %s", e.Action, e.Reason)
	}
	return fmt.Sprintf("cannot %s in state %q", e.Action, e.State)
}

// TransientStoreError wraps any persistence failure.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error { return e.Err }

// errStaleProfile signals a lost optimistic-concurrency race; the stage is retried.
var errStaleProfile = errors.New("rewards profile modified concurrently")

// storeErr wraps err as a TransientStoreError unless it already carries a domain error.
// A stale profile that outlived its retries is wrapped too; errors.Is still sees it.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	var se *StateError
	var te *TransientStoreError
	if errors.As(err, &nf) || errors.As(err, &se) || errors.As(err, &te) {
		return err
	}
	return &TransientStoreError{Op: op, Err: err}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
