package record

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// StorageFailure reports that the local store could not be read or written.
// It is always surfaced to the caller.
type StorageFailure struct {
	Op  string
	Err error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("local storage %s: %v", e.Op, e.Err)
}

func (e *StorageFailure) Unwrap() error { return e.Err }

// RemoteFailure reports a network error or a non-success response from the
// remote service. StatusCode is 0 when no response was received.
type RemoteFailure struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteFailure) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
	case e.Body != "":
		return fmt.Sprintf("remote %s: status %d: %s", e.Op, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("remote %s: status %d", e.Op, e.StatusCode)
	}
}

func (e *RemoteFailure) Unwrap() error { return e.Err }

// IsStorageFailure reports whether err wraps a StorageFailure.
func IsStorageFailure(err error) bool {
	var sf *StorageFailure
	return errors.As(err, &sf)
}

// IsRemoteFailure reports whether err wraps a RemoteFailure.
func IsRemoteFailure(err error) bool {
	var rf *RemoteFailure
	return errors.As(err, &rf)
}
