package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an object does not exist in a container.
	ErrNotFound = errors.New("object not found")
	// ErrUnsupportedPolicy is returned when a backend cannot sign the requested permissions.
	ErrUnsupportedPolicy = errors.New("signed url policy not supported by backend")
	// ErrUnknownDriver is returned for a storage driver the gateway does not know.
	ErrUnknownDriver = errors.New("unknown storage driver")
	// ErrEmptyContainer is returned when a container name is not configured.
	ErrEmptyContainer = errors.New("container name is empty")
	// ErrMalformedConnectionString is returned when a connection string cannot be parsed.
	ErrMalformedConnectionString = errors.New("malformed connection string")
	// ErrContainerMissing is returned when a container does not exist on the backend.
	ErrContainerMissing = errors.New("container does not exist")
)

// BackendError wraps a failure reported by the storage backend.
type BackendError struct {
	Op        string
	Container string
	Key       string
	Err       error
}

func (e *BackendError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Container, e.Err)
	}
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Container, e.Key, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ConfigError is a startup failure: bad credentials, unknown driver, or a
// container that cannot be resolved. It is not recoverable per call.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("storage config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsNotFound reports whether err signals a missing object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
