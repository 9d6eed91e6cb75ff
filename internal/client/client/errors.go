package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuthentication = errors.New("authentication rejected")
	ErrRegistration   = errors.New("registration rejected")
	ErrDirectoryFetch = errors.New("user directory fetch rejected")
	ErrTransport      = errors.New("transport failure")
)

// Fallback messages used when a rejection carries no message of its own.
const (
	DefaultLoginMessage     = "login failed"
	DefaultRegisterMessage  = "registration failed"
	DefaultDirectoryMessage = "failed to fetch users"
)

// ServiceError is a request the identity service answered and refused.
type ServiceError struct {
	Kind       error
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Kind
}

// TransportError is a request that produced no usable answer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// IsUnauthorized reports whether err is a rejection with status 401, which
// means the stored token is no longer accepted.
func IsUnauthorized(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}
