package cmis

import (
	"errors"
	"fmt"
)

// Repository connectivity errors.
var (
	ErrConnection        = errors.New("repository connection failed")
	ErrObjectNotFound    = errors.New("object not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConstraint        = errors.New("constraint violation")
	ErrContentAlreadySet = errors.New("content already exists")
	ErrNameConstraint    = errors.New("name constraint violation")
	ErrNotSupported      = errors.New("operation not supported")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRuntime           = errors.New("repository runtime error")
)

// RepositoryError is an exception reported by the repository.
type RepositoryError struct {
	Kind       error
	Exception  string
	Message    string
	StatusCode int
}

// NewRepositoryError classifies a repository exception by name, falling
// back to the HTTP status code.
func NewRepositoryError(statusCode int, exception, message string) *RepositoryError {
	return &RepositoryError{
		Kind:       classify(statusCode, exception),
		Exception:  exception,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *RepositoryError) Error() string {
	if e.Exception == "" {
		return fmt.Sprintf("%s: status %d: %s", e.Kind, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Exception, e.Message)
}

func (e *RepositoryError) Unwrap() error {
	return e.Kind
}

var exceptionKinds = map[string]error{
	"objectNotFound":          ErrObjectNotFound,
	"permissionDenied":        ErrPermissionDenied,
	"invalidArgument":         ErrInvalidArgument,
	"constraint":              ErrConstraint,
	"contentAlreadyExists":    ErrContentAlreadySet,
	"nameConstraintViolation": ErrNameConstraint,
	"notSupported":            ErrNotSupported,
	"unauthorized":            ErrUnauthorized,
	"runtime":                 ErrRuntime,
}

func classify(statusCode int, exception string) error {
	if kind, ok := exceptionKinds[exception]; ok {
		return kind
	}

	switch statusCode {
	case 400:
		return ErrInvalidArgument
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrPermissionDenied
	case 404:
		return ErrObjectNotFound
	case 405:
		return ErrNotSupported
	case 409:
		return ErrConstraint
	default:
		return ErrRuntime
	}
}

// IsClientError reports whether err was caused by the caller rather than by
// the repository being unavailable.
func IsClientError(err error) bool {
	return errors.Is(err, ErrObjectNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrConstraint) ||
		errors.Is(err, ErrContentAlreadySet) ||
		errors.Is(err, ErrNameConstraint) ||
		errors.Is(err, ErrNotSupported) ||
		errors.Is(err, ErrUnauthorized)
}
