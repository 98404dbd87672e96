package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error independently of the message shown to the user.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindInvalidCredentials
	KindForbidden
	KindConflict
	KindRateLimited
)

var (
	ErrInternal           = errors.New("internal server error")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
)

var sentinels = map[Kind]error{
	KindInternal:           ErrInternal,
	KindValidation:         ErrValidation,
	KindUnauthenticated:    ErrUnauthenticated,
	KindInvalidCredentials: ErrInvalidCredentials,
	KindForbidden:          ErrForbidden,
	KindConflict:           ErrConflict,
	KindRateLimited:        ErrRateLimitExceeded,
}

// AppError carries an error kind, the message catalog key for the user and
// the underlying cause, which is never shown to the user.
type AppError struct {
	Kind Kind
	Key  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Key + ": " + e.Err.Error()
	}
	return e.Key
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an AppError against the sentinel of its kind.
func (e *AppError) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// New creates a new AppError
func New(kind Kind, key string, err error) *AppError {
	return &AppError{
		Kind: kind,
		Key:  key,
		Err:  err,
	}
}

func Validation(key string) *AppError {
	return New(KindValidation, key, nil)
}

func Forbidden(key string) *AppError {
	return New(KindForbidden, key, nil)
}

func Conflict(key string) *AppError {
	return New(KindConflict, key, nil)
}

func Internal(key string, err error) *AppError {
	return New(KindInternal, key, err)
}

// KindOf reports the kind of err. Plain sentinels are recognised too, any
// other error is internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}

// KeyOf returns the message key attached to err, or fallback.
func KeyOf(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Key != "" {
		return appErr.Key
	}
	return fallback
}

// IsValidation is true for client-fixable input errors.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
