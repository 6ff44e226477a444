// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound                = errors.New("resource not found")
	ErrDuplicateKey            = errors.New("duplicate key")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidInput            = errors.New("invalid input")
	ErrTokenMissing            = errors.New("token missing")
	ErrTokenExpired            = errors.New("token expired")
	ErrTokenInvalid            = errors.New("token invalid")
	ErrTokenVerificationFailed = errors.New("token verification failed")
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeTokenMissing       = "TOKEN_MISSING"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "INVALID_TOKEN"
	CodeVerificationFailed = "TOKEN_VERIFICATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateUsername  = "DUPLICATE_USERNAME"
	CodeDuplicateSKU       = "DUPLICATE_SKU"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is an error that already knows how it should be presented to a
// client. The wrapped Err keeps errors.Is working against the sentinels above.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ValidationError joins every violation, in order, into a single message.
func ValidationError(violations []string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		strings.Join(violations, ", "),
		http.StatusBadRequest,
		CodeValidation,
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		CodeUnauthorized,
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, CodeForbidden)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		CodeNotFound,
	)
}

func ConflictError(message, code string) *AppError {
	return NewAppError(ErrDuplicateKey, message, http.StatusConflict, code)
}

func TokenMissingError() *AppError {
	return NewAppError(
		ErrTokenMissing,
		"Token missing",
		http.StatusUnauthorized,
		CodeTokenMissing,
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"Token expired",
		http.StatusUnauthorized,
		CodeTokenExpired,
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"Invalid token",
		http.StatusUnauthorized,
		CodeTokenInvalid,
	)
}

func TokenVerificationFailedError() *AppError {
	return NewAppError(
		ErrTokenVerificationFailed,
		"Token verification failed",
		http.StatusUnauthorized,
		CodeVerificationFailed,
	)
}

func RouteNotFoundError() *AppError {
	return NewAppError(
		ErrNotFound,
		"Route not found",
		http.StatusNotFound,
		CodeNotFound,
	)
}

func MethodNotAllowedError() *AppError {
	return NewAppError(
		nil,
		"Method not allowed",
		http.StatusMethodNotAllowed,
		CodeMethodNotAllowed,
	)
}

func InternalError(message string) *AppError {
	if message == "" {
		message = "Internal server error"
	}
	return NewAppError(
		nil,
		message,
		http.StatusInternalServerError,
		CodeInternal,
	)
}
