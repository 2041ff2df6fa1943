package domain

import (
	"errors"
	"net/http"
)

// Error codes carried by AppError. Each maps to one HTTP status.
const (
	CodeNotFound      = 1
	CodeAlreadyExists = 2
	CodeValidation    = 3
	CodeInternal      = 4
	CodePageNotFound  = 5
	CodeUpstream      = 6
	CodeConflict      = 7
)

var statusByCode = map[int]int{
	CodeNotFound:      http.StatusNotFound,
	CodePageNotFound:  http.StatusNotFound,
	CodeAlreadyExists: http.StatusConflict,
	CodeConflict:      http.StatusConflict,
	CodeValidation:    http.StatusBadRequest,
	CodeUpstream:      http.StatusBadGateway,
	CodeInternal:      http.StatusInternalServerError,
}

// AppError is a catalog failure the HTTP layer can report. Message is safe
// to show to clients; Err keeps the cause for logs.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code, so errors.Is(err, ErrNotFound)
// holds for every not-found error whatever its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is. Their messages double as generic fallbacks.
var (
	ErrNotFound      = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &AppError{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation    = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal      = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrPageNotFound  = &AppError{Code: CodePageNotFound, Message: "page not found"}
	ErrUpstream      = &AppError{Code: CodeUpstream, Message: "upstream service error"}
	ErrConflict      = &AppError{Code: CodeConflict, Message: "resource is still referenced"}
)

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NotFound(message string) *AppError {
	return NewAppError(CodeNotFound, message, nil)
}

func Validation(message string) *AppError {
	return NewAppError(CodeValidation, message, nil)
}

func AlreadyExists(message string) *AppError {
	return NewAppError(CodeAlreadyExists, message, nil)
}

// Conflict reports a write refused because other records still reference
// the target.
func Conflict(message string) *AppError {
	return NewAppError(CodeConflict, message, nil)
}

// Upstream reports a failed call to an external service such as the media
// store. message stays stable for clients while err carries the cause.
func Upstream(message string, err error) *AppError {
	return NewAppError(CodeUpstream, message, err)
}

func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }
func IsValidation(err error) bool    { return errors.Is(err, ErrValidation) }
func IsInternal(err error) bool      { return errors.Is(err, ErrInternal) }
func IsPageNotFound(err error) bool  { return errors.Is(err, ErrPageNotFound) }
func IsUpstream(err error) bool      { return errors.Is(err, ErrUpstream) }
func IsConflict(err error) bool      { return errors.Is(err, ErrConflict) }

// HTTPStatusCode returns the status for the code of the AppError in err's
// chain, or 500 when there is none or the code is unknown.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if status, ok := statusByCode[appErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}
