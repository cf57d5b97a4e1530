package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeRemoteStore       = "REMOTE_STORE_ERROR"
	ErrCodeLocalStore        = "LOCAL_STORE_ERROR"
	ErrCodeThirdPartyError   = "THIRD_PARTY_ERROR"
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"
	ErrCodeResourceExhausted = "RESOURCE_EXHAUSTED"
)

// Sign-in failure reasons reported by the auth provider.
const (
	ErrCodeAuthInvalidEmail  = "AUTH_INVALID_EMAIL"
	ErrCodeAuthUserDisabled  = "AUTH_USER_DISABLED"
	ErrCodeAuthUserNotFound  = "AUTH_USER_NOT_FOUND"
	ErrCodeAuthWrongPassword = "AUTH_WRONG_PASSWORD"
	ErrCodeAuthFailed        = "AUTH_FAILED"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func RemoteStoreError(message string) *AppError {
	return NewAppError(ErrCodeRemoteStore, message, http.StatusBadGateway)
}

func LocalStoreError(message string) *AppError {
	return NewAppError(ErrCodeLocalStore, message, http.StatusInternalServerError)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusInternalServerError)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

func ResourceExhaustedError(message string) *AppError {
	return NewAppError(ErrCodeResourceExhausted, message, http.StatusTooManyRequests)
}

// AuthFailure builds the user-facing error for a failed sign-in. Unknown
// reasons fall back to a generic message carrying the provider detail.
func AuthFailure(code, detail string) *AppError {
	var message string

	switch code {
	case ErrCodeAuthInvalidEmail:
		message = "Invalid email address format."
	case ErrCodeAuthUserDisabled:
		message = "This account has been disabled."
	case ErrCodeAuthUserNotFound:
		message = "No account found with this email."
	case ErrCodeAuthWrongPassword:
		message = "Incorrect password."
	default:
		code = ErrCodeAuthFailed
		message = fmt.Sprintf("Login failed: %s", detail)
	}

	return NewAppError(code, message, http.StatusUnauthorized).WithDetail(detail)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// Succeeded is the boolean view of a store operation result.
func Succeeded(err error) bool {
	return err == nil
}

// CodeOf returns the AppError code carried by err, or "" for nil and
// ErrCodeInternal for foreign errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}

	if appErr, ok := IsAppError(err); ok {
		return appErr.Code
	}

	return ErrCodeInternal
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
