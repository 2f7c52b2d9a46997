package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind is the category a failure is reported under.
type ErrorKind string

const (
	KindUnauthenticated     ErrorKind = "unauthenticated"
	KindForbidden           ErrorKind = "forbidden"
	KindNotFound            ErrorKind = "not_found"
	KindValidation          ErrorKind = "validation_error"
	KindRateLimited         ErrorKind = "rate_limited"
	KindUpstreamTimeout     ErrorKind = "upstream_timeout"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindConflict            ErrorKind = "conflict"
	KindInternal            ErrorKind = "internal_error"
)

// Status maps a kind onto its HTTP status code.
func (k ErrorKind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// AppError is an error tagged with a kind and a message that is safe to show callers.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(kind ErrorKind, msg string, err error) *AppError {
	return &AppError{Kind: kind, Message: msg, Err: err}
}

func Unauthenticated(msg string) *AppError { return newAppError(KindUnauthenticated, msg, nil) }
func Forbidden(msg string) *AppError       { return newAppError(KindForbidden, msg, nil) }
func NotFound(msg string) *AppError        { return newAppError(KindNotFound, msg, nil) }
func Validation(msg string) *AppError      { return newAppError(KindValidation, msg, nil) }
func Conflict(msg string) *AppError        { return newAppError(KindConflict, msg, nil) }

func RateLimited(msg string, err error) *AppError {
	return newAppError(KindRateLimited, msg, err)
}

func UpstreamTimeout(msg string, err error) *AppError {
	return newAppError(KindUpstreamTimeout, msg, err)
}

func UpstreamUnavailable(msg string, err error) *AppError {
	return newAppError(KindUpstreamUnavailable, msg, err)
}

func Internal(msg string, err error) *AppError {
	return newAppError(KindInternal, msg, err)
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   ErrorKind `json:"error"`
	Message string    `json:"message"`
}

// RespondError writes err as a JSON error body. Internal errors are logged and their
// details withheld from the caller.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal("an unexpected error occurred", err)
	}
	if appErr.Kind == KindInternal || appErr.Kind == KindUpstreamUnavailable {
		GetLogger().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", string(appErr.Kind)),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(appErr.Kind.Status(), ErrorResponse{Error: appErr.Kind, Message: appErr.Message})
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   KindInternal,
					Message: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, kind ErrorKind, message string) {
	GetLogger().Warn(message, zap.String("kind", string(kind)))
	c.AbortWithStatusJSON(kind.Status(), ErrorResponse{Error: kind, Message: message})
}
