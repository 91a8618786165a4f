// Package dto holds the statically declared request and response bodies of the
// portfolio API, the error envelope and request binding helpers.
package dto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
	"github.com/jsamuelsen/portfolio-service/internal/platform/telemetry"
)

// ErrorResponse is the envelope of every error response.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details holds field-level messages for validation errors.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeNotFound     = "NOT_FOUND"
	ErrorCodeConflict     = "CONFLICT"
	ErrorCodeValidation   = "VALIDATION_ERROR"
	ErrorCodeForbidden    = "FORBIDDEN"
	ErrorCodeUnauthorized = "UNAUTHORIZED"
	ErrorCodeUnavailable  = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal     = "INTERNAL_ERROR"
	ErrorCodeTimeout      = "TIMEOUT"
	ErrorCodeBadRequest   = "BAD_REQUEST"
	ErrorCodeTooLarge     = "PAYLOAD_TOO_LARGE"
)

// Messages that replace error text which must not reach clients.
const (
	msgInternal     = "an internal error occurred"
	msgUnauthorized = "invalid or missing credentials"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps a domain error to an HTTP status and error body.
// Unknown errors become a generic 500 so internals never leak.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, typedMessage[*domain.NotFoundError](err, domain.ErrNotFound))

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, typedMessage[*domain.ConflictError](err, domain.ErrConflict))

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, typedMessage[*domain.ValidationError](err, domain.ErrValidation))

		var ve *domain.ValidationError
		if errors.As(err, &ve) && ve.Field != "" {
			resp.Error.Details = map[string]string{ve.Field: ve.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized, NewErrorResponse(ErrorCodeUnauthorized, msgUnauthorized)

	case domain.IsForbidden(err):
		return http.StatusForbidden, NewErrorResponse(ErrorCodeForbidden, typedMessage[*domain.ForbiddenError](err, domain.ErrForbidden))

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, typedMessage[*domain.UnavailableError](err, domain.ErrUnavailable))

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, "request timeout exceeded")

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, msgInternal)
	}
}

// typedMessage is the text of the innermost typed domain error, without the
// context prefixes services wrap around it. A bare sentinel yields its own text.
func typedMessage[E error](err, sentinel error) string {
	var typed E
	if errors.As(err, &typed) {
		return typed.Error()
	}

	return sentinel.Error()
}

// GetTraceID returns the trace id of the request span, or "".
func GetTraceID(c *gin.Context) string {
	return telemetry.TraceID(c.Request.Context())
}

// HandleError maps err and writes the error envelope. Internal errors are
// logged with their full text; unauthorized reasons are logged at debug.
func HandleError(c *gin.Context, err error) {
	status, resp := errorResponse(c, err)
	c.JSON(status, resp)
}

// AbortWithError is HandleError for middleware: it also stops the chain.
func AbortWithError(c *gin.Context, err error) {
	status, resp := errorResponse(c, err)
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithErrorCode aborts with an adapter-level error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// RespondWithErrorCode writes an adapter-level error, such as a malformed body.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// RespondWithBindingError writes the response for a failed Bind*AndValidate:
// field messages for rule violations, 413 for a body over the server cap and
// 400 for anything that did not decode.
func RespondWithBindingError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, ErrValidation):
		RespondWithValidationErrors(c, ValidationErrors(err))
	case errors.As(err, &tooLarge):
		RespondWithErrorCode(c, ErrorCodeTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	default:
		RespondWithErrorCode(c, ErrorCodeBadRequest, "malformed request")
	}
}

// RespondWithValidationErrors writes a 400 with field-level messages.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fieldErrors)
	c.JSON(http.StatusBadRequest, resp.WithTraceID(GetTraceID(c)))
}

func errorResponse(c *gin.Context, err error) (int, *ErrorResponse) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	logger := logging.FromContext(c.Request.Context())

	switch status {
	case http.StatusInternalServerError:
		logger.Error("internal error", slog.String("error", err.Error()))
	case http.StatusUnauthorized:
		logger.Debug("request not authorized", slog.String("reason", err.Error()))
	case http.StatusServiceUnavailable:
		logger.Warn("dependency unavailable", slog.String("error", err.Error()))
	}

	return status, resp
}
