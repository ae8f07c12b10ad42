package errors

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// AppError is the error shape returned across the HTTP boundary
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTERNAL,
		Message:   "Internal server error",
		Timestamp: time.Now(),
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_ARGUMENT,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_PAYLOAD,
		Message:   "Invalid payload",
		Timestamp: time.Now(),
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_NOT_FOUND,
		Message:   fmt.Sprintf("%s not found", resource),
		Timestamp: time.Now(),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_UNAUTHENTICATED,
		Message:   "Authentication required",
		Timestamp: time.Now(),
	}
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_AUTH_INVALID_TOKEN,
		Message:   "Invalid authentication token",
		Timestamp: time.Now(),
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_AUTH_TOKEN_EXPIRED,
		Message:   "Authentication token has expired",
		Timestamp: time.Now(),
	}
}

// Evaluation Errors
func ErrInputInvalid(reason string) AppError {
	return AppError{
		HTTPCode:  http.StatusUnprocessableEntity,
		Code:      ErrorCode_INPUT_INVALID,
		Message:   "Transcript cannot be evaluated",
		Timestamp: time.Now(),
	}.WithDetail("motivo", reason)
}

func ErrProviderFailed(motivo string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_PROVIDER_FAILED,
		Message:   "LLM provider call failed",
		Timestamp: time.Now(),
	}.WithDetail("motivo", motivo)
}

func ErrSchemaInvalid(motivo string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_SCHEMA_INVALID,
		Message:   "LLM response is not a valid evaluation",
		Timestamp: time.Now(),
	}.WithDetail("motivo", motivo)
}

func ErrPersistenceFailed(transcriptionID int64, motivo string) AppError {
	return AppError{
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_PERSISTENCE_FAILED,
		Message:   "Failed to persist evaluation",
		Timestamp: time.Now(),
	}.WithDetail("transcription_id", strconv.FormatInt(transcriptionID, 10)).WithDetail("motivo", motivo)
}

func ErrConfigurationMissing(motivo string) AppError {
	return AppError{
		HTTPCode:  http.StatusServiceUnavailable,
		Code:      ErrorCode_CONFIGURATION_MISSING,
		Message:   "Required configuration is missing",
		Timestamp: time.Now(),
	}.WithDetail("motivo", motivo)
}

// Review Session Errors
func ErrSessionNotFound(reviewerID string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_SESSION_NOT_FOUND,
		Message:   "Review session not found",
		Timestamp: time.Now(),
	}.WithDetail("reviewer_id", reviewerID)
}

func ErrBatchInProgress(batchID string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_BATCH_IN_PROGRESS,
		Message:   "A batch is already running for this session",
		Timestamp: time.Now(),
	}.WithDetail("batch_id", batchID)
}

func ErrSelectionEmpty() AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_SELECTION_EMPTY,
		Message:   "No transcripts selected",
		Timestamp: time.Now(),
	}
}

// Integration Errors
func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_DB_QUERY_FAILED,
		Message:   "Database query failed",
		Timestamp: time.Now(),
	}.WithDetail("query", query)
}

func ErrSessionExpired(reviewerID string) AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_SESSION_NOT_FOUND,
		Message:   "Review session expired",
		Timestamp: time.Now(),
	}.WithDetail("reviewer_id", reviewerID)
}

func ErrConflict(message string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_CONFLICT,
		Message:   message,
		Timestamp: time.Now(),
	}
}
