package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("resource conflict")
	ErrInternalError = errors.New("internal server error")
)

// Evaluation errors
var (
	ErrTranscriptTooShort  = errors.New("transcript too short")
	ErrMissingAPIKey       = errors.New("LLM API key not configured")
	ErrContextDocument     = errors.New("context document unavailable")
	ErrSpinFieldsMissing   = errors.New("SPIN evaluation without required fields")
	ErrProviderUnavailable = errors.New("LLM provider unavailable")
)

// Review session errors
var (
	ErrSessionNotFound = errors.New("review session not found")
	ErrSessionExpired  = errors.New("review session expired")
	ErrRecordNotFound  = errors.New("record not found in current view")
	ErrInvalidPageSize = errors.New("page size must be 25, 50 or 100")
	ErrInvalidBucket   = errors.New("invalid filter bucket")
)

// Batch errors
var (
	ErrBatchInProgress = errors.New("a batch is already running for this session")
	ErrSelectionEmpty  = errors.New("selection is empty")
	ErrBatchNotFound   = errors.New("no batch started for this session")
)
