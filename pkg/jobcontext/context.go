package jobcontext

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyBatchID      KeyContext = "batch_id"
	keyRecordID     KeyContext = "record_id"
	keyReviewerID   KeyContext = "reviewer_id"
	keyRetryAttempt KeyContext = "retry_attempt"
	keyStartTime    KeyContext = "record_start_time"
)

// DefaultRecordTimeout bounds a single record evaluation when no timeout is given
const DefaultRecordTimeout = 3 * time.Minute

// RecordBegin derives a context for evaluating one record of a batch.
// The evaluation is cancelled when the timeout elapses or the parent is done.
func RecordBegin(parentCtx context.Context, batchID uuid.UUID, recordID int64, reviewerID string, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultRecordTimeout
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyBatchID, batchID)
	ctx = context.WithValue(ctx, keyRecordID, recordID)
	ctx = context.WithValue(ctx, keyReviewerID, reviewerID)
	ctx = context.WithValue(ctx, keyRetryAttempt, 0)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// RecordEnd runs fn with panic recovery so one bad record cannot take the
// whole batch down. A panic is returned as an error.
func RecordEnd(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before record evaluation: %w", ctx.Err())
	}
	return fn(ctx)
}

// GetBatchID extracts the batch ID from context
func GetBatchID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyBatchID).(uuid.UUID)
	return id, ok
}

// GetRecordID extracts the transcription ID from context
func GetRecordID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(keyRecordID).(int64)
	return id, ok
}

// GetReviewerID extracts the reviewer that started the batch
func GetReviewerID(ctx context.Context) string {
	id, _ := ctx.Value(keyReviewerID).(string)
	return id
}

// GetRetryAttempt extracts current retry attempt from context
func GetRetryAttempt(ctx context.Context) int {
	attempt, ok := ctx.Value(keyRetryAttempt).(int)
	if !ok {
		return 0
	}
	return attempt
}

// SetRetryAttempt updates retry attempt in context
func SetRetryAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, keyRetryAttempt, attempt)
}

// GetStartTime extracts the record start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(keyStartTime).(time.Time)
	return t, ok
}

// LogFields returns the record metadata carried by ctx as zap fields:
// batch_id, record_id, reviewer_id, attempt and elapsed. Outside a batch it
// returns nil.
func LogFields(ctx context.Context) []zap.Field {
	batchID, ok := GetBatchID(ctx)
	if !ok {
		return nil
	}
	fields := []zap.Field{zap.String("batch_id", batchID.String())}
	if recordID, ok := GetRecordID(ctx); ok {
		fields = append(fields, zap.Int64("record_id", recordID))
	}
	if reviewerID := GetReviewerID(ctx); reviewerID != "" {
		fields = append(fields, zap.String("reviewer_id", reviewerID))
	}
	fields = append(fields, zap.Int("attempt", GetRetryAttempt(ctx)))
	if start, ok := GetStartTime(ctx); ok {
		fields = append(fields, zap.Duration("elapsed", time.Since(start)))
	}
	return fields
}

// IsRetryableError checks if an error should trigger a retry
// Retryable errors include: network errors, timeouts, rate limits, 5xx
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Timeouts of a single call; a cancelled parent is never retried
	if strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "client.timeout exceeded") {
		return true
	}

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "unexpected eof") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") {
		return true
	}

	// Server errors (5xx) and provider overload
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "overloaded") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
