// Package batch evaluates a reviewer's selection one record at a time and
// persists every result, reporting progress after each record.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/internal/domain/repositories"
	"github.com/johnquangdev/call-insight/internal/usecase/eligibility"
	"github.com/johnquangdev/call-insight/internal/usecase/evaluation"
	"github.com/johnquangdev/call-insight/pkg/jobcontext"
)

const minNonSpaceChars = 10

// MotivoTooShort is recorded for records skipped before evaluation
const MotivoTooShort = "Transcrição com menos de 10 caracteres; registro ignorado"

// Session receives per-record lifecycle updates
type Session interface {
	MarkEvaluating(id int64) error
	MarkEvaluated(id int64, insight string, score int)
	MarkFailed(id int64, msg string)
	ClearSelection()
}

// ViewInvalidator drops cached views after a batch
type ViewInvalidator interface {
	InvalidateViews(ctx context.Context, reviewerID string)
}

// Sink is notified after every record
type Sink interface {
	Progress(p Progress)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Progress)

func (f SinkFunc) Progress(p Progress) { f(p) }

// Progress is the state of a running batch
type Progress struct {
	BatchID     uuid.UUID `json:"batch_id"`
	Total       int       `json:"total"`
	Done        int       `json:"done"`
	Fraction    float64   `json:"fraction"`
	CurrentID   int64     `json:"current_id,omitempty"`
	CurrentLead string    `json:"current_lead,omitempty"`
	Success     int       `json:"success"`
	Errors      int       `json:"errors"`
}

// Failure describes one record that could not be evaluated or stored
type Failure struct {
	TranscriptionID int64              `json:"transcription_id"`
	LeadName        string             `json:"lead_name"`
	Kind            entities.ErrorKind `json:"kind"`
	// Code is the API error code, filled at the HTTP boundary
	Code            string             `json:"code,omitempty"`
	Message         string             `json:"message"`
}

// recordError tags a failure raised by the runner itself
type recordError struct {
	kind entities.ErrorKind
	msg  string
}

func (e *recordError) Error() string { return e.msg }

func failureKind(err error) entities.ErrorKind {
	var re *recordError
	if errors.As(err, &re) {
		return re.kind
	}
	var er *entities.ErrorResult
	if errors.As(err, &er) {
		return er.Kind
	}
	return entities.ErrorKindInternal
}

// Report is the outcome of a batch
type Report struct {
	BatchID    uuid.UUID `json:"batch_id"`
	Success    int       `json:"success"`
	Errors     int       `json:"errors"`
	Details    []Failure `json:"details"`
	Tokens     int       `json:"tokens_usados"`
	Message    string    `json:"message"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Job is one batch request
type Job struct {
	BatchID    uuid.UUID
	ReviewerID string
	Selection  []entities.CallRecord
	Session    Session
	Sink       Sink
}

// Runner processes selections sequentially. Pacing spaces LLM-bound
// records so a single API key is not rate limited.
type Runner struct {
	evaluator     evaluation.Evaluator
	repo          repositories.TranscriptRepository
	views         ViewInvalidator
	limiter       *rate.Limiter
	recordTimeout time.Duration
	logger        *zap.Logger
}

// NewRunner creates a runner. pacing <= 0 disables pacing.
func NewRunner(evaluator evaluation.Evaluator, repo repositories.TranscriptRepository, views ViewInvalidator, pacing, recordTimeout time.Duration, logger *zap.Logger) *Runner {
	limit := rate.Inf
	if pacing > 0 {
		limit = rate.Every(pacing)
	}
	return &Runner{
		evaluator:     evaluator,
		repo:          repo,
		views:         views,
		limiter:       rate.NewLimiter(limit, 1),
		recordTimeout: recordTimeout,
		logger:        logger,
	}
}

// Run evaluates and persists every selected record in selection order.
// It never fails as a whole: per-record failures are accumulated.
func (r *Runner) Run(ctx context.Context, job Job) Report {
	if job.BatchID == uuid.Nil {
		job.BatchID = uuid.New()
	}
	report := Report{BatchID: job.BatchID, StartedAt: time.Now(), Details: []Failure{}}
	total := len(job.Selection)

	if r.logger != nil {
		r.logger.Info("🚀 Batch started",
			zap.String("batch_id", job.BatchID.String()),
			zap.String("reviewer_id", job.ReviewerID),
			zap.Int("records", total))
	}

	for i, rec := range job.Selection {
		if err := r.process(ctx, job, rec, &report); err != nil {
			report.Errors++
			report.Details = append(report.Details, Failure{
				TranscriptionID: rec.TranscriptionID,
				LeadName:        rec.LeadName,
				Kind:            failureKind(err),
				Message:         err.Error(),
			})
			if job.Session != nil {
				job.Session.MarkFailed(rec.TranscriptionID, err.Error())
			}
			if r.logger != nil {
				r.logger.Warn("⚠️ Record failed",
					zap.String("batch_id", job.BatchID.String()),
					zap.Int64("transcription_id", rec.TranscriptionID),
					zap.Error(err))
			}
		} else {
			report.Success++
		}

		if job.Sink != nil {
			job.Sink.Progress(Progress{
				BatchID:     job.BatchID,
				Total:       total,
				Done:        i + 1,
				Fraction:    float64(i+1) / float64(total),
				CurrentID:   rec.TranscriptionID,
				CurrentLead: rec.LeadName,
				Success:     report.Success,
				Errors:      report.Errors,
			})
		}
	}

	if job.Session != nil {
		job.Session.ClearSelection()
	}
	if r.views != nil {
		r.views.InvalidateViews(ctx, job.ReviewerID)
	}

	report.FinishedAt = time.Now()
	report.Message = fmt.Sprintf("%d sucessos, %d erros", report.Success, report.Errors)

	if r.logger != nil {
		r.logger.Info("🏁 Batch finished",
			zap.String("batch_id", job.BatchID.String()),
			zap.Int("success", report.Success),
			zap.Int("errors", report.Errors),
			zap.Int("tokens", report.Tokens),
			zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))
	}
	return report
}

func (r *Runner) process(ctx context.Context, job Job, rec entities.CallRecord, report *Report) error {
	if eligibility.NonSpaceLength(rec.Transcricao) < minNonSpaceChars {
		return &recordError{kind: entities.ErrorKindInput, msg: MotivoTooShort}
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	if job.Session != nil {
		if err := job.Session.MarkEvaluating(rec.TranscriptionID); err != nil {
			return err
		}
	}

	rctx, cancel := jobcontext.RecordBegin(ctx, job.BatchID, rec.TranscriptionID, job.ReviewerID, r.recordTimeout)
	defer cancel()

	return jobcontext.RecordEnd(rctx, func(ctx context.Context) error {
		res := r.evaluator.Evaluate(ctx, rec.Transcricao, rec.CRMContext())
		report.Tokens += res.TokensUsed()
		if er, ok := res.(*entities.ErrorResult); ok {
			return er
		}

		var createdAt *time.Time
		if !rec.CreatedAt.IsZero() {
			createdAt = &rec.CreatedAt
		}
		insight, score := res.AvaliacaoCompleta(), res.NotaVendedor()
		if ok, msg := r.repo.UpsertSummary(ctx, rec.TranscriptionID, insight, score, createdAt); !ok {
			return &recordError{kind: entities.ErrorKindPersistence, msg: msg}
		}
		if job.Session != nil {
			job.Session.MarkEvaluated(rec.TranscriptionID, insight, score)
		}
		return nil
	})
}
