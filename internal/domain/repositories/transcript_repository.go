package repositories

import (
	"context"
	"iter"
	"time"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
)

// TranscriptRepository is the only boundary to the operational store.
// Reads go to the read engine, writes to the write engine.
type TranscriptRepository interface {
	// ReadCandidates streams call records matching the filters, newest first,
	// joined with their summary row when one exists
	ReadCandidates(ctx context.Context, filters CandidateFilters) iter.Seq2[entities.CallRecord, error]

	// UpsertSummary inserts or updates the summary of a transcription.
	// createdAt is honoured only when the row is inserted. Failures are
	// reported as (false, message) and never escape as errors.
	UpsertSummary(ctx context.Context, transcriptionID int64, insightJSON string, evaluationScore int, createdAt *time.Time) (bool, string)

	// CountEvaluated counts calls matching the filters that have a summary
	CountEvaluated(ctx context.Context, filters CandidateFilters) (int64, error)
}

// CandidateFilters represents filter options for reading candidates.
// Empty slices and nil bounds mean "no restriction".
type CandidateFilters struct {
	Empresa     string
	From        *time.Time
	To          *time.Time
	Etapas      []string
	Modalidades []string
	Origens     []string
	Tipos       []string
	Agentes     []string
}
