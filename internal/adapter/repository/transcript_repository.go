package repository

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/internal/domain/repositories"
	"github.com/johnquangdev/call-insight/pkg/jobcontext"
	"github.com/johnquangdev/call-insight/pkg/localtime"
)

const candidateColumns = `t.transcription_id, t.opportunity_id, t.created_at, t.empresa,
	t.lead_name, t.lead_phone, t.lead_email, t.etapa, t.modalidade, t.origem, t.tipo,
	t.duracao, t.agente, t.transcricao,
	s.ai_insight AS insight_ia, s.ai_evaluation AS evaluation_ia`

// Columns rewritten when a summary already exists. uuid and created_at
// keep the values of the first insert.
var summaryUpdateColumns = []string{
	"ai_insight",
	"ai_evaluation",
	"lead_score",
	"lead_classification",
	"strengths",
	"improvements",
	"most_expensive_mistake",
	"main_pain_points",
	"restrictions",
	"contest_area",
	"main_product",
	"updated_at",
}

// transcriptRepository implements repositories.TranscriptRepository
type transcriptRepository struct {
	readDB  *gorm.DB
	writeDB *gorm.DB
	logger  *zap.Logger
}

// NewTranscriptRepository creates a repository over a read engine (may be a
// replica) and a write engine (the primary).
func NewTranscriptRepository(readDB, writeDB *gorm.DB, logger *zap.Logger) repositories.TranscriptRepository {
	return &transcriptRepository{readDB: readDB, writeDB: writeDB, logger: logger}
}

type candidateRow struct {
	TranscriptionID int64     `gorm:"column:transcription_id"`
	OpportunityID   *string   `gorm:"column:opportunity_id"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	Empresa         *string   `gorm:"column:empresa"`
	LeadName        *string   `gorm:"column:lead_name"`
	LeadPhone       *string   `gorm:"column:lead_phone"`
	LeadEmail       *string   `gorm:"column:lead_email"`
	Etapa           *string   `gorm:"column:etapa"`
	Modalidade      *string   `gorm:"column:modalidade"`
	Origem          *string   `gorm:"column:origem"`
	Tipo            *string   `gorm:"column:tipo"`
	Duracao         *int      `gorm:"column:duracao"`
	Agente          *string   `gorm:"column:agente"`
	Transcricao     *string   `gorm:"column:transcricao"`
	InsightIA       *string   `gorm:"column:insight_ia"`
	EvaluationIA    *int      `gorm:"column:evaluation_ia"`
}

func (row candidateRow) toEntity() entities.CallRecord {
	return entities.CallRecord{
		TranscriptionID: row.TranscriptionID,
		OpportunityID:   row.OpportunityID,
		CreatedAt:       localtime.Localize(row.CreatedAt),
		Empresa:         deref(row.Empresa),
		LeadName:        deref(row.LeadName),
		LeadPhone:       deref(row.LeadPhone),
		LeadEmail:       deref(row.LeadEmail),
		Etapa:           deref(row.Etapa),
		Modalidade:      deref(row.Modalidade),
		Origem:          deref(row.Origem),
		Tipo:            deref(row.Tipo),
		Duracao:         row.Duracao,
		Agente:          deref(row.Agente),
		Transcricao:     deref(row.Transcricao),
		InsightIA:       row.InsightIA,
		EvaluationIA:    row.EvaluationIA,
	}
}

// ReadCandidates streams matching call records, newest first
func (r *transcriptRepository) ReadCandidates(ctx context.Context, filters repositories.CandidateFilters) iter.Seq2[entities.CallRecord, error] {
	return func(yield func(entities.CallRecord, error) bool) {
		rows, err := r.candidateQuery(ctx, filters).
			Select(candidateColumns).
			Order("t.created_at DESC").
			Rows()
		if err != nil {
			yield(entities.CallRecord{}, fmt.Errorf("failed to query candidates: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row candidateRow
			if err := r.readDB.ScanRows(rows, &row); err != nil {
				yield(entities.CallRecord{}, fmt.Errorf("failed to scan candidate: %w", err))
				return
			}
			if !yield(row.toEntity(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(entities.CallRecord{}, fmt.Errorf("failed to iterate candidates: %w", err))
		}
	}
}

// UpsertSummary writes the evaluation of one transcription in its own transaction
func (r *transcriptRepository) UpsertSummary(ctx context.Context, transcriptionID int64, insightJSON string, evaluationScore int, createdAt *time.Time) (bool, string) {
	summary := entities.PersistedSummary{
		TranscriptionID: transcriptionID,
		UUID:            uuid.NewString(),
		AIInsight:       insightJSON,
		AIEvaluation:    int16(clampScore(evaluationScore)),
	}
	if err := summary.Denormalize(insightJSON); err != nil {
		return r.fail(ctx, transcriptionID, "insight inválido", err)
	}

	now := localtime.Naive(time.Now())
	summary.CreatedAt = now
	summary.UpdatedAt = now
	if createdAt != nil && !createdAt.IsZero() {
		summary.CreatedAt = localtime.Naive(*createdAt)
	}

	err := r.writeDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transcription_id"}},
			DoUpdates: clause.AssignmentColumns(summaryUpdateColumns),
		}).Create(&summary).Error
	})
	if err != nil {
		return r.fail(ctx, transcriptionID, "falha ao gravar avaliação", err)
	}

	if r.logger != nil {
		r.logger.Info("💾 Summary upserted",
			append(jobcontext.LogFields(ctx),
				zap.Int64("transcription_id", transcriptionID),
				zap.Int("ai_evaluation", int(summary.AIEvaluation)),
			)...)
	}
	return true, ""
}

// CountEvaluated counts matching calls that already have an insight
func (r *transcriptRepository) CountEvaluated(ctx context.Context, filters repositories.CandidateFilters) (int64, error) {
	var total int64
	err := r.candidateQuery(ctx, filters).
		Where("s.ai_insight IS NOT NULL AND s.ai_insight <> ''").
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count evaluated calls: %w", err)
	}
	return total, nil
}

func (r *transcriptRepository) candidateQuery(ctx context.Context, f repositories.CandidateFilters) *gorm.DB {
	query := r.readDB.WithContext(ctx).
		Table(entities.CallTranscription{}.TableName() + " AS t").
		Joins("LEFT JOIN " + entities.PersistedSummary{}.TableName() + " AS s ON s.transcription_id = t.transcription_id")

	if f.Empresa != "" {
		query = query.Where("t.empresa = ?", f.Empresa)
	}
	if f.From != nil {
		query = query.Where("t.created_at >= ?", localtime.Naive(*f.From))
	}
	if f.To != nil {
		query = query.Where("t.created_at <= ?", localtime.Naive(*f.To))
	}
	if len(f.Etapas) > 0 {
		query = query.Where("t.etapa IN ?", f.Etapas)
	}
	if len(f.Modalidades) > 0 {
		query = query.Where("t.modalidade IN ?", f.Modalidades)
	}
	if len(f.Origens) > 0 {
		query = query.Where("t.origem IN ?", f.Origens)
	}
	if len(f.Tipos) > 0 {
		query = query.Where("t.tipo IN ?", f.Tipos)
	}
	if len(f.Agentes) > 0 {
		// the placeholder agent stands for rows without a seller
		if slices.Contains(f.Agentes, entities.UnknownAgent) {
			query = query.Where("(t.agente IN ? OR t.agente IS NULL OR t.agente = '')", f.Agentes)
		} else {
			query = query.Where("t.agente IN ?", f.Agentes)
		}
	}
	return query
}

func (r *transcriptRepository) fail(ctx context.Context, transcriptionID int64, message string, err error) (bool, string) {
	if r.logger != nil {
		r.logger.Error("❌ Summary upsert failed",
			append(jobcontext.LogFields(ctx),
				zap.Int64("transcription_id", transcriptionID),
				zap.Error(err),
			)...)
	}
	return false, fmt.Sprintf("%s: %s", message, strings.TrimSpace(err.Error()))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
