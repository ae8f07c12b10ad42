package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/internal/domain/repositories"
	"github.com/johnquangdev/call-insight/internal/infrastructure/cache"
)

// EvaluableFunc is the coarse "avaliável" test applied to each transcript
type EvaluableFunc func(transcricao string) bool

// Service loads records into review sessions
type Service struct {
	repo        repositories.TranscriptRepository
	isEvaluable EvaluableFunc
	views       *cache.ViewCache
	sessions    *Registry
	logger      *zap.Logger
}

// NewService creates a review service. views may be nil to disable caching.
func NewService(repo repositories.TranscriptRepository, isEvaluable EvaluableFunc, views *cache.ViewCache, sessions *Registry, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		isEvaluable: isEvaluable,
		views:       views,
		sessions:    sessions,
		logger:      logger,
	}
}

// Sessions exposes the registry
func (s *Service) Sessions() *Registry {
	return s.sessions
}

// Load reads the candidates matching filters into the session and returns
// the current page
func (s *Service) Load(ctx context.Context, state *ReviewState, filters repositories.CandidateFilters) (Page, error) {
	records, err := s.read(ctx, state.ReviewerID, filters)
	if err != nil {
		return Page{}, err
	}
	state.SetRecords(filters, records, s.isEvaluable)
	return state.CurrentPage(), nil
}

// Refresh reloads the session with its current filters
func (s *Service) Refresh(ctx context.Context, state *ReviewState) (Page, error) {
	return s.Load(ctx, state, state.Filters())
}

// InvalidateViews drops the reviewer's cached views so the next load
// re-reads fresh rows
func (s *Service) InvalidateViews(ctx context.Context, reviewerID string) {
	if s.views != nil {
		s.views.Invalidate(ctx, reviewerID)
	}
}

// CountEvaluated counts records with a stored evaluation
func (s *Service) CountEvaluated(ctx context.Context, filters repositories.CandidateFilters) (int64, error) {
	return s.repo.CountEvaluated(ctx, filters)
}

func (s *Service) read(ctx context.Context, reviewerID string, filters repositories.CandidateFilters) ([]entities.CallRecord, error) {
	var records []entities.CallRecord
	if s.views != nil && s.views.Load(ctx, reviewerID, filters, &records) {
		return records, nil
	}

	records = records[:0]
	for rec, err := range s.repo.ReadCandidates(ctx, filters) {
		if err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Failed to read candidates", zap.String("reviewer_id", reviewerID), zap.Error(err))
			}
			return nil, fmt.Errorf("failed to read candidates: %w", err)
		}
		records = append(records, rec)
	}

	if s.logger != nil {
		s.logger.Info("📥 Candidates loaded",
			zap.String("reviewer_id", reviewerID),
			zap.Int("count", len(records)))
	}
	if s.views != nil {
		s.views.Save(ctx, reviewerID, filters, records)
	}
	return records, nil
}
