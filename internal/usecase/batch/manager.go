package batch

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
	ucerrors "github.com/johnquangdev/call-insight/internal/usecase/errors"
)

// Status is what the UI polls while a batch runs
type Status struct {
	BatchID  uuid.UUID `json:"batch_id"`
	Running  bool      `json:"running"`
	Progress Progress  `json:"progress"`
	Report   *Report   `json:"report,omitempty"`
}

type tracker struct {
	mu        sync.RWMutex
	status    Status
	// guarded by Manager.mu
	forgotten bool
}

func (t *tracker) Progress(p Progress) {
	t.mu.Lock()
	t.status.Progress = p
	t.mu.Unlock()
}

func (t *tracker) finish(r Report) {
	t.mu.Lock()
	t.status.Running = false
	t.status.Report = &r
	t.mu.Unlock()
}

func (t *tracker) snapshot() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := t.status
	if s.Report != nil {
		r := *s.Report
		s.Report = &r
	}
	return s
}

// Manager runs at most one batch per reviewer in the background
type Manager struct {
	runner  *Runner
	baseCtx context.Context
	mu      sync.Mutex
	batches map[string]*tracker
	wg      sync.WaitGroup
	logger  *zap.Logger
}

// NewManager creates a manager. Batches run under baseCtx, not under the
// request that started them.
func NewManager(baseCtx context.Context, runner *Runner, logger *zap.Logger) *Manager {
	return &Manager{
		runner:  runner,
		baseCtx: baseCtx,
		batches: make(map[string]*tracker),
		logger:  logger,
	}
}

// Start launches a batch over selection. A second start while one is
// running for the same reviewer is rejected.
func (m *Manager) Start(reviewerID string, selection []entities.CallRecord, session Session) (uuid.UUID, error) {
	if len(selection) == 0 {
		return uuid.Nil, ucerrors.ErrSelectionEmpty
	}

	m.mu.Lock()
	if t, ok := m.batches[reviewerID]; ok && t.snapshot().Running {
		m.mu.Unlock()
		return uuid.Nil, ucerrors.ErrBatchInProgress
	}
	id := uuid.New()
	t := &tracker{status: Status{
		BatchID:  id,
		Running:  true,
		Progress: Progress{BatchID: id, Total: len(selection)},
	}}
	m.batches[reviewerID] = t
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		report := m.runner.Run(m.baseCtx, Job{
			BatchID:    id,
			ReviewerID: reviewerID,
			Selection:  selection,
			Session:    session,
			Sink:       t,
		})
		t.finish(report)
	}()
	return id, nil
}

// Status returns the last batch of the reviewer
func (m *Manager) Status(reviewerID string) (Status, error) {
	m.mu.Lock()
	t, ok := m.batches[reviewerID]
	m.mu.Unlock()
	if !ok {
		return Status{}, ucerrors.ErrBatchNotFound
	}
	return t.snapshot(), nil
}

// Forget drops the reviewer's batch state. A running batch is dropped as
// soon as it finishes.
func (m *Manager) Forget(reviewerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.batches[reviewerID]
	if !ok {
		return
	}
	if t.snapshot().Running {
		t.forgotten = true
		return
	}
	delete(m.batches, reviewerID)
	if m.logger != nil {
		m.logger.Debug("🧹 Batch state dropped", zap.String("reviewer_id", reviewerID))
	}
}

// Wait blocks until every running batch has finished
func (m *Manager) Wait() {
	m.wg.Wait()
}
