// Package review holds the per-reviewer browsing state: loaded records,
// filter buckets, pagination, the ordered selection and per-record status.
package review

import (
	"fmt"
	"sync"
	"time"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/call-insight/internal/usecase/errors"
)

// EligibilityBucket filters on the "avaliável" badge
type EligibilityBucket string

const (
	BucketAvaliaveis    EligibilityBucket = "avaliaveis"
	BucketNaoAvaliaveis EligibilityBucket = "nao_avaliaveis"
	BucketTodas         EligibilityBucket = "todas"
)

// StatusBucket filters on whether a record already has an evaluation
type StatusBucket string

const (
	StatusPendentes StatusBucket = "pendentes"
	StatusAvaliadas StatusBucket = "avaliadas"
	StatusTodas     StatusBucket = "todas"
)

// Bucket is the pair of filters shown as two toggles in the UI
type Bucket struct {
	Eligibility EligibilityBucket `json:"eligibility"`
	Status      StatusBucket      `json:"status"`
}

// DefaultBucket shows every loaded record
var DefaultBucket = Bucket{Eligibility: BucketTodas, Status: StatusTodas}

// Validate rejects unknown bucket values
func (b Bucket) Validate() error {
	switch b.Eligibility {
	case BucketAvaliaveis, BucketNaoAvaliaveis, BucketTodas:
	default:
		return fmt.Errorf("%w: eligibility %q", ucerrors.ErrInvalidBucket, b.Eligibility)
	}
	switch b.Status {
	case StatusPendentes, StatusAvaliadas, StatusTodas:
	default:
		return fmt.Errorf("%w: status %q", ucerrors.ErrInvalidBucket, b.Status)
	}
	return nil
}

// PageSizes are the only page sizes offered
var PageSizes = []int{25, 50, 100}

// ValidPageSize reports whether size is one of PageSizes
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// RecordStatus is the lifecycle of one record inside a session
type RecordStatus string

const (
	StatusPendente    RecordStatus = "pendente"
	StatusEmAvaliacao RecordStatus = "em_avaliacao"
	StatusAvaliada    RecordStatus = "avaliada"
)

// RecordView is a loaded record annotated for display
type RecordView struct {
	entities.CallRecord
	AgenteDisplay string       `json:"agente_display"`
	Avaliavel     bool         `json:"avaliavel"`
	Avaliada      bool         `json:"avaliada"`
	Selected      bool         `json:"selected"`
	Expanded      bool         `json:"expanded"`
	Status        RecordStatus `json:"status"`
	LastError     string       `json:"last_error,omitempty"`
}

// Page is one page of the filtered view
type Page struct {
	Records    []RecordView `json:"records"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	Total      int          `json:"total"`
	Loaded     int          `json:"loaded"`
	Selected   int          `json:"selected"`
	Bucket     Bucket       `json:"bucket"`
}

// ReviewState is the in-memory session of one reviewer. All methods are
// safe for concurrent use; the batch runner mutates it while the UI polls.
type ReviewState struct {
	ReviewerID string

	mu        sync.Mutex
	filters   repositories.CandidateFilters
	loaded    bool
	records   []entities.CallRecord
	index     map[int64]int
	evaluable map[int64]bool
	bucket    Bucket
	page      int
	pageSize  int
	selected  []int64
	expanded  map[int64]bool
	status    map[int64]RecordStatus
	errs      map[int64]string
	lastError string
	lastSeen  time.Time
}

// NewReviewState creates an empty session
func NewReviewState(reviewerID string, pageSize int) *ReviewState {
	if !ValidPageSize(pageSize) {
		pageSize = PageSizes[0]
	}
	return &ReviewState{
		ReviewerID: reviewerID,
		index:      map[int64]int{},
		evaluable:  map[int64]bool{},
		bucket:     DefaultBucket,
		page:       1,
		pageSize:   pageSize,
		expanded:   map[int64]bool{},
		status:     map[int64]RecordStatus{},
		errs:       map[int64]string{},
		lastSeen:   time.Now(),
	}
}

// SetRecords replaces the loaded records. A change of filters clears the
// selection; reloading with the same filters keeps it.
func (s *ReviewState) SetRecords(filters repositories.CandidateFilters, records []entities.CallRecord, isEvaluable func(string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && !sameFilters(s.filters, filters) {
		s.clearSelectionLocked()
		s.page = 1
	}
	s.filters = filters
	s.loaded = true
	s.records = records
	s.index = make(map[int64]int, len(records))
	s.evaluable = make(map[int64]bool, len(records))
	for i, r := range records {
		s.index[r.TranscriptionID] = i
		s.evaluable[r.TranscriptionID] = isEvaluable(r.Transcricao)
		// a fresh row supersedes a stale local verdict, except mid-evaluation
		if st := s.status[r.TranscriptionID]; st != StatusEmAvaliacao {
			delete(s.status, r.TranscriptionID)
		}
	}

	// ids that disappeared from the store cannot stay selected
	kept := s.selected[:0]
	for _, id := range s.selected {
		if _, ok := s.index[id]; ok {
			kept = append(kept, id)
		}
	}
	s.selected = kept
}

// Filters returns the filters of the loaded view
func (s *ReviewState) Filters() repositories.CandidateFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Loaded reports whether records were loaded at least once
func (s *ReviewState) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// SetBucket switches the filter buckets and clears the selection
func (s *ReviewState) SetBucket(b Bucket) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bucket = b
	s.page = 1
	s.clearSelectionLocked()
	return nil
}

// SetPage moves to page with the given size; the page is clamped to the
// available range
func (s *ReviewState) SetPage(page, pageSize int) error {
	if pageSize == 0 {
		pageSize = s.PageSize()
	}
	if !ValidPageSize(pageSize) {
		return ucerrors.ErrInvalidPageSize
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pageSize = pageSize
	s.page = clamp(page, 1, totalPages(len(s.filteredLocked()), pageSize))
	return nil
}

// PageSize returns the current page size
func (s *ReviewState) PageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageSize
}

// CurrentPage renders the current page of the filtered view
func (s *ReviewState) CurrentPage() Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.filteredLocked()
	pages := totalPages(len(filtered), s.pageSize)
	s.page = clamp(s.page, 1, pages)

	start := (s.page - 1) * s.pageSize
	end := min(start+s.pageSize, len(filtered))

	views := make([]RecordView, 0, end-start)
	for _, r := range filtered[start:end] {
		views = append(views, s.viewLocked(r))
	}
	return Page{
		Records:    views,
		Page:       s.page,
		PageSize:   s.pageSize,
		TotalPages: pages,
		Total:      len(filtered),
		Loaded:     len(s.records),
		Selected:   len(s.selected),
		Bucket:     s.bucket,
	}
}

// Toggle flips the selection of a loaded record and returns the new state
func (s *ReviewState) Toggle(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return false, ucerrors.ErrRecordNotFound
	}
	for i, sel := range s.selected {
		if sel == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return false, nil
		}
	}
	s.selected = append(s.selected, id)
	return true, nil
}

// SelectPage adds every record of the current page to the selection
func (s *ReviewState) SelectPage() int {
	page := s.CurrentPage()

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, r := range page.Records {
		if !s.isSelectedLocked(r.TranscriptionID) {
			s.selected = append(s.selected, r.TranscriptionID)
			added++
		}
	}
	return added
}

// ClearSelection empties the selection
func (s *ReviewState) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSelectionLocked()
}

// Selection returns the selected records in selection order
func (s *ReviewState) Selection() []entities.CallRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.CallRecord, 0, len(s.selected))
	for _, id := range s.selected {
		if i, ok := s.index[id]; ok {
			out = append(out, s.records[i])
		}
	}
	return out
}

// ToggleExpanded flips the expand state of a record's detail panel
func (s *ReviewState) ToggleExpanded(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return false, ucerrors.ErrRecordNotFound
	}
	s.expanded[id] = !s.expanded[id]
	if !s.expanded[id] {
		delete(s.expanded, id)
		return false, nil
	}
	return true, nil
}

// Status returns the lifecycle status of a record
func (s *ReviewState) Status(id int64) RecordStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked(id)
}

// MarkEvaluating enters em_avaliacao from pendente or avaliada
func (s *ReviewState) MarkEvaluating(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statusLocked(id) == StatusEmAvaliacao {
		return fmt.Errorf("record %d is already being evaluated", id)
	}
	s.status[id] = StatusEmAvaliacao
	delete(s.errs, id)
	return nil
}

// MarkEvaluated records a successful upsert
func (s *ReviewState) MarkEvaluated(id int64, insight string, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status[id] = StatusAvaliada
	delete(s.errs, id)
	if i, ok := s.index[id]; ok {
		s.records[i].InsightIA = &insight
		s.records[i].EvaluationIA = &score
	}
}

// MarkFailed returns a record to its previous resting state with the error
func (s *ReviewState) MarkFailed(id int64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.status, id)
	s.errs[id] = msg
	s.lastError = msg
}

// LastError is the most recent per-record failure message
func (s *ReviewState) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Touch marks the session as active
func (s *ReviewState) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *ReviewState) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *ReviewState) statusLocked(id int64) RecordStatus {
	if st, ok := s.status[id]; ok {
		return st
	}
	if i, ok := s.index[id]; ok && s.records[i].IsEvaluated() {
		return StatusAvaliada
	}
	return StatusPendente
}

func (s *ReviewState) filteredLocked() []entities.CallRecord {
	if s.bucket == DefaultBucket {
		return s.records
	}
	out := make([]entities.CallRecord, 0, len(s.records))
	for _, r := range s.records {
		switch s.bucket.Eligibility {
		case BucketAvaliaveis:
			if !s.evaluable[r.TranscriptionID] {
				continue
			}
		case BucketNaoAvaliaveis:
			if s.evaluable[r.TranscriptionID] {
				continue
			}
		}
		switch s.bucket.Status {
		case StatusPendentes:
			if r.IsEvaluated() {
				continue
			}
		case StatusAvaliadas:
			if !r.IsEvaluated() {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func (s *ReviewState) viewLocked(r entities.CallRecord) RecordView {
	return RecordView{
		CallRecord:    r,
		AgenteDisplay: r.AgentDisplay(),
		Avaliavel:     s.evaluable[r.TranscriptionID],
		Avaliada:      r.IsEvaluated(),
		Selected:      s.isSelectedLocked(r.TranscriptionID),
		Expanded:      s.expanded[r.TranscriptionID],
		Status:        s.statusLocked(r.TranscriptionID),
		LastError:     s.errs[r.TranscriptionID],
	}
}

func (s *ReviewState) isSelectedLocked(id int64) bool {
	for _, sel := range s.selected {
		if sel == id {
			return true
		}
	}
	return false
}

func (s *ReviewState) clearSelectionLocked() {
	s.selected = nil
}

func totalPages(n, size int) int {
	if n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sameFilters(a, b repositories.CandidateFilters) bool {
	return fmt.Sprintf("%+v", normalizeFilters(a)) == fmt.Sprintf("%+v", normalizeFilters(b))
}

type filterKey struct {
	Empresa     string
	From, To    string
	Etapas      []string
	Modalidades []string
	Origens     []string
	Tipos       []string
	Agentes     []string
}

func normalizeFilters(f repositories.CandidateFilters) filterKey {
	k := filterKey{
		Empresa:     f.Empresa,
		Etapas:      f.Etapas,
		Modalidades: f.Modalidades,
		Origens:     f.Origens,
		Tipos:       f.Tipos,
		Agentes:     f.Agentes,
	}
	if f.From != nil {
		k.From = f.From.UTC().Format(time.RFC3339)
	}
	if f.To != nil {
		k.To = f.To.UTC().Format(time.RFC3339)
	}
	return k
}
