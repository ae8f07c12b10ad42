package review

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/internal/domain/repositories"
	"github.com/johnquangdev/call-insight/internal/infrastructure/cache"
	ucerrors "github.com/johnquangdev/call-insight/internal/usecase/errors"
)

type fakeRepository struct {
	records []entities.CallRecord
	reads   int
	readErr error
}

func (f *fakeRepository) ReadCandidates(ctx context.Context, filters repositories.CandidateFilters) iter.Seq2[entities.CallRecord, error] {
	f.reads++
	return func(yield func(entities.CallRecord, error) bool) {
		if f.readErr != nil {
			yield(entities.CallRecord{}, f.readErr)
			return
		}
		for _, r := range f.records {
			if filters.Empresa != "" && r.Empresa != filters.Empresa {
				continue
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (f *fakeRepository) UpsertSummary(ctx context.Context, id int64, insight string, score int, createdAt *time.Time) (bool, string) {
	return true, ""
}

func (f *fakeRepository) CountEvaluated(ctx context.Context, filters repositories.CandidateFilters) (int64, error) {
	var n int64
	for _, r := range f.records {
		if r.IsEvaluated() {
			n++
		}
	}
	return n, nil
}

// evaluable marks transcripts starting with "ok" as evaluable
func evaluable(t string) bool { return strings.HasPrefix(t, "ok") }

func makeRecords(n int) []entities.CallRecord {
	out := make([]entities.CallRecord, n)
	insight := `{"classificacao_ligacao":"venda"}`
	for i := range out {
		id := int64(n - i)
		out[i] = entities.CallRecord{TranscriptionID: id, Empresa: "Degrau", LeadName: "lead", Transcricao: "ok dialogue"}
		if id%2 == 0 {
			out[i].Transcricao = "short"
		}
		if id%3 == 0 {
			out[i].InsightIA = &insight
		}
	}
	return out
}

func loadedState(t *testing.T, n int) (*ReviewState, *Service, *fakeRepository) {
	t.Helper()
	repo := &fakeRepository{records: makeRecords(n)}
	svc := NewService(repo, evaluable, nil, NewRegistry(time.Hour, 25, nil), nil)
	state := svc.Sessions().Open("ana")
	if _, err := svc.Load(context.Background(), state, repositories.CandidateFilters{}); err != nil {
		t.Fatalf("load: %v", err)
	}
	return state, svc, repo
}

func TestPaginationIsBounded(t *testing.T) {
	state, _, _ := loadedState(t, 60)

	page := state.CurrentPage()
	if page.Total != 60 || page.TotalPages != 3 || len(page.Records) != 25 || page.Page != 1 {
		t.Fatalf("unexpected first page %+v", page)
	}
	if page.Records[0].TranscriptionID != 60 {
		t.Fatalf("store order must be kept, got %d first", page.Records[0].TranscriptionID)
	}

	if err := state.SetPage(99, 25); err != nil {
		t.Fatalf("set page: %v", err)
	}
	page = state.CurrentPage()
	if page.Page != 3 || len(page.Records) != 10 {
		t.Fatalf("expected last page with 10 records, got page %d with %d", page.Page, len(page.Records))
	}

	if err := state.SetPage(1, 100); err != nil {
		t.Fatalf("set page size: %v", err)
	}
	if page = state.CurrentPage(); page.TotalPages != 1 || len(page.Records) != 60 {
		t.Fatalf("expected single page of 60, got %+v", page.TotalPages)
	}

	if err := state.SetPage(1, 30); !errors.Is(err, ucerrors.ErrInvalidPageSize) {
		t.Fatalf("expected invalid page size, got %v", err)
	}
	if err := state.SetPage(-4, 50); err != nil || state.CurrentPage().Page != 1 {
		t.Fatalf("negative pages clamp to 1")
	}
}

func TestEmptyViewHasOnePage(t *testing.T) {
	state := NewReviewState("x", 25)
	page := state.CurrentPage()
	if page.TotalPages != 1 || page.Page != 1 || len(page.Records) != 0 {
		t.Fatalf("unexpected empty page %+v", page)
	}
}

func TestToggleSelectionKeepsOrder(t *testing.T) {
	state, _, _ := loadedState(t, 10)

	for _, id := range []int64{7, 3, 9} {
		if on, err := state.Toggle(id); err != nil || !on {
			t.Fatalf("toggle %d on: %v %v", id, on, err)
		}
	}
	if on, _ := state.Toggle(3); on {
		t.Fatalf("second toggle must deselect")
	}
	state.Toggle(3)

	sel := state.Selection()
	if len(sel) != 3 || sel[0].TranscriptionID != 7 || sel[1].TranscriptionID != 9 || sel[2].TranscriptionID != 3 {
		t.Fatalf("unexpected selection order %+v", ids(sel))
	}

	if _, err := state.Toggle(999); !errors.Is(err, ucerrors.ErrRecordNotFound) {
		t.Fatalf("unknown ids cannot be selected")
	}
}

func TestSelectionSurvivesPagingButNotFilterChanges(t *testing.T) {
	state, svc, _ := loadedState(t, 60)

	if added := state.SelectPage(); added != 25 {
		t.Fatalf("expected 25 selected, got %d", added)
	}
	state.SetPage(2, 25)
	state.Toggle(30)
	if n := len(state.Selection()); n != 26 {
		t.Fatalf("selection across pages must persist, got %d", n)
	}
	if added := state.SelectPage(); added != 24 {
		t.Fatalf("already selected ids are not added twice, got %d", added)
	}

	if err := state.SetBucket(Bucket{Eligibility: BucketAvaliaveis, Status: StatusTodas}); err != nil {
		t.Fatalf("set bucket: %v", err)
	}
	if len(state.Selection()) != 0 || state.CurrentPage().Page != 1 {
		t.Fatalf("bucket change must clear selection and reset the page")
	}

	state.Toggle(1)
	// same filters: selection kept
	svc.Refresh(context.Background(), state)
	if len(state.Selection()) != 1 {
		t.Fatalf("refresh with the same filters keeps the selection")
	}
	svc.Load(context.Background(), state, repositories.CandidateFilters{Empresa: "Degrau"})
	if len(state.Selection()) != 0 {
		t.Fatalf("new filters must clear the selection")
	}
}

func TestBuckets(t *testing.T) {
	state, _, _ := loadedState(t, 12)

	cases := []struct {
		b    Bucket
		want int
	}{
		{DefaultBucket, 12},
		{Bucket{BucketAvaliaveis, StatusTodas}, 6},
		{Bucket{BucketNaoAvaliaveis, StatusTodas}, 6},
		{Bucket{BucketTodas, StatusAvaliadas}, 4},
		{Bucket{BucketTodas, StatusPendentes}, 8},
		{Bucket{BucketAvaliaveis, StatusAvaliadas}, 2},
	}
	for _, tc := range cases {
		if err := state.SetBucket(tc.b); err != nil {
			t.Fatalf("bucket %+v: %v", tc.b, err)
		}
		page := state.CurrentPage()
		if page.Total != tc.want {
			t.Fatalf("bucket %+v: expected %d got %d", tc.b, tc.want, page.Total)
		}
		for _, r := range page.Records {
			if tc.b.Eligibility == BucketAvaliaveis && !r.Avaliavel {
				t.Fatalf("non evaluable record in avaliaveis bucket")
			}
		}
	}

	if err := state.SetBucket(Bucket{"todos", StatusTodas}); !errors.Is(err, ucerrors.ErrInvalidBucket) {
		t.Fatalf("expected invalid bucket error, got %v", err)
	}
}

func TestRecordStateMachine(t *testing.T) {
	state, _, _ := loadedState(t, 4)

	if st := state.Status(1); st != StatusPendente {
		t.Fatalf("expected pendente got %s", st)
	}
	if err := state.MarkEvaluating(1); err != nil {
		t.Fatalf("mark evaluating: %v", err)
	}
	if err := state.MarkEvaluating(1); err == nil {
		t.Fatalf("cannot enter em_avaliacao twice")
	}
	state.MarkFailed(1, "insert failed")
	if st := state.Status(1); st != StatusPendente {
		t.Fatalf("failure returns to pendente, got %s", st)
	}
	if state.LastError() != "insert failed" || state.CurrentPage().Records[3].LastError != "insert failed" {
		t.Fatalf("last error must be recorded")
	}

	state.MarkEvaluating(1)
	state.MarkEvaluated(1, `{"classificacao_ligacao":"ura"}`, 0)
	if st := state.Status(1); st != StatusAvaliada {
		t.Fatalf("expected avaliada got %s", st)
	}
	if rec := state.CurrentPage().Records[3]; !rec.Avaliada || rec.LastError != "" {
		t.Fatalf("record must show as evaluated without error: %+v", rec)
	}

	// re-evaluation
	if err := state.MarkEvaluating(1); err != nil || state.Status(1) != StatusEmAvaliacao {
		t.Fatalf("re-evaluation must re-enter em_avaliacao")
	}
	state.MarkFailed(1, "timeout")
	if st := state.Status(1); st != StatusAvaliada {
		t.Fatalf("failed re-evaluation keeps the stored evaluation, got %s", st)
	}
}

func TestToggleExpanded(t *testing.T) {
	state, _, _ := loadedState(t, 3)
	if on, _ := state.ToggleExpanded(2); !on {
		t.Fatalf("expected expanded")
	}
	if !state.CurrentPage().Records[1].Expanded {
		t.Fatalf("expanded flag not rendered")
	}
	if on, _ := state.ToggleExpanded(2); on {
		t.Fatalf("expected collapsed")
	}
}

func TestLoadUsesViewCache(t *testing.T) {
	repo := &fakeRepository{records: makeRecords(5)}
	store := cache.NewMemoryStore()
	defer store.Close()
	svc := NewService(repo, evaluable, cache.NewViewCache(store, time.Minute, nil), NewRegistry(time.Hour, 25, nil), nil)
	ctx := context.Background()
	state := svc.Sessions().Open("ana")

	svc.Load(ctx, state, repositories.CandidateFilters{})
	svc.Load(ctx, state, repositories.CandidateFilters{})
	if repo.reads != 1 {
		t.Fatalf("second load must hit the cache, got %d reads", repo.reads)
	}

	svc.InvalidateViews(ctx, "ana")
	svc.Refresh(ctx, state)
	if repo.reads != 2 {
		t.Fatalf("invalidation must force a re-read, got %d reads", repo.reads)
	}
}

func TestLoadPropagatesReadErrors(t *testing.T) {
	repo := &fakeRepository{readErr: errors.New("connection refused")}
	svc := NewService(repo, evaluable, nil, NewRegistry(time.Hour, 25, nil), nil)
	if _, err := svc.Load(context.Background(), svc.Sessions().Open("ana"), repositories.CandidateFilters{}); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestRegistryExpiry(t *testing.T) {
	reg := NewRegistry(time.Hour, 50, nil)
	s := reg.Open("ana")
	if s.PageSize() != 50 {
		t.Fatalf("default page size not applied")
	}
	if got, err := reg.Get("ana"); err != nil || got != s {
		t.Fatalf("expected same session, got %v", err)
	}
	if reg.Open("ana") != s {
		t.Fatalf("open must reuse a live session")
	}
	if _, err := reg.Get("bruno"); !errors.Is(err, ucerrors.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	short := NewRegistry(time.Millisecond, 25, nil)
	short.Open("ana")
	time.Sleep(5 * time.Millisecond)
	if _, err := short.Get("ana"); !errors.Is(err, ucerrors.ErrSessionExpired) {
		t.Fatalf("expected expired session, got %v", err)
	}
	short.Open("bruno")
	time.Sleep(5 * time.Millisecond)
	if n := short.Sweep(); n != 1 || short.Len() != 0 {
		t.Fatalf("sweep should drop 1 session, dropped %d (left %d)", n, short.Len())
	}
}

func TestRegistryEvictionHooks(t *testing.T) {
	reg := NewRegistry(time.Millisecond, 25, nil)
	var evicted []string
	reg.OnEvict(func(id string) { evicted = append(evicted, id) })

	reg.Open("ana")
	reg.Open("bruno")
	time.Sleep(5 * time.Millisecond)

	if _, err := reg.Get("ana"); !errors.Is(err, ucerrors.ErrSessionExpired) {
		t.Fatalf("expected expired session, got %v", err)
	}
	if n := reg.Sweep(); n != 1 {
		t.Fatalf("sweep dropped %d, want 1", n)
	}
	if len(evicted) != 2 || evicted[0] != "ana" || evicted[1] != "bruno" {
		t.Fatalf("evicted = %v", evicted)
	}
}

func ids(recs []entities.CallRecord) []int64 {
	out := make([]int64, len(recs))
	for i, r := range recs {
		out[i] = r.TranscriptionID
	}
	return out
}
