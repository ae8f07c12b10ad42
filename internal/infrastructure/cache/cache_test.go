package cache

import (
	"context"
	"testing"
	"time"
)

type filters struct {
	Empresa string   `json:"empresa"`
	Etapas  []string `json:"etapas"`
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, "a", "1", time.Minute)
	s.Set(ctx, "b", "2", -time.Second)

	if v, ok, _ := s.Get(ctx, "a"); !ok || v != "1" {
		t.Fatalf("expected a=1 got %q %v", v, ok)
	}
	if _, ok, _ := s.Get(ctx, "b"); ok {
		t.Fatalf("expired entry must not be returned")
	}

	s.Delete(ctx, "a")
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatalf("deleted entry returned")
	}
}

func TestViewCacheRoundTripAndInvalidate(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()
	vc := NewViewCache(store, time.Minute, nil)

	f1 := filters{Empresa: "Degrau"}
	f2 := filters{Empresa: "Degrau", Etapas: []string{"Negociação"}}
	vc.Save(ctx, "ana", f1, []int64{3, 2, 1})
	vc.Save(ctx, "ana", f2, []int64{2})
	vc.Save(ctx, "bruno", f1, []int64{9})

	var got []int64
	if !vc.Load(ctx, "ana", f1, &got) || len(got) != 3 || got[0] != 3 {
		t.Fatalf("expected cached view got %v", got)
	}
	if vc.Load(ctx, "ana", filters{Empresa: "Outra"}, &got) {
		t.Fatalf("different filters must miss")
	}

	vc.Invalidate(ctx, "ana")
	if vc.Load(ctx, "ana", f1, &got) || vc.Load(ctx, "ana", f2, &got) {
		t.Fatalf("reviewer views must be invalidated")
	}
	if !vc.Load(ctx, "bruno", f1, &got) || got[0] != 9 {
		t.Fatalf("other reviewers must keep their views")
	}
}

func TestRedisStoreSatisfiesStore(t *testing.T) {
	var _ Store = (*RedisStore)(nil)
	var _ Store = (*MemoryStore)(nil)
}
