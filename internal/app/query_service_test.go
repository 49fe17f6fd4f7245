package app

import (
	"context"
	"testing"
	"time"

	"github.com/Lerwix/taler-site/internal/cache"
	"github.com/Lerwix/taler-site/internal/domain/application"
)

func TestListCapsLimitAndReturnsTotal(t *testing.T) {
	repo := &fakeRepo{total: 42, listed: []application.Application{{ID: 1, Nickname: "Ann"}}}
	svc := NewQueryService(repo, nil, nil, QueryConfig{})

	result, err := svc.List(context.Background(), application.Filter{}, application.Page{Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastPage.Limit != application.MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", application.MaxLimit, repo.lastPage.Limit)
	}
	if result.Total != 42 {
		t.Fatalf("expected total 42, got %d", result.Total)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(result.Items))
	}
	if result.Cached {
		t.Fatal("fresh result must not be marked cached")
	}
}

func TestListCacheHitSkipsRepository(t *testing.T) {
	repo := &fakeRepo{total: 5, listed: []application.Application{{ID: 1}}}
	store := cache.NewMemoryStore()
	svc := NewQueryService(repo, store, nil, QueryConfig{CacheTTL: time.Minute})

	filter := application.Filter{Role: application.RoleDev}
	page := application.Page{Limit: 10}

	first, err := svc.List(context.Background(), filter, page)
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	second, err := svc.List(context.Background(), filter, page)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if repo.lists != 1 {
		t.Fatalf("expected one repository list call, got %d", repo.lists)
	}
	if !second.Cached {
		t.Fatal("expected cached flag on the second result")
	}
	if second.Total != first.Total || len(second.Items) != len(first.Items) {
		t.Fatal("cached result must match the fresh one")
	}
}

func TestListCacheInvalidatedBySubmission(t *testing.T) {
	repo := &fakeRepo{total: 1, listed: []application.Application{{ID: 1}}}
	store := cache.NewMemoryStore()
	queries := NewQueryService(repo, store, nil, QueryConfig{CacheTTL: time.Minute})
	submissions := NewSubmissionService(repo, NewDedupGuard(time.Minute), store, nil, nil,
		SubmissionConfig{AgeMin: 14, AgeMax: 100})

	if _, err := queries.List(context.Background(), application.Filter{}, application.Page{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := submissions.Submit(context.Background(), validInput()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := queries.List(context.Background(), application.Filter{}, application.Page{}); err != nil {
		t.Fatalf("list after submit: %v", err)
	}
	if repo.lists != 2 {
		t.Fatalf("expected cache miss after submission, repository list calls: %d", repo.lists)
	}
}

func TestCountMatchesListTotal(t *testing.T) {
	repo := &fakeRepo{total: 7}
	svc := NewQueryService(repo, nil, nil, QueryConfig{})

	count, err := svc.Count(context.Background(), application.Filter{Role: application.RoleQA})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	result, err := svc.List(context.Background(), application.Filter{Role: application.RoleQA}, application.Page{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if count != result.Total {
		t.Fatalf("count %d != list total %d", count, result.Total)
	}
}

func TestListPropagatesCountError(t *testing.T) {
	repo := &fakeRepo{countErr: context.DeadlineExceeded}
	svc := NewQueryService(repo, nil, nil, QueryConfig{})

	if _, err := svc.List(context.Background(), application.Filter{}, application.Page{}); err == nil {
		t.Fatal("expected error from count")
	}
}
