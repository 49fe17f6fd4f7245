package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lerwix/taler-site/internal/cache"
	"github.com/Lerwix/taler-site/internal/domain/application"
)

// ListResult is one page of applications plus the total match count.
type ListResult struct {
	Items  []application.Application `json:"items"`
	Total  int                       `json:"total"`
	Cached bool                      `json:"-"`
}

type QueryService struct {
	repo   application.Repository
	cache  cache.Store
	logger *slog.Logger

	queryTimeout time.Duration
	cacheTTL     time.Duration
}

type QueryConfig struct {
	QueryTimeout time.Duration
	CacheTTL     time.Duration
}

func NewQueryService(repo application.Repository, store cache.Store, logger *slog.Logger, cfg QueryConfig) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Second
	}
	return &QueryService{
		repo:         repo,
		cache:        store,
		logger:       logger,
		queryTimeout: cfg.QueryTimeout,
		cacheTTL:     cfg.CacheTTL,
	}
}

// List returns one page plus the total count for the filter. Page and count
// are independent reads and run concurrently. A cache hit is identical to a
// fresh result apart from the Cached flag.
func (s *QueryService) List(ctx context.Context, filter application.Filter, page application.Page) (*ListResult, error) {
	page = page.Normalize()
	key := listKey(filter, page)

	if data, ok := s.cacheGet(ctx, key); ok {
		var result ListResult
		if err := json.Unmarshal(data, &result); err == nil {
			result.Cached = true
			return &result, nil
		}
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	countCh := make(chan int, 1)
	errCh := make(chan error, 1)
	go func() {
		total, err := s.repo.Count(queryCtx, filter)
		if err != nil {
			errCh <- err
			return
		}
		countCh <- total
	}()

	items, err := s.repo.List(queryCtx, filter, page)
	if err != nil {
		return nil, err
	}

	var total int
	select {
	case total = <-countCh:
	case err := <-errCh:
		return nil, err
	case <-queryCtx.Done():
		return nil, queryCtx.Err()
	}

	result := &ListResult{Items: items, Total: total}
	s.cacheSet(ctx, key, result)
	return result, nil
}

// Count returns the number of applications matching the filter.
func (s *QueryService) Count(ctx context.Context, filter application.Filter) (int, error) {
	key := countKey(filter)
	if data, ok := s.cacheGet(ctx, key); ok {
		var total int
		if err := json.Unmarshal(data, &total); err == nil {
			return total, nil
		}
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	total, err := s.repo.Count(queryCtx, filter)
	if err != nil {
		return 0, err
	}
	s.cacheSet(ctx, key, total)
	return total, nil
}

func (s *QueryService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

func (s *QueryService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, data, s.cacheTTL)
}

func listKey(filter application.Filter, page application.Page) string {
	return fmt.Sprintf("list:%s:%s:%d:%d:%s:%s",
		filter.Role, filter.Status, page.Limit, page.Offset, page.Sort, page.Order)
}

func countKey(filter application.Filter) string {
	return fmt.Sprintf("count:%s:%s", filter.Role, filter.Status)
}
