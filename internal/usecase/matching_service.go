package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/roomstyler/backend/internal/domain"
	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Concurrency   int
	SearchTimeout time.Duration
}

// MatchingService turns a list of queries into product candidates, one result
// list per query in input order
type MatchingService struct {
	searcher      domain.ProductSearcher
	concurrency   int
	searchTimeout time.Duration
}

// NewMatchingService creates a new matching service
func NewMatchingService(searcher domain.ProductSearcher, config MatchConfig) *MatchingService {
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	searchTimeout := config.SearchTimeout
	if searchTimeout <= 0 {
		searchTimeout = 20 * time.Second
	}

	return &MatchingService{
		searcher:      searcher,
		concurrency:   concurrency,
		searchTimeout: searchTimeout,
	}
}

// MatchAll searches every query and returns the outcome in input order.
// A failing query never fails the batch; it is logged and recorded with no
// results. limit > 0 keeps at most limit candidates per query.
func (s *MatchingService) MatchAll(ctx context.Context, queries []string, limit int) (domain.SearchOutcome, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrInvalidInput)
	}

	outcome := make(domain.SearchOutcome, len(queries))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, query := range queries {
		g.Go(func() error {
			outcome[i] = domain.ItemResults{
				Item:    query,
				Results: s.matchOne(ctx, query, limit),
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcome, nil
}

// MatchItems derives one query per furniture item and matches them
func (s *MatchingService) MatchItems(ctx context.Context, items []domain.FurnitureItem, limit int) (domain.SearchOutcome, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one furniture item is required", domain.ErrInvalidInput)
	}

	queries := make([]string, len(items))
	for i, item := range items {
		queries[i] = BuildQuery(item)
	}
	return s.MatchAll(ctx, queries, limit)
}

func (s *MatchingService) matchOne(ctx context.Context, query string, limit int) []domain.ProductCandidate {
	logger := logx.WithContext(ctx)

	normalized := NormalizeQuery(query)
	if normalized == "" {
		logger.Errorf("[Matcher] Skipping blank query: %v", domain.ErrInvalidInput)
		return []domain.ProductCandidate{}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()

	start := time.Now()
	results, err := s.searcher.Search(callCtx, normalized)
	if err != nil {
		logger.Errorf("[Matcher] Search for %q failed after %v: %v", normalized, time.Since(start), err)
		return []domain.ProductCandidate{}
	}

	logger.Debugf("[Matcher] %q returned %d candidates in %v", normalized, len(results), time.Since(start))
	return truncate(results, limit)
}

// truncate returns at most limit candidates in a slice not shared with the
// provider result
func truncate(results []domain.ProductCandidate, limit int) []domain.ProductCandidate {
	n := len(results)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]domain.ProductCandidate, n)
	copy(out, results[:n])
	return out
}
