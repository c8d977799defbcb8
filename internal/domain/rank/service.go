package rank

import (
	"context"
	"fmt"
)

// Counter abstracts the count query so the rank definition is testable
// without a live store.
type Counter interface {
	CountAbove(ctx context.Context, city, field string, score int64) (int, error)
	TopN(ctx context.Context, city, field string, n int) ([]Entry, error)
}

type Service struct {
	counter Counter
}

func NewService(counter Counter) *Service {
	return &Service{counter: counter}
}

// Rank resolves a participant's standing among city peers for the category:
// the number of peers with a strictly greater score, plus one. Equal scores
// share the same rank and the sequence may have gaps; that is the intended
// trade-off, not a bug.
func (s *Service) Rank(ctx context.Context, city string, category Category, myScore int64) (int, error) {
	if city == "" {
		return 0, fmt.Errorf("%w: city is required", ErrBadRequest)
	}
	if !category.Valid() {
		return 0, fmt.Errorf("%w: unknown category %q", ErrBadRequest, category)
	}

	above, err := s.counter.CountAbove(ctx, city, category.Field(), myScore)
	if err != nil {
		return 0, err
	}
	return above + 1, nil
}

// Leaderboard returns the city's top-N listing for the category.
func (s *Service) Leaderboard(ctx context.Context, city string, category Category, limit int) ([]Entry, error) {
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", ErrBadRequest)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrBadRequest, category)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.counter.TopN(ctx, city, category.Field(), limit)
}
