package aggregator

import "feedhub/internal/domain"

// BuildEnvelope shapes a merge result for the caller. Slices are never nil
// so they encode as [] rather than null.
func BuildEnvelope[T domain.Item](r MergeResult[T]) domain.Envelope[T] {
	env := domain.Envelope[T]{
		Posts:      r.Items,
		Pagination: r.Pagination,
	}
	if env.Posts == nil {
		env.Posts = []T{}
	}
	if env.Pagination == nil {
		env.Pagination = []domain.PaginationEntry{}
	}
	return env
}
