package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"feedhub/internal/aggregator"
	"feedhub/internal/domain"
)

type AccountLister interface {
	ListPollable(ctx context.Context, providers []domain.ProviderName) ([]domain.Account, error)
}

type CursorStateStore interface {
	Get(ctx context.Context, accountID string) (*domain.CursorState, error)
	Update(ctx context.Context, state *domain.CursorState) error
}

type PostFetcher interface {
	FetchPosts(ctx context.Context, reqs []aggregator.FetchRequest, limit int) ([]aggregator.AccountItems[domain.Post], error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, post domain.Post) error
	Close() error
}
