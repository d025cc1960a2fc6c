package aggregator

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

// AccountStore reads linked accounts. Accounts are owned by another
// service; this package never writes them.
type AccountStore interface {
	FindForUser(ctx context.Context, userID string, ids []string) ([]domain.Account, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Account, error)
}

type Resolver interface {
	Resolve(name domain.ProviderName) (provider.Adapter, error)
	Names() []domain.ProviderName
}
