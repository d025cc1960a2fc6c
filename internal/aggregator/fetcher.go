// Package aggregator fans out to linked accounts, merges what they return
// into one time-ordered feed and derives a resumption cursor per account.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

// DefaultLimit is the per-account page size when the caller gives none.
const DefaultLimit = 30

// FetchRequest names one account and where to resume it. At most one of
// Since and Until is set.
type FetchRequest struct {
	Account domain.Account
	Since   domain.Cursor
	Until   domain.Cursor
}

// AccountItems is the fetched contribution of one account.
type AccountItems[T domain.Item] struct {
	AccountID string
	Provider  domain.ProviderName
	// Since is the cursor the caller supplied, kept for accounts that
	// return nothing.
	Since domain.Cursor
	Items []T
}

// Fetcher issues one adapter call per account, all concurrently.
type Fetcher struct {
	registry Resolver
	logger   *slog.Logger
}

func NewFetcher(registry Resolver, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		registry: registry,
		logger:   logger.With("component", "fetcher"),
	}
}

type fetchFunc[T domain.Item] func(ctx context.Context, req FetchRequest, limit int) ([]T, error)

// FetchPosts returns the timeline page of every account in request order.
// Any adapter failure fails the whole call.
func (f *Fetcher) FetchPosts(ctx context.Context, reqs []FetchRequest, limit int) ([]AccountItems[domain.Post], error) {
	calls := make([]fetchFunc[domain.Post], len(reqs))
	for i, req := range reqs {
		adapter, err := f.registry.Resolve(req.Account.Provider)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", req.Account.ID, err)
		}
		feed, err := provider.Feed(adapter)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", req.Account.ID, err)
		}
		calls[i] = func(ctx context.Context, req FetchRequest, limit int) ([]domain.Post, error) {
			return feed.GetFeed(ctx, req.Account, req.Since, req.Until, limit)
		}
	}
	return fetchAll(ctx, f.logger, reqs, calls, limit)
}

// FetchNotifications is FetchPosts for notifications. Only since cursors
// apply.
func (f *Fetcher) FetchNotifications(ctx context.Context, reqs []FetchRequest, limit int) ([]AccountItems[domain.Notification], error) {
	calls := make([]fetchFunc[domain.Notification], len(reqs))
	for i, req := range reqs {
		adapter, err := f.registry.Resolve(req.Account.Provider)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", req.Account.ID, err)
		}
		notifications, err := provider.Notifications(adapter)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", req.Account.ID, err)
		}
		calls[i] = func(ctx context.Context, req FetchRequest, limit int) ([]domain.Notification, error) {
			return notifications.GetNotifications(ctx, req.Account, req.Since, limit)
		}
	}
	return fetchAll(ctx, f.logger, reqs, calls, limit)
}

// fetchAll runs calls[i](reqs[i]) concurrently. The group carries no derived
// context, so a failure does not cancel the others; every call is awaited
// and the first error is returned.
func fetchAll[T domain.Item](ctx context.Context, logger *slog.Logger, reqs []FetchRequest, calls []fetchFunc[T], limit int) ([]AccountItems[T], error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	out := make([]AccountItems[T], len(reqs))
	var g errgroup.Group
	for i, req := range reqs {
		call := calls[i]
		g.Go(func() error {
			items, err := call(ctx, req, limit)
			if err != nil {
				logger.Warn("account fetch failed",
					"account_id", req.Account.ID,
					"provider", req.Account.Provider,
					"error", err,
				)
				return fmt.Errorf("account %s (%s): %w", req.Account.ID, req.Account.Provider, err)
			}
			out[i] = AccountItems[T]{
				AccountID: req.Account.ID,
				Provider:  req.Account.Provider,
				Since:     req.Since,
				Items:     items,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("fetched accounts", "accounts", len(reqs), "limit", limit)
	return out, nil
}
