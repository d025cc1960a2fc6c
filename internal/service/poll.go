package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"feedhub/internal/aggregator"
	"feedhub/internal/config"
	"feedhub/internal/domain"
)

// PollService reads everything new on every pollable account since the
// previous run and publishes it.
type PollService struct {
	accounts  AccountLister
	cursors   CursorStateStore
	fetcher   PostFetcher
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
	config    config.PollConfig
}

func NewPollService(
	accounts AccountLister,
	cursors CursorStateStore,
	fetcher PostFetcher,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.PollConfig,
) *PollService {
	return &PollService{
		accounts:  accounts,
		cursors:   cursors,
		fetcher:   fetcher,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With("component", "poller"),
		config:    cfg,
	}
}

// Poll runs one incremental pass. A failing account fails the whole pass
// and no cursor moves. When publishing fails for an account, its cursor
// moves only up to the last post published before the failure, so the next
// pass resumes with the first unpublished post.
func (s *PollService) Poll(ctx context.Context) (*domain.PollStats, error) {
	startTime := time.Now()
	s.logger.Info("starting poll",
		"providers", s.config.Providers,
		"page_size", s.config.PageSize,
	)

	accounts, err := s.accounts.ListPollable(ctx, s.config.Providers)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	stats := &domain.PollStats{Accounts: len(accounts)}
	if len(accounts) == 0 {
		stats.Duration = time.Since(startTime)
		s.logger.Info("no accounts to poll")
		return stats, nil
	}

	states := make(map[string]*domain.CursorState, len(accounts))
	reqs := make([]aggregator.FetchRequest, len(accounts))
	for i, acc := range accounts {
		state, err := s.cursors.Get(ctx, acc.ID)
		if err != nil {
			return nil, fmt.Errorf("get cursor of %s: %w", acc.ID, err)
		}
		states[acc.ID] = state
		reqs[i] = aggregator.FetchRequest{Account: acc, Since: state.Since}
	}

	sets, err := s.fetcher.FetchPosts(ctx, reqs, s.config.PageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	merged := aggregator.Merge(sets, aggregator.MergeOptions{})
	stats.Fetched = len(merged.Items)
	s.logger.Info("fetched new posts", "count", stats.Fetched)

	failed := make(map[string]bool)
	fetched := make(map[string]int)
	published := make(map[string]int)
	lastPublished := make(map[string]domain.Cursor)
	// oldest first so consumers see each account in order
	for _, post := range slices.Backward(merged.Items) {
		fetched[post.AccountID]++
		if failed[post.AccountID] {
			continue
		}
		if s.publisher == nil {
			continue
		}
		if err := s.publisher.Publish(ctx, post); err != nil {
			s.logger.Warn("publish failed", "account_id", post.AccountID, "post_id", post.ID, "error", err)
			failed[post.AccountID] = true
			stats.Errors++
			continue
		}
		published[post.AccountID]++
		lastPublished[post.AccountID] = post.SinceCursor()
		stats.Published++
	}

	now := time.Now()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, entry := range merged.Pagination {
			since, polled := entry.Since, fetched[entry.ProviderID]
			if failed[entry.ProviderID] {
				last, ok := lastPublished[entry.ProviderID]
				if !ok {
					continue
				}
				since, polled = last, published[entry.ProviderID]
			}
			state := states[entry.ProviderID]
			state.AccountID = entry.ProviderID
			state.Since = since
			state.LastPolledAt = now
			state.TotalPolled += int64(polled)
			if err := s.cursors.Update(txCtx, state); err != nil {
				return fmt.Errorf("update cursor of %s: %w", entry.ProviderID, err)
			}
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("save cursors: %w", err)
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("poll completed",
		"accounts", stats.Accounts,
		"fetched", stats.Fetched,
		"published", stats.Published,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}
