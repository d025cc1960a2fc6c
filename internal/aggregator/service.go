package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

// UniformRequest asks for the most recent page of several accounts.
type UniformRequest struct {
	Providers []string
	Amount    int
}

// CursorRequest resumes one account from a previous answer.
type CursorRequest struct {
	ProviderID string
	Since      domain.Cursor
	Until      domain.Cursor
}

// ProviderInfo describes a configured provider.
type ProviderInfo struct {
	Name         domain.ProviderName   `json:"name"`
	Capabilities []provider.Capability `json:"capabilities"`
	Actions      []string              `json:"actions,omitempty"`
}

// Service answers feed requests on behalf of one user at a time.
type Service struct {
	accounts AccountStore
	registry Resolver
	fetcher  *Fetcher
	pageSize int
	logger   *slog.Logger
}

func NewService(accounts AccountStore, registry Resolver, pageSize int, logger *slog.Logger) *Service {
	if pageSize <= 0 {
		pageSize = DefaultLimit
	}
	return &Service{
		accounts: accounts,
		registry: registry,
		fetcher:  NewFetcher(registry, logger),
		pageSize: pageSize,
		logger:   logger.With("component", "aggregator"),
	}
}

// Uniform fetches every listed account from now and applies the cut-off.
func (s *Service) Uniform(ctx context.Context, userID string, req UniformRequest) (domain.Envelope[domain.Post], error) {
	accounts, err := s.resolveAccounts(ctx, userID, req.Providers)
	if err != nil {
		return domain.Envelope[domain.Post]{}, err
	}

	reqs := make([]FetchRequest, len(accounts))
	for i, acc := range accounts {
		reqs[i] = FetchRequest{Account: acc}
	}

	return s.posts(ctx, reqs, s.limit(req.Amount), MergeOptions{CutOff: true})
}

// Older continues each account strictly before its until cursor. An empty
// cursor means no bound.
func (s *Service) Older(ctx context.Context, userID string, objects []CursorRequest) (domain.Envelope[domain.Post], error) {
	reqs, err := s.cursorRequests(ctx, userID, objects, func(o CursorRequest) FetchRequest {
		return FetchRequest{Until: o.Until}
	})
	if err != nil {
		return domain.Envelope[domain.Post]{}, err
	}
	return s.posts(ctx, reqs, s.pageSize, MergeOptions{})
}

// Newer continues each account strictly after its since cursor. An empty
// cursor means the account has no prior state and is read from now.
func (s *Service) Newer(ctx context.Context, userID string, objects []CursorRequest) (domain.Envelope[domain.Post], error) {
	reqs, err := s.cursorRequests(ctx, userID, objects, func(o CursorRequest) FetchRequest {
		return FetchRequest{Since: o.Since}
	})
	if err != nil {
		return domain.Envelope[domain.Post]{}, err
	}
	return s.posts(ctx, reqs, s.pageSize, MergeOptions{})
}

// Notifications merges the notifications of several accounts, newest first.
func (s *Service) Notifications(ctx context.Context, userID string, objects []CursorRequest, limit int) (domain.Envelope[domain.Notification], error) {
	reqs, err := s.cursorRequests(ctx, userID, objects, func(o CursorRequest) FetchRequest {
		return FetchRequest{Since: o.Since}
	})
	if err != nil {
		return domain.Envelope[domain.Notification]{}, err
	}

	sets, err := s.fetcher.FetchNotifications(ctx, reqs, s.limit(limit))
	if err != nil {
		return domain.Envelope[domain.Notification]{}, err
	}
	return BuildEnvelope(Merge(sets, MergeOptions{})), nil
}

// Accounts lists the user's linked accounts without credentials, by rank.
func (s *Service) Accounts(ctx context.Context, userID string) ([]domain.PublicAccount, error) {
	accounts, err := s.accounts.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	out := make([]domain.PublicAccount, 0, len(accounts))
	for _, acc := range accounts {
		adapter, err := s.registry.Resolve(acc.Provider)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", acc.ID, err)
		}
		out = append(out, adapter.FormatProvider(acc))
	}
	return out, nil
}

// Providers describes every configured provider.
func (s *Service) Providers() ([]ProviderInfo, error) {
	names := s.registry.Names()
	out := make([]ProviderInfo, 0, len(names))
	for _, name := range names {
		adapter, err := s.registry.Resolve(name)
		if err != nil {
			return nil, err
		}
		info := ProviderInfo{Name: name, Capabilities: provider.Capabilities(adapter)}
		if actions, err := provider.Actions(adapter); err == nil {
			info.Actions = actions.Actions()
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *Service) Post(ctx context.Context, userID, accountID, postID string) (domain.Post, error) {
	acc, adapter, err := s.account(ctx, userID, accountID)
	if err != nil {
		return domain.Post{}, err
	}
	feed, err := provider.Feed(adapter)
	if err != nil {
		return domain.Post{}, err
	}
	return feed.GetPost(ctx, acc, postID)
}

func (s *Service) PostComments(ctx context.Context, userID, accountID, postID string, q provider.CommentsQuery) (domain.Comments, error) {
	acc, adapter, err := s.account(ctx, userID, accountID)
	if err != nil {
		return domain.Comments{}, err
	}
	feed, err := provider.Feed(adapter)
	if err != nil {
		return domain.Comments{}, err
	}
	if q.ViewerID == "" {
		q.ViewerID = acc.ExternalID
	}
	return feed.GetPostComments(ctx, acc, postID, q)
}

func (s *Service) Action(ctx context.Context, userID, accountID, action string, payload json.RawMessage) (any, error) {
	acc, adapter, err := s.account(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	actions, err := provider.Actions(adapter)
	if err != nil {
		return nil, err
	}

	s.logger.Info("dispatching action",
		"account_id", acc.ID,
		"provider", acc.Provider,
		"action", action,
	)
	return actions.DoAction(ctx, acc, action, payload)
}

func (s *Service) Pages(ctx context.Context, userID, accountID string) ([]domain.Page, error) {
	acc, adapter, err := s.account(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	pages, err := provider.Pages(adapter)
	if err != nil {
		return nil, err
	}
	return pages.GetPages(ctx, acc)
}

// Profile reads the provider-side profile of a linked account.
func (s *Service) Profile(ctx context.Context, userID, accountID string) (domain.Profile, error) {
	acc, adapter, err := s.account(ctx, userID, accountID)
	if err != nil {
		return domain.Profile{}, err
	}
	auth, err := provider.Auth(adapter)
	if err != nil {
		return domain.Profile{}, err
	}
	return auth.GetProfile(ctx, acc)
}

// AuthURL starts an auth flow. A random state is generated when none is given.
func (s *Service) AuthURL(ctx context.Context, name domain.ProviderName, state string) (provider.RequestToken, error) {
	auth, err := s.auth(name)
	if err != nil {
		return provider.RequestToken{}, err
	}
	if state == "" {
		state = uuid.NewString()
	}
	return auth.GetRequestToken(ctx, state)
}

// Callback completes an auth flow and returns the accounts it discovered.
// Storing them is left to the account owner.
func (s *Service) Callback(ctx context.Context, name domain.ProviderName, payload provider.CallbackPayload) ([]domain.DiscoveredAccount, error) {
	auth, err := s.auth(name)
	if err != nil {
		return nil, err
	}
	found, err := auth.HandleCallback(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("auth callback handled", "provider", name, "accounts", len(found))
	return found, nil
}

func (s *Service) auth(name domain.ProviderName) (provider.AuthProvider, error) {
	adapter, err := s.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	return provider.Auth(adapter)
}

func (s *Service) posts(ctx context.Context, reqs []FetchRequest, limit int, opts MergeOptions) (domain.Envelope[domain.Post], error) {
	sets, err := s.fetcher.FetchPosts(ctx, reqs, limit)
	if err != nil {
		return domain.Envelope[domain.Post]{}, err
	}

	res := Merge(sets, opts)
	s.logger.Debug("merged feed",
		"accounts", len(sets),
		"posts", len(res.Items),
		"cut_off", opts.CutOff,
	)
	return BuildEnvelope(res), nil
}

func (s *Service) cursorRequests(ctx context.Context, userID string, objects []CursorRequest, build func(CursorRequest) FetchRequest) ([]FetchRequest, error) {
	ids := make([]string, len(objects))
	for i, o := range objects {
		ids[i] = o.ProviderID
	}

	accounts, err := s.resolveAccounts(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.ID] = acc
	}

	// An exact repeat collapses into the first entry. A repeat with other
	// cursors is ambiguous and rejected.
	seen := make(map[string]CursorRequest, len(objects))
	reqs := make([]FetchRequest, 0, len(objects))
	for _, o := range objects {
		if prev, ok := seen[o.ProviderID]; ok {
			if prev != o {
				return nil, fmt.Errorf("account %s listed with conflicting cursors: %w", o.ProviderID, domain.ErrInvalidRequest)
			}
			continue
		}
		seen[o.ProviderID] = o
		req := build(o)
		req.Account = byID[o.ProviderID]
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// resolveAccounts loads the named accounts of userID in the given order,
// dropping repeats. Any unknown or foreign ID fails the whole request.
func (s *Service) resolveAccounts(ctx context.Context, userID string, ids []string) ([]domain.Account, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no accounts requested: %w", domain.ErrInvalidRequest)
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("empty account id: %w", domain.ErrInvalidRequest)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	found, err := s.accounts.FindForUser(ctx, userID, unique)
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	byID := make(map[string]domain.Account, len(found))
	for _, acc := range found {
		if acc.UserID == userID {
			byID[acc.ID] = acc
		}
	}

	out := make([]domain.Account, 0, len(unique))
	for _, id := range unique {
		acc, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("account %s: %w", id, domain.ErrProviderNotFound)
		}
		out = append(out, acc)
	}
	return out, nil
}

func (s *Service) account(ctx context.Context, userID, accountID string) (domain.Account, provider.Adapter, error) {
	accounts, err := s.resolveAccounts(ctx, userID, []string{accountID})
	if err != nil {
		return domain.Account{}, nil, err
	}
	acc := accounts[0]
	adapter, err := s.registry.Resolve(acc.Provider)
	if err != nil {
		return domain.Account{}, nil, err
	}
	return acc, adapter, nil
}

func (s *Service) limit(amount int) int {
	if amount > 0 {
		return amount
	}
	return s.pageSize
}
