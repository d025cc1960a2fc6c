package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// makePosts builds n posts for accountID, newest first, step apart,
// starting at newest. A post's cursor is its own ID.
func makePosts(accountID string, n int, newest time.Time, step time.Duration) []domain.Post {
	posts := make([]domain.Post, n)
	for i := range n {
		id := fmt.Sprintf("%s-%02d", accountID, i)
		posts[i] = domain.Post{
			ID:         id,
			AccountID:  accountID,
			Provider:   "fake",
			CreatedAt:  newest.Add(-time.Duration(i) * step),
			Content:    json.RawMessage(`{}`),
			Pagination: domain.ItemPagination{Since: id},
		}
	}
	return posts
}

type fakeCall struct {
	AccountID string
	Since     string
	Until     string
	Limit     int
}

// fakeFeed serves canned timelines. since returns the items closest above
// the cursor, until the items strictly below it.
type fakeFeed struct {
	name domain.ProviderName

	mu     sync.Mutex
	posts  map[string][]domain.Post
	errs   map[string]error
	delays map[string]time.Duration
	calls  []fakeCall
	done   int
}

func newFakeFeed(name domain.ProviderName) *fakeFeed {
	return &fakeFeed{
		name:   name,
		posts:  map[string][]domain.Post{},
		errs:   map[string]error{},
		delays: map[string]time.Duration{},
	}
}

func (f *fakeFeed) Name() domain.ProviderName { return f.name }

func (f *fakeFeed) FormatProvider(acc domain.Account) domain.PublicAccount {
	return domain.PublicAccount{ID: acc.ID, Provider: f.name, ExternalID: acc.ExternalID, Rank: acc.Rank}
}

func (f *fakeFeed) GetFeed(ctx context.Context, acc domain.Account, since, until domain.Cursor, limit int) ([]domain.Post, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{AccountID: acc.ID, Since: since, Until: until, Limit: limit})
	delay := f.delays[acc.ID]
	err := f.errs[acc.ID]
	all := f.posts[acc.ID]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	defer func() {
		f.mu.Lock()
		f.done++
		f.mu.Unlock()
	}()
	if err != nil {
		return nil, err
	}

	find := func(c domain.Cursor) (int, error) {
		idx := slices.IndexFunc(all, func(p domain.Post) bool { return p.ID == c })
		if idx < 0 {
			return 0, provider.MalformedCursor(string(f.name), c, nil)
		}
		return idx, nil
	}

	var window []domain.Post
	switch {
	case since != "":
		idx, err := find(since)
		if err != nil {
			return nil, err
		}
		window = all[:idx]
		if len(window) > limit {
			window = window[len(window)-limit:]
		}
	case until != "":
		idx, err := find(until)
		if err != nil {
			return nil, err
		}
		window = all[idx+1:]
		if len(window) > limit {
			window = window[:limit]
		}
	default:
		window = all
		if len(window) > limit {
			window = window[:limit]
		}
	}
	return slices.Clone(window), nil
}

func (f *fakeFeed) GetPost(_ context.Context, acc domain.Account, postID string) (domain.Post, error) {
	for _, p := range f.posts[acc.ID] {
		if p.ID == postID {
			return p, nil
		}
	}
	return domain.Post{}, provider.ErrNotFound
}

func (f *fakeFeed) GetPostComments(_ context.Context, acc domain.Account, postID string, q provider.CommentsQuery) (domain.Comments, error) {
	return domain.Comments{ProviderID: acc.ID, PostID: postID, PostLink: "viewer:" + q.ViewerID}, nil
}

func (f *fakeFeed) callsFor(accountID string) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, c := range f.calls {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out
}

// fakeSocial adds notifications, actions and auth to fakeFeed.
type fakeSocial struct {
	*fakeFeed
	notifications map[string][]domain.Notification
}

func (f *fakeSocial) GetNotifications(_ context.Context, acc domain.Account, since domain.Cursor, limit int) ([]domain.Notification, error) {
	all := f.notifications[acc.ID]
	if since != "" {
		idx := slices.IndexFunc(all, func(n domain.Notification) bool { return n.ID == since })
		if idx < 0 {
			return nil, provider.MalformedCursor(string(f.name), since, nil)
		}
		all = all[:idx]
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeSocial) Actions() []string { return []string{"like"} }

func (f *fakeSocial) DoAction(_ context.Context, acc domain.Account, action string, payload json.RawMessage) (any, error) {
	if action != "like" {
		return nil, provider.UnsupportedAction(string(f.name), action)
	}
	return map[string]string{"account": acc.ID, "payload": string(payload)}, nil
}

func (f *fakeSocial) GetRequestToken(_ context.Context, state string) (provider.RequestToken, error) {
	return provider.RequestToken{AuthURL: "https://auth.example/?state=" + state, State: state}, nil
}

func (f *fakeSocial) HandleCallback(_ context.Context, p provider.CallbackPayload) ([]domain.DiscoveredAccount, error) {
	return []domain.DiscoveredAccount{{Provider: f.name, ExternalID: "ext-" + p.Code}}, nil
}

func (f *fakeSocial) GetProfile(_ context.Context, acc domain.Account) (domain.Profile, error) {
	return domain.Profile{ExternalID: acc.ExternalID, DisplayName: "name of " + acc.ID}, nil
}

func (f *fakeSocial) OnProcessProfiles(_ context.Context, in []domain.DiscoveredAccount) ([]domain.DiscoveredAccount, error) {
	return in, nil
}

func makeNotifications(accountID string, n int, newest time.Time, step time.Duration) []domain.Notification {
	out := make([]domain.Notification, n)
	for i := range n {
		id := fmt.Sprintf("%s-n%02d", accountID, i)
		out[i] = domain.Notification{
			ID:         id,
			AccountID:  accountID,
			Kind:       "mention",
			CreatedAt:  newest.Add(-time.Duration(i) * step),
			Pagination: domain.ItemPagination{Since: id},
		}
	}
	return out
}

func registryOf(adapters ...provider.Adapter) *provider.Registry {
	table := make(map[domain.ProviderName]provider.Factory, len(adapters))
	for _, a := range adapters {
		table[a.Name()] = func() provider.Adapter { return a }
	}
	return provider.NewRegistry(table)
}

func account(id string, name domain.ProviderName) domain.Account {
	return domain.Account{ID: id, UserID: "user-1", Provider: name, ExternalID: "ext-" + id}
}

// timedFeed pages with "<RFC3339Nano>|<id>" cursors the way the RSS and
// LinkedIn adapters do, so several posts may share a timestamp.
type timedFeed struct {
	*fakeFeed
}

func newTimedFeed() *timedFeed {
	return &timedFeed{fakeFeed: newFakeFeed("timed")}
}

func timedPost(accountID, id string, at time.Time) domain.Post {
	return domain.Post{
		ID:         id,
		AccountID:  accountID,
		Provider:   "timed",
		CreatedAt:  at,
		Content:    json.RawMessage(`{}`),
		Pagination: domain.ItemPagination{Since: provider.JoinCursor(at.Format(time.RFC3339Nano), id)},
	}
}

func (f *timedFeed) GetFeed(_ context.Context, acc domain.Account, since, until domain.Cursor, limit int) ([]domain.Post, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{AccountID: acc.ID, Since: since, Until: until, Limit: limit})
	all := slices.Clone(f.posts[acc.ID])
	f.mu.Unlock()

	type bound struct {
		at time.Time
		id string
	}
	parse := func(c domain.Cursor) (bound, error) {
		key, id := provider.SplitCursor(c)
		at, err := time.Parse(time.RFC3339Nano, key)
		if err != nil {
			return bound{}, provider.MalformedCursor(string(f.name), c, err)
		}
		return bound{at: at, id: id}, nil
	}

	var lower, upper bound
	var err error
	if since != "" {
		if lower, err = parse(since); err != nil {
			return nil, err
		}
	}
	if until != "" {
		if upper, err = parse(until); err != nil {
			return nil, err
		}
	}

	slices.SortStableFunc(all, func(x, y domain.Post) int {
		return provider.CompareNewestFirst(x.CreatedAt.Compare(y.CreatedAt), x.ID, y.ID)
	})
	var window []domain.Post
	for _, p := range all {
		if since != "" && !provider.NewerThanCursor(p.CreatedAt.Compare(lower.at), p.ID, lower.id) {
			continue
		}
		if until != "" && !provider.OlderThanCursor(p.CreatedAt.Compare(upper.at), p.ID, upper.id) {
			continue
		}
		window = append(window, p)
	}
	if len(window) > limit {
		if since != "" {
			window = window[len(window)-limit:]
		} else {
			window = window[:limit]
		}
	}
	return window, nil
}
