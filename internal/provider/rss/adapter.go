// Package rss adapts plain RSS and Atom feeds. A cursor is the item's
// RFC 3339 timestamp joined with its GUID, since feeds often publish several
// items at the same instant. The whole document is fetched on every call and
// filtered locally.
package rss

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

const (
	Name             = domain.ProviderRSS
	DefaultUserAgent = "Mozilla/5.0 (compatible; feedhub/1.0)"

	maxLimit = 100
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s{3,}`)
)

type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Adapter implements the feed capability only.
type Adapter struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Adapter {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	fp := gofeed.NewParser()
	fp.Client = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &rssTransport{base: http.DefaultTransport, userAgent: cfg.UserAgent},
	}
	return &Adapter{
		parser: fp,
		logger: logger.With("provider", string(Name)),
	}
}

// rssTransport injects a User-Agent header into every request.
type rssTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *rssTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// credentials is what a linked feed stores. Feeds need no secret, only
// the document location.
type credentials struct {
	FeedURL string `json:"feed_url"`
	Title   string `json:"title,omitempty"`
}

type postContent struct {
	Title  string   `json:"title"`
	Text   string   `json:"text"`
	URL    string   `json:"url"`
	Author string   `json:"author,omitempty"`
	Feed   string   `json:"feed"`
	Tags   []string `json:"tags,omitempty"`
	Image  string   `json:"image,omitempty"`
}

func (a *Adapter) Name() domain.ProviderName {
	return Name
}

func (a *Adapter) FormatProvider(acc domain.Account) domain.PublicAccount {
	pub := domain.PublicAccount{
		ID:         acc.ID,
		Provider:   acc.Provider,
		ExternalID: acc.ExternalID,
		Rank:       acc.Rank,
	}
	creds, err := decodeCredentials(acc)
	if err != nil {
		return pub
	}
	pub.DisplayName = creds.Title
	if pub.DisplayName == "" {
		pub.DisplayName = creds.FeedURL
	}
	pub.ProfileURL = creds.FeedURL
	return pub
}

// GetFeed keeps items strictly newer than since or strictly older than
// until, newest first, at most limit of them. Items sharing a timestamp are
// ordered by ID.
func (a *Adapter) GetFeed(ctx context.Context, acc domain.Account, since, until domain.Cursor, limit int) ([]domain.Post, error) {
	var lower, upper position
	var err error
	if since != "" {
		if lower, err = parseCursor(since); err != nil {
			return nil, err
		}
	}
	if until != "" {
		if upper, err = parseCursor(until); err != nil {
			return nil, err
		}
	}

	creds, feed, err := a.fetch(ctx, acc)
	if err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		published := itemPublishedTime(item)
		if published.IsZero() {
			continue
		}
		id := itemID(item)
		if !lower.at.IsZero() && !provider.NewerThanCursor(published.Compare(lower.at), id, lower.id) {
			continue
		}
		if !upper.at.IsZero() && !provider.OlderThanCursor(published.Compare(upper.at), id, upper.id) {
			continue
		}
		post, err := toPost(acc, creds, feed, item)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	slices.SortStableFunc(posts, func(x, y domain.Post) int {
		return provider.CompareNewestFirst(x.CreatedAt.Compare(y.CreatedAt), x.ID, y.ID)
	})
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}

	a.logger.Debug("fetched feed",
		"account_id", acc.ID,
		"feed_url", creds.FeedURL,
		"items", len(feed.Items),
		"count", len(posts),
	)

	return posts, nil
}

func (a *Adapter) GetPost(ctx context.Context, acc domain.Account, postID string) (domain.Post, error) {
	creds, feed, err := a.fetch(ctx, acc)
	if err != nil {
		return domain.Post{}, err
	}
	item := findItem(feed, postID)
	if item == nil {
		return domain.Post{}, fmt.Errorf("rss: item %q: %w", postID, provider.ErrNotFound)
	}
	return toPost(acc, creds, feed, item)
}

// GetPostComments always returns an empty page. Feeds carry no replies.
func (a *Adapter) GetPostComments(ctx context.Context, acc domain.Account, postID string, _ provider.CommentsQuery) (domain.Comments, error) {
	_, feed, err := a.fetch(ctx, acc)
	if err != nil {
		return domain.Comments{}, err
	}
	item := findItem(feed, postID)
	if item == nil {
		return domain.Comments{}, fmt.Errorf("rss: item %q: %w", postID, provider.ErrNotFound)
	}
	return domain.Comments{
		ProviderID:     acc.ID,
		PostID:         postID,
		Comments:       []domain.Comment{},
		ParentComments: []domain.Comment{},
		PostLink:       item.Link,
	}, nil
}

func (a *Adapter) fetch(ctx context.Context, acc domain.Account) (credentials, *gofeed.Feed, error) {
	creds, err := decodeCredentials(acc)
	if err != nil {
		return creds, nil, err
	}

	feed, err := a.parser.ParseURLWithContext(creds.FeedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return creds, nil, fmt.Errorf("rss: fetch %s: %w", creds.FeedURL, provider.StatusError(string(Name), httpErr.StatusCode))
		}
		return creds, nil, fmt.Errorf("rss: fetch %s: %w", creds.FeedURL, err)
	}
	return creds, feed, nil
}

func decodeCredentials(acc domain.Account) (credentials, error) {
	var c credentials
	if len(acc.Credentials) == 0 {
		return c, fmt.Errorf("rss: account %s has no feed url", acc.ID)
	}
	if err := json.Unmarshal(acc.Credentials, &c); err != nil {
		return c, fmt.Errorf("rss: account %s: decode credentials: %w", acc.ID, err)
	}
	if c.FeedURL == "" {
		return c, fmt.Errorf("rss: account %s has no feed url", acc.ID)
	}
	return c, nil
}

// position is a decoded cursor. id is empty for cursors that carry only a
// timestamp.
type position struct {
	at time.Time
	id string
}

func parseCursor(cursor domain.Cursor) (position, error) {
	stamp, id := provider.SplitCursor(cursor)
	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return position{}, provider.MalformedCursor(string(Name), cursor, err)
	}
	return position{at: t, id: id}, nil
}

func formatCursor(t time.Time, id string) domain.Cursor {
	return provider.JoinCursor(t.UTC().Format(time.RFC3339Nano), id)
}

func findItem(feed *gofeed.Feed, id string) *gofeed.Item {
	for _, item := range feed.Items {
		if itemID(item) == id {
			return item
		}
	}
	return nil
}

func toPost(acc domain.Account, creds credentials, feed *gofeed.Feed, item *gofeed.Item) (domain.Post, error) {
	published := itemPublishedTime(item).UTC()
	body := postContent{
		Title: item.Title,
		Text:  itemText(item),
		URL:   item.Link,
		Feed:  feedLabel(feed, creds),
		Tags:  item.Categories,
	}
	if item.Author != nil {
		body.Author = item.Author.Name
	}
	if item.Image != nil {
		body.Image = item.Image.URL
	}
	content, err := json.Marshal(body)
	if err != nil {
		return domain.Post{}, fmt.Errorf("rss: encode item %s: %w", itemID(item), err)
	}
	return domain.Post{
		ID:         itemID(item),
		AccountID:  acc.ID,
		Provider:   Name,
		CreatedAt:  published,
		Content:    content,
		Pagination: domain.ItemPagination{Since: formatCursor(published, itemID(item))},
	}, nil
}

func itemPublishedTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func feedLabel(feed *gofeed.Feed, creds credentials) string {
	if creds.Title != "" {
		return creds.Title
	}
	if feed.Title != "" {
		return feed.Title
	}
	return creds.FeedURL
}

func itemID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

func itemText(item *gofeed.Item) string {
	raw := item.Content
	if raw == "" {
		raw = item.Description
	}
	return stripHTML(raw)
}

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
