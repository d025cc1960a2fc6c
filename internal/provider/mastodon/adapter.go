// Package mastodon adapts the Mastodon REST API. Cursors are status and
// notification IDs, passed through untouched as min_id/max_id.
package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

const (
	Name            = domain.ProviderMastodon
	DefaultInstance = "https://mastodon.social"

	maxLimit        = 40
	defaultComments = 20
	userAgent       = "feedhub/1.0"
)

// Config holds Mastodon application settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Instance     string
	Timeout      time.Duration
}

// Adapter implements the feed, notification, action and auth capabilities.
type Adapter struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Mastodon adapter.
func New(cfg Config, logger *slog.Logger) *Adapter {
	if cfg.Instance == "" {
		cfg.Instance = DefaultInstance
	}
	cfg.Instance = strings.TrimRight(cfg.Instance, "/")
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"read", "write"}
	}
	return &Adapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("provider", string(Name)),
	}
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
	if creds.Username != "" {
		pub.DisplayName = creds.Username
		pub.ProfileURL = creds.Instance + "/@" + creds.Username
	}
	return pub
}

// GetFeed reads the home timeline. min_id is used for since so that a
// resumed poll continues immediately after the cursor instead of jumping
// to the newest page.
func (a *Adapter) GetFeed(ctx context.Context, acc domain.Account, since, until domain.Cursor, limit int) ([]domain.Post, error) {
	creds, err := decodeCredentials(acc)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit)))
	switch {
	case since != "":
		q.Set("min_id", since)
	case until != "":
		q.Set("max_id", until)
	}

	var statuses []status
	if err := a.get(ctx, creds, "/api/v1/timelines/home", q, &statuses); err != nil {
		return nil, fmt.Errorf("mastodon: home timeline: %w", err)
	}

	posts := make([]domain.Post, 0, len(statuses))
	for _, s := range statuses {
		post, err := toPost(acc, s)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	a.logger.Debug("fetched home timeline",
		"account_id", acc.ID,
		"since", since,
		"until", until,
		"count", len(posts),
	)

	return posts, nil
}

func (a *Adapter) GetPost(ctx context.Context, acc domain.Account, postID string) (domain.Post, error) {
	creds, err := decodeCredentials(acc)
	if err != nil {
		return domain.Post{}, err
	}

	var s status
	if err := a.get(ctx, creds, "/api/v1/statuses/"+url.PathEscape(postID), nil, &s); err != nil {
		return domain.Post{}, fmt.Errorf("mastodon: status %s: %w", postID, err)
	}
	return toPost(acc, s)
}

// GetPostComments returns the replies below a status. q.Before is an
// RFC 3339 timestamp; only replies created strictly before it are kept.
func (a *Adapter) GetPostComments(ctx context.Context, acc domain.Account, postID string, q provider.CommentsQuery) (domain.Comments, error) {
	creds, err := decodeCredentials(acc)
	if err != nil {
		return domain.Comments{}, err
	}

	var before time.Time
	if q.Before != "" {
		before, err = time.Parse(time.RFC3339, q.Before)
		if err != nil {
			return domain.Comments{}, provider.MalformedCursor(string(Name), q.Before, err)
		}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultComments
	}

	var sc statusContext
	if err := a.get(ctx, creds, "/api/v1/statuses/"+url.PathEscape(postID)+"/context", nil, &sc); err != nil {
		return domain.Comments{}, fmt.Errorf("mastodon: status %s context: %w", postID, err)
	}

	comments := make([]domain.Comment, 0, len(sc.Descendants))
	for _, s := range sc.Descendants {
		c, err := toComment(s, q.ViewerID)
		if err != nil {
			return domain.Comments{}, err
		}
		if !before.IsZero() && !c.CreatedAt.Before(before) {
			continue
		}
		comments = append(comments, c)
	}

	hasMore := len(comments) > limit
	if hasMore {
		comments = comments[:limit]
	}

	parents := make([]domain.Comment, 0, len(sc.Ancestors))
	for _, s := range sc.Ancestors {
		c, err := toComment(s, q.ViewerID)
		if err != nil {
			return domain.Comments{}, err
		}
		parents = append(parents, c)
	}

	return domain.Comments{
		ProviderID:     acc.ID,
		PostID:         postID,
		Comments:       comments,
		ParentComments: parents,
		HasMore:        hasMore,
		PostLink:       creds.Instance + "/web/statuses/" + postID,
	}, nil
}

func (a *Adapter) GetNotifications(ctx context.Context, acc domain.Account, since domain.Cursor, limit int) ([]domain.Notification, error) {
	creds, err := decodeCredentials(acc)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit)))
	if since != "" {
		q.Set("min_id", since)
	}

	var raw []notification
	if err := a.get(ctx, creds, "/api/v1/notifications", q, &raw); err != nil {
		return nil, fmt.Errorf("mastodon: notifications: %w", err)
	}

	out := make([]domain.Notification, 0, len(raw))
	for _, n := range raw {
		createdAt, err := parseTime(n.ID, n.CreatedAt)
		if err != nil {
			return nil, err
		}
		body := notificationContent{From: toAuthor(n.Account)}
		if n.Status != nil {
			c := toContent(*n.Status)
			body.Status = &c
		}
		content, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("mastodon: encode notification %s: %w", n.ID, err)
		}
		out = append(out, domain.Notification{
			ID:         n.ID,
			AccountID:  acc.ID,
			Provider:   Name,
			Kind:       n.Type,
			CreatedAt:  createdAt,
			Content:    content,
			Pagination: domain.ItemPagination{Since: n.ID},
		})
	}
	return out, nil
}

func (a *Adapter) get(ctx context.Context, creds credentials, path string, query url.Values, out any) error {
	return a.do(ctx, http.MethodGet, creds.Instance+path, creds.AccessToken, query, nil, out)
}

func (a *Adapter) post(ctx context.Context, creds credentials, path string, form url.Values, out any) error {
	if form == nil {
		form = url.Values{}
	}
	return a.do(ctx, http.MethodPost, creds.Instance+path, creds.AccessToken, nil, form, out)
}

func (a *Adapter) do(ctx context.Context, method, endpoint, token string, query, form url.Values, out any) error {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return provider.StatusError(string(Name), resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeCredentials(acc domain.Account) (credentials, error) {
	var c credentials
	if len(acc.Credentials) == 0 {
		return c, fmt.Errorf("mastodon: account %s has no credentials", acc.ID)
	}
	if err := json.Unmarshal(acc.Credentials, &c); err != nil {
		return c, fmt.Errorf("mastodon: account %s: decode credentials: %w", acc.ID, err)
	}
	if c.Instance == "" || c.AccessToken == "" {
		return c, fmt.Errorf("mastodon: account %s: incomplete credentials", acc.ID)
	}
	c.Instance = strings.TrimRight(c.Instance, "/")
	return c, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxLimit {
		return maxLimit
	}
	return limit
}

func parseTime(id, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("mastodon: item %s: parse created_at %q: %w", id, value, err)
	}
	return t.UTC(), nil
}

func toPost(acc domain.Account, s status) (domain.Post, error) {
	createdAt, err := parseTime(s.ID, s.CreatedAt)
	if err != nil {
		return domain.Post{}, err
	}
	content, err := json.Marshal(toContent(s))
	if err != nil {
		return domain.Post{}, fmt.Errorf("mastodon: encode status %s: %w", s.ID, err)
	}
	return domain.Post{
		ID:         s.ID,
		AccountID:  acc.ID,
		Provider:   Name,
		CreatedAt:  createdAt,
		Content:    content,
		Pagination: domain.ItemPagination{Since: s.ID},
	}, nil
}

func toContent(s status) postContent {
	shown := s
	var rebloggedBy *author
	if s.Reblog != nil {
		shown = *s.Reblog
		by := toAuthor(s.Account)
		rebloggedBy = &by
	}
	return postContent{
		Text:        shown.Content,
		SpoilerText: shown.SpoilerText,
		URL:         shown.URL,
		Author:      toAuthor(shown.Account),
		RebloggedBy: rebloggedBy,
		Media:       shown.MediaAttachments,
		Replies:     shown.RepliesCount,
		Reblogs:     shown.ReblogsCount,
		Favourites:  shown.FavouritesCount,
		Favourited:  s.Favourited,
		Reblogged:   s.Reblogged,
	}
}

func toComment(s status, viewerID string) (domain.Comment, error) {
	createdAt, err := parseTime(s.ID, s.CreatedAt)
	if err != nil {
		return domain.Comment{}, err
	}
	content, err := json.Marshal(toContent(s))
	if err != nil {
		return domain.Comment{}, fmt.Errorf("mastodon: encode reply %s: %w", s.ID, err)
	}
	c := domain.Comment{
		ID:        s.ID,
		AuthorID:  s.Account.ID,
		CreatedAt: createdAt,
		Content:   content,
		Mine:      viewerID != "" && viewerID == s.Account.ID,
	}
	if s.InReplyToID != nil {
		c.ParentID = *s.InReplyToID
	}
	return c, nil
}

func toAuthor(acc account) author {
	name := acc.DisplayName
	if name == "" {
		name = acc.Username
	}
	return author{
		ID:          acc.ID,
		Handle:      acc.Acct,
		DisplayName: name,
		AvatarURL:   acc.Avatar,
		URL:         acc.URL,
	}
}
