// Package linkedin adapts the LinkedIn v2 REST API.
//
// Feed cursors are the decimal creation time of a post in epoch
// milliseconds joined with the post URN, so posts created in the same
// millisecond page without loss. since maps to after= and until maps to
// before=; a bare millisecond cursor excludes that whole millisecond.
package linkedin

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

const (
	Name           = domain.ProviderLinkedIn
	DefaultBaseURL = "https://api.linkedin.com"
	DefaultAuthURL = "https://www.linkedin.com/oauth/v2"

	maxLimit        = 100
	defaultComments = 20
	webURL          = "https://www.linkedin.com"
)

// Config holds LinkedIn application settings.
type Config struct {
	BaseURL      string
	AuthURL      string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Timeout      time.Duration
}

// Adapter implements the feed, action, pages and auth capabilities.
type Adapter struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a LinkedIn adapter.
func New(cfg Config, logger *slog.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.AuthURL = strings.TrimRight(cfg.AuthURL, "/")
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"r_liteprofile", "w_member_social", "r_organization_social"}
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
	pub.DisplayName = creds.Name
	if creds.VanityName != "" {
		pub.ProfileURL = webURL + "/in/" + creds.VanityName
	}
	return pub
}

func (a *Adapter) GetFeed(ctx context.Context, acc domain.Account, since, until domain.Cursor, limit int) ([]domain.Post, error) {
	creds, err := decodeCredentials(acc)
	if err != nil {
		return nil, err
	}

	limit = clampLimit(limit)
	q := url.Values{}
	q.Set("count", strconv.Itoa(limit))

	// A cursor with an item ID widens the bound to its own millisecond; the
	// items already seen there are dropped below.
	var lower, upper position
	switch {
	case since != "":
		if lower, err = parseCursor(since); err != nil {
			return nil, err
		}
		after := lower.ms
		if lower.id != "" {
			after--
		}
		q.Set("after", strconv.FormatInt(after, 10))
	case until != "":
		if upper, err = parseCursor(until); err != nil {
			return nil, err
		}
		before := upper.ms
		if upper.id != "" {
			before++
		}
		q.Set("before", strconv.FormatInt(before, 10))
	}

	var resp feedResponse
	if err := a.get(ctx, creds, "/v2/feed", q, &resp); err != nil {
		return nil, fmt.Errorf("linkedin: feed: %w", err)
	}

	posts := make([]domain.Post, 0, len(resp.Elements))
	for _, elem := range resp.Elements {
		created := elem.Created.Time
		if since != "" && !provider.NewerThanCursor(cmp.Compare(created, lower.ms), elem.ID, lower.id) {
			continue
		}
		if until != "" && !provider.OlderThanCursor(cmp.Compare(created, upper.ms), elem.ID, upper.id) {
			continue
		}
		post, err := toPost(acc, elem)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	slices.SortStableFunc(posts, func(x, y domain.Post) int {
		return provider.CompareNewestFirst(x.CreatedAt.Compare(y.CreatedAt), x.ID, y.ID)
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}

	a.logger.Debug("fetched feed",
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

	var elem feedElement
	if err := a.get(ctx, creds, "/v2/posts/"+url.PathEscape(postID), nil, &elem); err != nil {
		return domain.Post{}, fmt.Errorf("linkedin: post %s: %w", postID, err)
	}
	return toPost(acc, elem)
}

// GetPostComments pages through the comments of a post. q.Before is an
// epoch-millisecond cursor like the feed cursors.
func (a *Adapter) GetPostComments(ctx context.Context, acc domain.Account, postID string, q provider.CommentsQuery) (domain.Comments, error) {
	creds, err := decodeCredentials(acc)
	if err != nil {
		return domain.Comments{}, err
	}

	var before int64
	if q.Before != "" {
		pos, err := parseCursor(q.Before)
		if err != nil {
			return domain.Comments{}, err
		}
		before = pos.ms
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultComments
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(limit+1))
	if before > 0 {
		params.Set("before", strconv.FormatInt(before, 10))
	}

	var resp commentsResponse
	path := "/v2/socialActions/" + url.PathEscape(postID) + "/comments"
	if err := a.get(ctx, creds, path, params, &resp); err != nil {
		return domain.Comments{}, fmt.Errorf("linkedin: comments of %s: %w", postID, err)
	}

	viewer := q.ViewerID
	switch {
	case viewer == "":
		viewer = creds.PersonURN
	case !strings.HasPrefix(viewer, "urn:"):
		viewer = personURNPrefix + viewer
	}

	comments := make([]domain.Comment, 0, len(resp.Elements))
	for _, elem := range resp.Elements {
		if before > 0 && elem.Created.Time >= before {
			continue
		}
		c, err := toComment(elem, viewer)
		if err != nil {
			return domain.Comments{}, err
		}
		comments = append(comments, c)
	}

	hasMore := len(comments) > limit || resp.Paging.Total > resp.Paging.Start+len(resp.Elements)
	if len(comments) > limit {
		comments = comments[:limit]
	}

	return domain.Comments{
		ProviderID:     acc.ID,
		PostID:         postID,
		Comments:       comments,
		ParentComments: []domain.Comment{},
		HasMore:        hasMore,
		PostLink:       postLink(postID),
	}, nil
}

func (a *Adapter) get(ctx context.Context, creds credentials, path string, query url.Values, out any) error {
	endpoint := a.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return a.do(ctx, http.MethodGet, endpoint, creds.AccessToken, nil, "", out)
}

func (a *Adapter) postJSON(ctx context.Context, creds credentials, path string, in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return a.do(ctx, http.MethodPost, a.cfg.BaseURL+path, creds.AccessToken, bytes.NewReader(raw), "application/json", out)
}

func (a *Adapter) do(ctx context.Context, method, endpoint, token string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return provider.StatusError(string(Name), resp.StatusCode)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeCredentials(acc domain.Account) (credentials, error) {
	var c credentials
	if len(acc.Credentials) == 0 {
		return c, fmt.Errorf("linkedin: account %s has no credentials", acc.ID)
	}
	if err := json.Unmarshal(acc.Credentials, &c); err != nil {
		return c, fmt.Errorf("linkedin: account %s: decode credentials: %w", acc.ID, err)
	}
	if c.AccessToken == "" {
		return c, fmt.Errorf("linkedin: account %s: missing access token", acc.ID)
	}
	return c, nil
}

// position is a decoded cursor: creation time in epoch milliseconds and,
// for feed cursors, the ID of the item created then.
type position struct {
	ms int64
	id string
}

func parseCursor(cursor domain.Cursor) (position, error) {
	key, id := provider.SplitCursor(cursor)
	ms, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return position{}, provider.MalformedCursor(string(Name), cursor, err)
	}
	if ms < 0 {
		return position{}, provider.MalformedCursor(string(Name), cursor, nil)
	}
	return position{ms: ms, id: id}, nil
}

func formatCursor(ms int64, id string) domain.Cursor {
	return provider.JoinCursor(strconv.FormatInt(ms, 10), id)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxLimit {
		return maxLimit
	}
	return limit
}

func postLink(postID string) string {
	return webURL + "/feed/update/" + postID
}

func toPost(acc domain.Account, elem feedElement) (domain.Post, error) {
	counts := elem.SocialDetail.TotalSocialActivityCounts
	content, err := json.Marshal(postContent{
		Text:     elem.Text.Text,
		AuthorID: elem.Author,
		URL:      postLink(elem.ID),
		Likes:    counts.NumLikes,
		Comments: counts.NumComments,
		Shares:   counts.NumShares,
	})
	if err != nil {
		return domain.Post{}, fmt.Errorf("linkedin: encode post %s: %w", elem.ID, err)
	}
	return domain.Post{
		ID:         elem.ID,
		AccountID:  acc.ID,
		Provider:   Name,
		CreatedAt:  time.UnixMilli(elem.Created.Time).UTC(),
		Content:    content,
		Pagination: domain.ItemPagination{Since: formatCursor(elem.Created.Time, elem.ID)},
	}, nil
}

func toComment(elem commentElement, viewer string) (domain.Comment, error) {
	content, err := json.Marshal(commentContent{Text: elem.Message.Text})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("linkedin: encode comment %s: %w", elem.ID, err)
	}
	return domain.Comment{
		ID:        elem.ID,
		ParentID:  elem.ParentComment,
		AuthorID:  elem.Actor,
		CreatedAt: time.UnixMilli(elem.Created.Time).UTC(),
		Content:   content,
		Mine:      viewer != "" && viewer == elem.Actor,
	}, nil
}

// getLocalizedValue extracts the localized value from LinkedIn's nested structure.
func getLocalizedValue(lv localizedValue) string {
	if lv.Localized == nil {
		return ""
	}
	for _, locale := range []string{"en_US", "en_GB", "en"} {
		if v, ok := lv.Localized[locale]; ok {
			return v
		}
	}
	if len(lv.Localized) == 0 {
		return ""
	}
	// Lowest locale key, so the pick is stable across calls.
	return lv.Localized[slices.Min(slices.Collect(maps.Keys(lv.Localized)))]
}
