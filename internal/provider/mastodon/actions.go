package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"slices"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

type actionFunc func(ctx context.Context, acc domain.Account, creds credentials, p actionPayload) (any, error)

func (a *Adapter) actionTable() map[string]actionFunc {
	return map[string]actionFunc{
		"compose":  a.compose,
		"like":     a.statusAction("favourite"),
		"unlike":   a.statusAction("unfavourite"),
		"boost":    a.statusAction("reblog"),
		"unboost":  a.statusAction("unreblog"),
		"bookmark": a.statusAction("bookmark"),
	}
}

// Actions lists the supported action names.
func (a *Adapter) Actions() []string {
	return slices.Sorted(maps.Keys(a.actionTable()))
}

func (a *Adapter) DoAction(ctx context.Context, acc domain.Account, action string, payload json.RawMessage) (any, error) {
	fn, ok := a.actionTable()[action]
	if !ok {
		return nil, provider.UnsupportedAction(string(Name), action)
	}

	creds, err := decodeCredentials(acc)
	if err != nil {
		return nil, err
	}

	var p actionPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("mastodon: %s: decode payload: %w", action, domain.ErrInvalidRequest)
		}
	}

	return fn(ctx, acc, creds, p)
}

func (a *Adapter) compose(ctx context.Context, acc domain.Account, creds credentials, p actionPayload) (any, error) {
	if p.Text == "" {
		return nil, fmt.Errorf("mastodon: compose: text is required: %w", domain.ErrInvalidRequest)
	}

	form := url.Values{}
	form.Set("status", p.Text)
	if p.Visibility != "" {
		form.Set("visibility", p.Visibility)
	}
	if p.PostID != "" {
		form.Set("in_reply_to_id", p.PostID)
	}

	var s status
	if err := a.post(ctx, creds, "/api/v1/statuses", form, &s); err != nil {
		return nil, fmt.Errorf("mastodon: compose: %w", err)
	}
	return toPost(acc, s)
}

func (a *Adapter) statusAction(verb string) actionFunc {
	return func(ctx context.Context, acc domain.Account, creds credentials, p actionPayload) (any, error) {
		if p.PostID == "" {
			return nil, fmt.Errorf("mastodon: %s: postId is required: %w", verb, domain.ErrInvalidRequest)
		}

		var s status
		path := "/api/v1/statuses/" + url.PathEscape(p.PostID) + "/" + verb
		if err := a.post(ctx, creds, path, nil, &s); err != nil {
			return nil, fmt.Errorf("mastodon: %s %s: %w", verb, p.PostID, err)
		}
		return toPost(acc, s)
	}
}
