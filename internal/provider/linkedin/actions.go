package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

type actionFunc func(ctx context.Context, creds credentials, p actionPayload) (any, error)

func (a *Adapter) actionTable() map[string]actionFunc {
	return map[string]actionFunc{
		"share":   a.share,
		"like":    a.like,
		"comment": a.comment,
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
	if creds.PersonURN == "" {
		return nil, fmt.Errorf("linkedin: account %s: missing person urn", acc.ID)
	}

	var p actionPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("linkedin: %s: decode payload: %w", action, domain.ErrInvalidRequest)
		}
	}

	return fn(ctx, creds, p)
}

func (a *Adapter) share(ctx context.Context, creds credentials, p actionPayload) (any, error) {
	if p.Text == "" {
		return nil, fmt.Errorf("linkedin: share: text is required: %w", domain.ErrInvalidRequest)
	}

	req := shareRequest{
		Author:         creds.PersonURN,
		LifecycleState: "PUBLISHED",
		Visibility:     "PUBLIC",
	}
	req.Text.Text = p.Text

	var created createdResponse
	if err := a.postJSON(ctx, creds, "/v2/posts", req, &created); err != nil {
		return nil, fmt.Errorf("linkedin: share: %w", err)
	}
	return created, nil
}

func (a *Adapter) like(ctx context.Context, creds credentials, p actionPayload) (any, error) {
	if p.PostID == "" {
		return nil, fmt.Errorf("linkedin: like: postId is required: %w", domain.ErrInvalidRequest)
	}

	path := "/v2/socialActions/" + url.PathEscape(p.PostID) + "/likes"
	req := likeRequest{Actor: creds.PersonURN, Object: p.PostID}
	if err := a.postJSON(ctx, creds, path, req, nil); err != nil {
		return nil, fmt.Errorf("linkedin: like %s: %w", p.PostID, err)
	}
	return createdResponse{ID: p.PostID}, nil
}

func (a *Adapter) comment(ctx context.Context, creds credentials, p actionPayload) (any, error) {
	if p.PostID == "" || p.Text == "" {
		return nil, fmt.Errorf("linkedin: comment: postId and text are required: %w", domain.ErrInvalidRequest)
	}

	req := commentRequest{Actor: creds.PersonURN}
	req.Message.Text = p.Text

	var created createdResponse
	path := "/v2/socialActions/" + url.PathEscape(p.PostID) + "/comments"
	if err := a.postJSON(ctx, creds, path, req, &created); err != nil {
		return nil, fmt.Errorf("linkedin: comment on %s: %w", p.PostID, err)
	}
	return created, nil
}

// GetPages lists the organizations the member administers.
func (a *Adapter) GetPages(ctx context.Context, acc domain.Account) ([]domain.Page, error) {
	creds, err := decodeCredentials(acc)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", "roleAssignee")
	q.Set("role", "ADMINISTRATOR")
	q.Set("state", "APPROVED")
	q.Set("projection", "(elements*(organization,role,state,organization~(localizedName,vanityName)))")

	var resp organizationACLResponse
	if err := a.get(ctx, creds, "/v2/organizationAcls", q, &resp); err != nil {
		return nil, fmt.Errorf("linkedin: organization acls: %w", err)
	}

	pages := make([]domain.Page, 0, len(resp.Elements))
	for _, acl := range resp.Elements {
		if acl.State != "" && !strings.EqualFold(acl.State, "APPROVED") {
			continue
		}
		page := domain.Page{
			ID:   acl.Organization,
			Name: acl.Details.LocalizedName,
		}
		if acl.Details.VanityName != "" {
			page.URL = webURL + "/company/" + acl.Details.VanityName
		}
		pages = append(pages, page)
	}
	return pages, nil
}
