// Package provider defines the contract every upstream adapter implements
// and the registry that resolves adapters by provider name.
package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"feedhub/internal/domain"
)

// Capability names a group of adapter operations.
type Capability string

const (
	CapabilityAuth         Capability = "auth"
	CapabilityFeed         Capability = "feed"
	CapabilityNotification Capability = "notification"
	CapabilityAction       Capability = "action"
	CapabilityPages        Capability = "pages"
)

// Adapter is the base contract. Capabilities are discovered with the
// Feed, Notifications, Actions, Pages and Auth helpers.
type Adapter interface {
	Name() domain.ProviderName
	FormatProvider(account domain.Account) domain.PublicAccount
}

// CommentsQuery narrows a comment listing.
type CommentsQuery struct {
	Before   string
	Limit    int
	ViewerID string
}

// FeedProvider fetches timeline posts. Exactly one of since/until is
// non-empty per call, or neither for "most recent".
type FeedProvider interface {
	Adapter
	GetFeed(ctx context.Context, account domain.Account, since, until domain.Cursor, limit int) ([]domain.Post, error)
	GetPost(ctx context.Context, account domain.Account, postID string) (domain.Post, error)
	GetPostComments(ctx context.Context, account domain.Account, postID string, q CommentsQuery) (domain.Comments, error)
}

type NotificationProvider interface {
	Adapter
	GetNotifications(ctx context.Context, account domain.Account, since domain.Cursor, limit int) ([]domain.Notification, error)
}

// ActionProvider dispatches provider-specific side-effecting operations.
type ActionProvider interface {
	Adapter
	Actions() []string
	DoAction(ctx context.Context, account domain.Account, action string, payload json.RawMessage) (any, error)
}

type PagesProvider interface {
	Adapter
	GetPages(ctx context.Context, account domain.Account) ([]domain.Page, error)
}

// RequestToken is the first leg of an auth flow.
type RequestToken struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}

// CallbackPayload carries the provider's redirect parameters.
type CallbackPayload struct {
	Code     string `json:"code"`
	State    string `json:"state"`
	Instance string `json:"instance,omitempty"`
}

type AuthProvider interface {
	Adapter
	GetRequestToken(ctx context.Context, state string) (RequestToken, error)
	HandleCallback(ctx context.Context, payload CallbackPayload) ([]domain.DiscoveredAccount, error)
	GetProfile(ctx context.Context, account domain.Account) (domain.Profile, error)
	OnProcessProfiles(ctx context.Context, accounts []domain.DiscoveredAccount) ([]domain.DiscoveredAccount, error)
}

func unsupported(a Adapter, c Capability) error {
	return fmt.Errorf("%s: %s: %w", a.Name(), c, ErrUnsupportedCapability)
}

// Feed returns the feed capability of a or ErrUnsupportedCapability.
func Feed(a Adapter) (FeedProvider, error) {
	if p, ok := a.(FeedProvider); ok {
		return p, nil
	}
	return nil, unsupported(a, CapabilityFeed)
}

func Notifications(a Adapter) (NotificationProvider, error) {
	if p, ok := a.(NotificationProvider); ok {
		return p, nil
	}
	return nil, unsupported(a, CapabilityNotification)
}

func Actions(a Adapter) (ActionProvider, error) {
	if p, ok := a.(ActionProvider); ok {
		return p, nil
	}
	return nil, unsupported(a, CapabilityAction)
}

func Pages(a Adapter) (PagesProvider, error) {
	if p, ok := a.(PagesProvider); ok {
		return p, nil
	}
	return nil, unsupported(a, CapabilityPages)
}

func Auth(a Adapter) (AuthProvider, error) {
	if p, ok := a.(AuthProvider); ok {
		return p, nil
	}
	return nil, unsupported(a, CapabilityAuth)
}

// Capabilities lists what a supports, in a fixed order.
func Capabilities(a Adapter) []Capability {
	var caps []Capability
	if _, ok := a.(AuthProvider); ok {
		caps = append(caps, CapabilityAuth)
	}
	if _, ok := a.(FeedProvider); ok {
		caps = append(caps, CapabilityFeed)
	}
	if _, ok := a.(NotificationProvider); ok {
		caps = append(caps, CapabilityNotification)
	}
	if _, ok := a.(ActionProvider); ok {
		caps = append(caps, CapabilityAction)
	}
	if _, ok := a.(PagesProvider); ok {
		caps = append(caps, CapabilityPages)
	}
	return caps
}
