package domain

import (
	"encoding/json"
	"time"
)

// ProviderName is the symbolic key of an upstream service.
type ProviderName string

const (
	ProviderMastodon ProviderName = "mastodon"
	ProviderLinkedIn ProviderName = "linkedin"
	ProviderRSS      ProviderName = "rss"
)

// Account is a user's linked identity on one external provider.
// Credentials is an opaque token bundle that only the owning adapter reads.
type Account struct {
	ID           string          `db:"id"`
	UserID       string          `db:"user_id"`
	Provider     ProviderName    `db:"provider"`
	ExternalID   string          `db:"external_id"`
	Credentials  json.RawMessage `db:"credentials"`
	Rank         int             `db:"rank"`
	LastAccessAt *time.Time      `db:"last_access_at"`
}

// PublicAccount is the display-safe projection of an Account.
type PublicAccount struct {
	ID          string       `json:"id"`
	Provider    ProviderName `json:"provider"`
	ExternalID  string       `json:"externalId"`
	DisplayName string       `json:"displayName,omitempty"`
	ProfileURL  string       `json:"profileUrl,omitempty"`
	Rank        int          `json:"rank"`
}

// DiscoveredAccount is an external identity found during an auth callback.
type DiscoveredAccount struct {
	Provider    ProviderName    `json:"provider"`
	ExternalID  string          `json:"externalId"`
	DisplayName string          `json:"displayName"`
	ProfileURL  string          `json:"profileUrl,omitempty"`
	Credentials json.RawMessage `json:"-"`
}

// Profile is the provider-side profile of an account.
type Profile struct {
	ExternalID  string `json:"externalId"`
	DisplayName string `json:"displayName"`
	Handle      string `json:"handle,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	ProfileURL  string `json:"profileUrl,omitempty"`
}

// Page is a publishing surface managed by an account (company page, organization).
type Page struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}
