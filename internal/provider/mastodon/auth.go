package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

func (a *Adapter) GetRequestToken(_ context.Context, state string) (provider.RequestToken, error) {
	if a.cfg.ClientID == "" {
		return provider.RequestToken{}, fmt.Errorf("mastodon: client_id: %w", provider.ErrProviderNotConfigured)
	}

	q := url.Values{}
	q.Set("client_id", a.cfg.ClientID)
	q.Set("redirect_uri", a.cfg.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(a.cfg.Scopes, " "))
	q.Set("state", state)

	return provider.RequestToken{
		AuthURL: a.cfg.Instance + "/oauth/authorize?" + q.Encode(),
		State:   state,
	}, nil
}

// HandleCallback exchanges the authorization code and resolves the
// authenticated account.
func (a *Adapter) HandleCallback(ctx context.Context, payload provider.CallbackPayload) ([]domain.DiscoveredAccount, error) {
	if payload.Code == "" {
		return nil, fmt.Errorf("mastodon: callback: code is required: %w", domain.ErrInvalidRequest)
	}

	instance := a.cfg.Instance
	if payload.Instance != "" {
		instance = strings.TrimRight(payload.Instance, "/")
	}

	token, err := a.exchangeCode(ctx, instance, payload.Code)
	if err != nil {
		return nil, err
	}

	creds := credentials{Instance: instance, AccessToken: token.AccessToken}
	var me account
	if err := a.get(ctx, creds, "/api/v1/accounts/verify_credentials", nil, &me); err != nil {
		return nil, fmt.Errorf("mastodon: verify credentials: %w", err)
	}
	creds.Username = me.Acct

	raw, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("mastodon: encode credentials: %w", err)
	}

	who := toAuthor(me)
	return a.OnProcessProfiles(ctx, []domain.DiscoveredAccount{{
		Provider:    Name,
		ExternalID:  me.ID,
		DisplayName: who.DisplayName,
		ProfileURL:  me.URL,
		Credentials: raw,
	}})
}

func (a *Adapter) GetProfile(ctx context.Context, acc domain.Account) (domain.Profile, error) {
	creds, err := decodeCredentials(acc)
	if err != nil {
		return domain.Profile{}, err
	}

	var me account
	if err := a.get(ctx, creds, "/api/v1/accounts/verify_credentials", nil, &me); err != nil {
		return domain.Profile{}, fmt.Errorf("mastodon: profile: %w", err)
	}

	who := toAuthor(me)
	return domain.Profile{
		ExternalID:  me.ID,
		DisplayName: who.DisplayName,
		Handle:      me.Acct,
		AvatarURL:   me.Avatar,
		ProfileURL:  me.URL,
	}, nil
}

// OnProcessProfiles drops anonymous entries and duplicates.
func (a *Adapter) OnProcessProfiles(_ context.Context, accounts []domain.DiscoveredAccount) ([]domain.DiscoveredAccount, error) {
	seen := make(map[string]bool, len(accounts))
	out := make([]domain.DiscoveredAccount, 0, len(accounts))
	for _, acc := range accounts {
		if acc.ExternalID == "" || seen[acc.ExternalID] {
			continue
		}
		seen[acc.ExternalID] = true
		out = append(out, acc)
	}
	return out, nil
}

func (a *Adapter) exchangeCode(ctx context.Context, instance, code string) (tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", a.cfg.ClientID)
	form.Set("client_secret", a.cfg.ClientSecret)
	form.Set("redirect_uri", a.cfg.RedirectURL)
	form.Set("scope", strings.Join(a.cfg.Scopes, " "))

	var token tokenResponse
	if err := a.do(ctx, http.MethodPost, instance+"/oauth/token", "", nil, form, &token); err != nil {
		return tokenResponse{}, fmt.Errorf("mastodon: exchange code: %w", err)
	}
	if token.AccessToken == "" {
		return tokenResponse{}, fmt.Errorf("mastodon: exchange code: empty access token")
	}
	return token, nil
}
