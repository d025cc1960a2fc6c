package linkedin

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

const personURNPrefix = "urn:li:person:"

func (a *Adapter) GetRequestToken(_ context.Context, state string) (provider.RequestToken, error) {
	if a.cfg.ClientID == "" {
		return provider.RequestToken{}, fmt.Errorf("linkedin: client_id: %w", provider.ErrProviderNotConfigured)
	}

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", a.cfg.ClientID)
	q.Set("redirect_uri", a.cfg.RedirectURL)
	q.Set("state", state)
	q.Set("scope", strings.Join(a.cfg.Scopes, " "))

	return provider.RequestToken{
		AuthURL: a.cfg.AuthURL + "/authorization?" + q.Encode(),
		State:   state,
	}, nil
}

// HandleCallback exchanges the authorization code for a member token and
// resolves the member profile behind it.
func (a *Adapter) HandleCallback(ctx context.Context, payload provider.CallbackPayload) ([]domain.DiscoveredAccount, error) {
	if payload.Code == "" {
		return nil, fmt.Errorf("linkedin: callback: code is required: %w", domain.ErrInvalidRequest)
	}

	token, err := a.exchangeCode(ctx, payload.Code)
	if err != nil {
		return nil, err
	}

	creds := credentials{AccessToken: token.AccessToken}
	me, err := a.fetchMe(ctx, creds)
	if err != nil {
		return nil, err
	}

	creds.PersonURN = personURNPrefix + me.ID
	creds.Name = displayName(me)
	creds.VanityName = me.VanityName

	raw, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("linkedin: encode credentials: %w", err)
	}

	found := domain.DiscoveredAccount{
		Provider:    Name,
		ExternalID:  me.ID,
		DisplayName: creds.Name,
		Credentials: raw,
	}
	if me.VanityName != "" {
		found.ProfileURL = webURL + "/in/" + me.VanityName
	}
	return a.OnProcessProfiles(ctx, []domain.DiscoveredAccount{found})
}

func (a *Adapter) GetProfile(ctx context.Context, acc domain.Account) (domain.Profile, error) {
	creds, err := decodeCredentials(acc)
	if err != nil {
		return domain.Profile{}, err
	}

	me, err := a.fetchMe(ctx, creds)
	if err != nil {
		return domain.Profile{}, err
	}

	profile := domain.Profile{
		ExternalID:  me.ID,
		DisplayName: displayName(me),
		Handle:      me.VanityName,
	}
	if me.VanityName != "" {
		profile.ProfileURL = webURL + "/in/" + me.VanityName
	}
	return profile, nil
}

// OnProcessProfiles drops entries without an ID and keeps the first of
// any duplicates.
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

func (a *Adapter) fetchMe(ctx context.Context, creds credentials) (profileResponse, error) {
	var me profileResponse
	if err := a.get(ctx, creds, "/v2/me", nil, &me); err != nil {
		return profileResponse{}, fmt.Errorf("linkedin: profile: %w", err)
	}
	return me, nil
}

func (a *Adapter) exchangeCode(ctx context.Context, code string) (tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", a.cfg.ClientID)
	form.Set("client_secret", a.cfg.ClientSecret)
	form.Set("redirect_uri", a.cfg.RedirectURL)

	var token tokenResponse
	body := strings.NewReader(form.Encode())
	if err := a.do(ctx, http.MethodPost, a.cfg.AuthURL+"/accessToken", "", body, "application/x-www-form-urlencoded", &token); err != nil {
		return tokenResponse{}, fmt.Errorf("linkedin: exchange code: %w", err)
	}
	if token.AccessToken == "" {
		return tokenResponse{}, fmt.Errorf("linkedin: exchange code: empty access token")
	}
	return token, nil
}

func displayName(p profileResponse) string {
	first := p.LocalizedFirstName
	if first == "" {
		first = getLocalizedValue(p.FirstName)
	}
	last := p.LocalizedLastName
	if last == "" {
		last = getLocalizedValue(p.LastName)
	}
	return strings.TrimSpace(first + " " + last)
}
