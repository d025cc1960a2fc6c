package httpapi

import (
	"context"
	"encoding/json"

	"feedhub/internal/aggregator"
	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// FeedService is the aggregation surface served over HTTP.
type FeedService interface {
	Uniform(ctx context.Context, userID string, req aggregator.UniformRequest) (domain.Envelope[domain.Post], error)
	Older(ctx context.Context, userID string, objects []aggregator.CursorRequest) (domain.Envelope[domain.Post], error)
	Newer(ctx context.Context, userID string, objects []aggregator.CursorRequest) (domain.Envelope[domain.Post], error)
	Notifications(ctx context.Context, userID string, objects []aggregator.CursorRequest, limit int) (domain.Envelope[domain.Notification], error)
	Accounts(ctx context.Context, userID string) ([]domain.PublicAccount, error)
	Providers() ([]aggregator.ProviderInfo, error)
	Post(ctx context.Context, userID, accountID, postID string) (domain.Post, error)
	PostComments(ctx context.Context, userID, accountID, postID string, q provider.CommentsQuery) (domain.Comments, error)
	Action(ctx context.Context, userID, accountID, action string, payload json.RawMessage) (any, error)
	Pages(ctx context.Context, userID, accountID string) ([]domain.Page, error)
	Profile(ctx context.Context, userID, accountID string) (domain.Profile, error)
	AuthURL(ctx context.Context, name domain.ProviderName, state string) (provider.RequestToken, error)
	Callback(ctx context.Context, name domain.ProviderName, payload provider.CallbackPayload) ([]domain.DiscoveredAccount, error)
}
