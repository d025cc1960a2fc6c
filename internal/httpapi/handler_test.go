package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"feedhub/internal/aggregator"
	"feedhub/internal/domain"
	"feedhub/internal/httpapi/mocks"
	"feedhub/internal/provider"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	svc    *mocks.MockFeedService
	router http.Handler
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.svc = mocks.NewMockFeedService(s.ctrl)
	s.router = NewRouter(s.svc, slog.New(slog.NewTextHandler(io.Discard, nil)), 5*time.Second)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(HeaderUserID, "user-1")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerTestSuite) decodeError(rec *httptest.ResponseRecorder) errorResponse {
	var body errorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func samplePost(id, account string) domain.Post {
	return domain.Post{
		ID:         id,
		AccountID:  account,
		Provider:   domain.ProviderMastodon,
		CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Content:    json.RawMessage(`{"text":"hello"}`),
		Pagination: domain.ItemPagination{Since: id},
	}
}

func (s *HandlerTestSuite) TestHealthz() {
	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *HandlerTestSuite) TestMissingUser() {
	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(CodeUnauthorized, s.decodeError(rec).Code)
}

func (s *HandlerTestSuite) TestFeed() {
	env := domain.Envelope[domain.Post]{
		Posts:      []domain.Post{samplePost("p1", "acc-1")},
		Pagination: []domain.PaginationEntry{{ProviderID: "acc-1", Since: "p1", Until: "p1"}},
	}
	s.svc.EXPECT().
		Uniform(gomock.Any(), "user-1", aggregator.UniformRequest{Providers: []string{"acc-1", "acc-2"}, Amount: 5}).
		Return(env, nil)

	rec := s.do(http.MethodPost, "/api/feed", `{"providers":["acc-1","acc-2"],"amount":5}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(contentTypeJSON, rec.Header().Get(headerContentType))

	var got domain.Envelope[domain.Post]
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got.Posts, 1)
	s.Equal("p1", got.Posts[0].ID)
	s.Equal("acc-1", got.Posts[0].AccountID)
	s.Equal([]domain.PaginationEntry{{ProviderID: "acc-1", Since: "p1", Until: "p1"}}, got.Pagination)
}

func (s *HandlerTestSuite) TestFeed_AmountOptional() {
	s.svc.EXPECT().
		Uniform(gomock.Any(), "user-1", aggregator.UniformRequest{Providers: []string{"acc-1"}}).
		Return(domain.Envelope[domain.Post]{Posts: []domain.Post{}, Pagination: []domain.PaginationEntry{}}, nil)

	rec := s.do(http.MethodPost, "/api/feed", `{"providers":["acc-1"]}`)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"posts":[],"pagination":[]}`, rec.Body.String())
}

func (s *HandlerTestSuite) TestFeed_Validation() {
	cases := map[string]string{
		"empty body":       ``,
		"not json":         `providers=a`,
		"no providers":     `{"providers":[]}`,
		"blank id":         `{"providers":["a"," "]}`,
		"zero amount":      `{"providers":["a"],"amount":0}`,
		"huge amount":      `{"providers":["a"],"amount":1000}`,
		"unknown field":    `{"providers":["a"],"cutoff":false}`,
		"stringified list": `{"providers":"[\"a\"]"}`,
	}
	for name, body := range cases {
		s.Run(name, func() {
			rec := s.do(http.MethodPost, "/api/feed", body)
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal(CodeInvalidRequest, s.decodeError(rec).Code)
		})
	}
}

func (s *HandlerTestSuite) TestFeedOlder() {
	s.svc.EXPECT().
		Older(gomock.Any(), "user-1", []aggregator.CursorRequest{
			{ProviderID: "acc-1", Until: "100"},
			{ProviderID: "acc-2"},
		}).
		Return(domain.Envelope[domain.Post]{Posts: []domain.Post{}, Pagination: []domain.PaginationEntry{}}, nil)

	rec := s.do(http.MethodPost, "/api/feed/older", `{"objects":[{"providerId":"acc-1","until":"100"},{"providerId":"acc-2","until":""}]}`)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerTestSuite) TestFeedOlder_RejectsSince() {
	rec := s.do(http.MethodPost, "/api/feed/older", `{"objects":[{"providerId":"acc-1","since":"100"}]}`)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestFeedOlder_ConflictingCursors() {
	rec := s.do(http.MethodPost, "/api/feed/older", `{"objects":[{"providerId":"acc-1","until":"100"},{"providerId":"acc-1","until":"50"}]}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(CodeInvalidRequest, s.decodeError(rec).Code)
}

func (s *HandlerTestSuite) TestFeedOlder_RepeatedIdenticalCursor() {
	s.svc.EXPECT().
		Older(gomock.Any(), "user-1", []aggregator.CursorRequest{
			{ProviderID: "acc-1", Until: "100"},
			{ProviderID: "acc-1", Until: "100"},
		}).
		Return(domain.Envelope[domain.Post]{Posts: []domain.Post{}, Pagination: []domain.PaginationEntry{}}, nil)

	rec := s.do(http.MethodPost, "/api/feed/older", `{"objects":[{"providerId":"acc-1","until":"100"},{"providerId":"acc-1","until":"100"}]}`)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerTestSuite) TestFeedNewer() {
	s.svc.EXPECT().
		Newer(gomock.Any(), "user-1", []aggregator.CursorRequest{{ProviderID: "acc-1", Since: "200"}}).
		Return(domain.Envelope[domain.Post]{Posts: []domain.Post{}, Pagination: []domain.PaginationEntry{}}, nil)

	rec := s.do(http.MethodPost, "/api/feed/newer", `{"objects":[{"providerId":"acc-1","since":"200"}]}`)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerTestSuite) TestFeedNewer_MissingProviderID() {
	rec := s.do(http.MethodPost, "/api/feed/newer", `{"objects":[{"since":"200"}]}`)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestFeedNewer_ConflictingCursors() {
	for _, path := range []string{"/api/feed/newer", "/api/notifications"} {
		rec := s.do(http.MethodPost, path, `{"objects":[{"providerId":"acc-1","since":"200"},{"providerId":"acc-1"}]}`)

		s.Equal(http.StatusBadRequest, rec.Code, path)
	}
}

func (s *HandlerTestSuite) TestNotifications() {
	s.svc.EXPECT().
		Notifications(gomock.Any(), "user-1", []aggregator.CursorRequest{{ProviderID: "acc-1", Since: "n1"}}, 10).
		Return(domain.Envelope[domain.Notification]{
			Posts:      []domain.Notification{{ID: "n2", AccountID: "acc-1", Kind: "mention"}},
			Pagination: []domain.PaginationEntry{{ProviderID: "acc-1", Since: "n2", Until: "n2"}},
		}, nil)

	rec := s.do(http.MethodPost, "/api/notifications", `{"objects":[{"providerId":"acc-1","since":"n1"}],"amount":10}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"kind":"mention"`)
}

func (s *HandlerTestSuite) TestAccounts() {
	s.svc.EXPECT().Accounts(gomock.Any(), "user-1").Return([]domain.PublicAccount{
		{ID: "acc-1", Provider: domain.ProviderRSS, ExternalID: "feed", Rank: 1},
	}, nil)

	rec := s.do(http.MethodGet, "/api/accounts", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[{"id":"acc-1","provider":"rss","externalId":"feed","rank":1}]`, rec.Body.String())
}

func (s *HandlerTestSuite) TestPost() {
	s.svc.EXPECT().Post(gomock.Any(), "user-1", "acc-1", "p1").Return(samplePost("p1", "acc-1"), nil)

	rec := s.do(http.MethodGet, "/api/accounts/acc-1/posts/p1", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"id":"p1"`)
}

func (s *HandlerTestSuite) TestPostComments() {
	s.svc.EXPECT().
		PostComments(gomock.Any(), "user-1", "acc-1", "p1", provider.CommentsQuery{Before: "2024-05-01T00:00:00Z", Limit: 5}).
		Return(domain.Comments{ProviderID: "acc-1", PostID: "p1", Comments: []domain.Comment{}, ParentComments: []domain.Comment{}}, nil)

	rec := s.do(http.MethodGet, "/api/accounts/acc-1/posts/p1/comments?before=2024-05-01T00:00:00Z&limit=5", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"hasMore":false`)
}

func (s *HandlerTestSuite) TestPostComments_InvalidLimit() {
	for _, limit := range []string{"abc", "0", "101"} {
		rec := s.do(http.MethodGet, "/api/accounts/acc-1/posts/p1/comments?limit="+limit, "")
		s.Equal(http.StatusBadRequest, rec.Code, limit)
	}
}

func (s *HandlerTestSuite) TestAction() {
	s.svc.EXPECT().
		Action(gomock.Any(), "user-1", "acc-1", "compose", json.RawMessage(`{"text":"hi"}`)).
		Return(map[string]string{"id": "new"}, nil)

	rec := s.do(http.MethodPost, "/api/accounts/acc-1/actions/compose", `{"text":"hi"}`)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"id":"new"}`, rec.Body.String())
}

func (s *HandlerTestSuite) TestAction_EmptyBody() {
	s.svc.EXPECT().Action(gomock.Any(), "user-1", "acc-1", "like", gomock.Nil()).Return(nil, nil)

	rec := s.do(http.MethodPost, "/api/accounts/acc-1/actions/like", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("null", rec.Body.String())
}

func (s *HandlerTestSuite) TestAction_InvalidJSON() {
	rec := s.do(http.MethodPost, "/api/accounts/acc-1/actions/like", `{"broken"`)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestPages() {
	s.svc.EXPECT().Pages(gomock.Any(), "user-1", "acc-1").Return([]domain.Page{{ID: "org-1", Name: "Org"}}, nil)

	rec := s.do(http.MethodGet, "/api/accounts/acc-1/pages", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[{"id":"org-1","name":"Org"}]`, rec.Body.String())
}

func (s *HandlerTestSuite) TestProfile() {
	s.svc.EXPECT().Profile(gomock.Any(), "user-1", "acc-1").Return(domain.Profile{ExternalID: "42", DisplayName: "Ada", Handle: "ada"}, nil)

	rec := s.do(http.MethodGet, "/api/accounts/acc-1/profile", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"externalId":"42","displayName":"Ada","handle":"ada"}`, rec.Body.String())
}

func (s *HandlerTestSuite) TestProfile_UnsupportedCapability() {
	s.svc.EXPECT().Profile(gomock.Any(), "user-1", "acc-1").Return(domain.Profile{}, fmt.Errorf("rss: auth: %w", provider.ErrUnsupportedCapability))

	rec := s.do(http.MethodGet, "/api/accounts/acc-1/profile", "")

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal(CodeUnsupportedCapability, s.decodeError(rec).Code)
}

func (s *HandlerTestSuite) TestProviders() {
	s.svc.EXPECT().Providers().Return([]aggregator.ProviderInfo{
		{Name: domain.ProviderRSS, Capabilities: []provider.Capability{provider.CapabilityFeed}},
	}, nil)

	rec := s.do(http.MethodGet, "/api/providers", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"name":"rss"`)
}

func (s *HandlerTestSuite) TestAuthURL() {
	s.svc.EXPECT().
		AuthURL(gomock.Any(), domain.ProviderMastodon, "xyz").
		Return(provider.RequestToken{AuthURL: "https://mastodon.example/oauth/authorize", State: "xyz"}, nil)

	rec := s.do(http.MethodGet, "/api/providers/mastodon/auth?state=xyz", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"authUrl":"https://mastodon.example/oauth/authorize","state":"xyz"}`, rec.Body.String())
}

func (s *HandlerTestSuite) TestCallback() {
	s.svc.EXPECT().
		Callback(gomock.Any(), domain.ProviderLinkedIn, provider.CallbackPayload{Code: "abc", State: "xyz"}).
		Return(nil, nil)

	rec := s.do(http.MethodPost, "/api/providers/linkedin/callback", `{"code":"abc","state":"xyz"}`)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *HandlerTestSuite) TestCallback_RequiresCode() {
	rec := s.do(http.MethodPost, "/api/providers/linkedin/callback", `{"state":"xyz"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestErrorMapping() {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("account x: %w", domain.ErrProviderNotFound), http.StatusNotFound, CodeProviderNotFound},
		{fmt.Errorf("%w: providers", domain.ErrInvalidRequest), http.StatusBadRequest, CodeInvalidRequest},
		{provider.MalformedCursor("rss", "bad", nil), http.StatusBadRequest, CodeMalformedCursor},
		{fmt.Errorf("x: %w", provider.ErrProviderNotConfigured), http.StatusUnprocessableEntity, CodeProviderNotConfigured},
		{fmt.Errorf("x: %w", provider.ErrUnsupportedCapability), http.StatusUnprocessableEntity, CodeUnsupportedCapability},
		{provider.UnsupportedAction("rss", "like"), http.StatusUnprocessableEntity, CodeUnsupportedAction},
		{provider.StatusError("mastodon", http.StatusNotFound), http.StatusNotFound, CodeNotFound},
		{provider.StatusError("mastodon", http.StatusTooManyRequests), http.StatusBadGateway, CodeUpstream},
		{errors.New("db down"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		s.Run(tc.code, func() {
			s.svc.EXPECT().Accounts(gomock.Any(), "user-1").Return(nil, tc.err)

			rec := s.do(http.MethodGet, "/api/accounts", "")

			s.Equal(tc.status, rec.Code)
			body := s.decodeError(rec)
			s.Equal(tc.code, body.Code)
			if tc.status == http.StatusInternalServerError {
				s.Equal(msgInternalServer, body.Error)
			}
		})
	}
}
