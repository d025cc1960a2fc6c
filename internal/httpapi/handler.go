package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"feedhub/internal/aggregator"
	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

// HeaderUserID carries the authenticated user. Session handling happens
// in front of this service.
const HeaderUserID = "X-User-ID"

type appHandler func(w http.ResponseWriter, r *http.Request) error

type Handler struct {
	svc    FeedService
	logger *slog.Logger
}

func NewHandler(svc FeedService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With("component", "httpapi")}
}

// wrap adapts an appHandler and writes the error response when it fails.
func (h *Handler) wrap(fn appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		httpErr := toHTTPError(err)
		level := slog.LevelWarn
		if httpErr.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", httpErr.Status,
			"code", httpErr.Code,
			"error", err,
		)

		if headerSent(w) {
			return
		}
		respondError(w, httpErr)
	}
}

func userID(r *http.Request) (string, error) {
	id := r.Header.Get(HeaderUserID)
	if id == "" {
		return "", errUnauthorized("missing " + HeaderUserID + " header")
	}
	return id, nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) error {
	user, err := userID(r)
	if err != nil {
		return err
	}
	var req feedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	env, err := h.svc.Uniform(r.Context(), user, aggregator.UniformRequest{
		Providers: req.Providers,
		Amount:    amountOf(req.Amount),
	})
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, env)
	return nil
}

func (h *Handler) FeedOlder(w http.ResponseWriter, r *http.Request) error {
	user, err := userID(r)
	if err != nil {
		return err
	}
	var req olderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	env, err := h.svc.Older(r.Context(), user, req.cursors())
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, env)
	return nil
}

func (h *Handler) FeedNewer(w http.ResponseWriter, r *http.Request) error {
	user, err := userID(r)
	if err != nil {
		return err
	}
	var req newerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	env, err := h.svc.Newer(r.Context(), user, req.cursors())
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, env)
	return nil
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) error {
	user, err := userID(r)
	if err != nil {
		return err
	}
	var req notificationsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	env, err := h.svc.Notifications(r.Context(), user, req.cursors(), amountOf(req.Amount))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, env)
	return nil
}

func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) error {
	user, err := userID(r)
	if err != nil {
		return err
	}
	accounts, err := h.svc.Accounts(r.Context(), user)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, accounts)
	return nil
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) error {
	user, err := userID(r)
	if err != nil {
		return err
	}
	post, err := h.svc.Post(r.Context(), user, chi.URLParam(r, "id"), chi.URLParam(r, "postId"))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, post)
	return nil
}

func (h *Handler) PostComments(w http.ResponseWriter, r *http.Request) error {
	user, err := userID(r)
	if err != nil {
		return err
	}

	q := provider.CommentsQuery{Before: r.URL.Query().Get("before")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxAmount {
			return errBadRequest("limit must be an integer between 1 and " + strconv.Itoa(maxAmount))
		}
		q.Limit = limit
	}

	comments, err := h.svc.PostComments(r.Context(), user, chi.URLParam(r, "id"), chi.URLParam(r, "postId"), q)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, comments)
	return nil
}

func (h *Handler) Action(w http.ResponseWriter, r *http.Request) error {
	user, err := userID(r)
	if err != nil {
		return err
	}
	payload, err := readPayload(w, r)
	if err != nil {
		return err
	}

	result, err := h.svc.Action(r.Context(), user, chi.URLParam(r, "id"), chi.URLParam(r, "action"), payload)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) Pages(w http.ResponseWriter, r *http.Request) error {
	user, err := userID(r)
	if err != nil {
		return err
	}
	pages, err := h.svc.Pages(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, pages)
	return nil
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) error {
	user, err := userID(r)
	if err != nil {
		return err
	}
	profile, err := h.svc.Profile(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, profile)
	return nil
}

func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) error {
	providers, err := h.svc.Providers()
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, providers)
	return nil
}

func (h *Handler) AuthURL(w http.ResponseWriter, r *http.Request) error {
	if _, err := userID(r); err != nil {
		return err
	}
	name := domain.ProviderName(chi.URLParam(r, "name"))

	token, err := h.svc.AuthURL(r.Context(), name, r.URL.Query().Get("state"))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, token)
	return nil
}

func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) error {
	if _, err := userID(r); err != nil {
		return err
	}
	var req callbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}
	name := domain.ProviderName(chi.URLParam(r, "name"))

	found, err := h.svc.Callback(r.Context(), name, req.payload())
	if err != nil {
		return err
	}
	if found == nil {
		found = []domain.DiscoveredAccount{}
	}
	respondJSON(w, http.StatusOK, found)
	return nil
}
