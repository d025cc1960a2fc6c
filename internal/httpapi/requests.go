package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"feedhub/internal/aggregator"
	"feedhub/internal/provider"
)

const (
	maxBodyBytes = 1 << 20
	maxAmount    = 100
)

type feedRequest struct {
	Providers []string `json:"providers"`
	Amount    *int     `json:"amount,omitempty"`
}

func (r feedRequest) validate() error {
	if len(r.Providers) == 0 {
		return errBadRequest("providers must not be empty")
	}
	for _, id := range r.Providers {
		if strings.TrimSpace(id) == "" {
			return errBadRequest("providers must not contain empty ids")
		}
	}
	return validateAmount(r.Amount)
}

type olderObject struct {
	ProviderID string `json:"providerId"`
	Until      string `json:"until"`
}

type olderRequest struct {
	Objects []olderObject `json:"objects"`
}

func (r olderRequest) validate() error {
	if len(r.Objects) == 0 {
		return errBadRequest("objects must not be empty")
	}
	until := make(map[string]string, len(r.Objects))
	for _, o := range r.Objects {
		if o.ProviderID == "" {
			return errBadRequest("providerId is required")
		}
		if err := checkRepeat(until, o.ProviderID, o.Until); err != nil {
			return err
		}
	}
	return nil
}

func (r olderRequest) cursors() []aggregator.CursorRequest {
	out := make([]aggregator.CursorRequest, len(r.Objects))
	for i, o := range r.Objects {
		out[i] = aggregator.CursorRequest{ProviderID: o.ProviderID, Until: o.Until}
	}
	return out
}

type newerObject struct {
	ProviderID string `json:"providerId"`
	Since      string `json:"since"`
}

type newerRequest struct {
	Objects []newerObject `json:"objects"`
}

func (r newerRequest) validate() error {
	return validateNewer(r.Objects)
}

func (r newerRequest) cursors() []aggregator.CursorRequest {
	return sinceCursors(r.Objects)
}

type notificationsRequest struct {
	Objects []newerObject `json:"objects"`
	Amount  *int          `json:"amount,omitempty"`
}

func (r notificationsRequest) validate() error {
	if err := validateNewer(r.Objects); err != nil {
		return err
	}
	return validateAmount(r.Amount)
}

func (r notificationsRequest) cursors() []aggregator.CursorRequest {
	return sinceCursors(r.Objects)
}

func validateNewer(objects []newerObject) error {
	if len(objects) == 0 {
		return errBadRequest("objects must not be empty")
	}
	since := make(map[string]string, len(objects))
	for _, o := range objects {
		if o.ProviderID == "" {
			return errBadRequest("providerId is required")
		}
		if err := checkRepeat(since, o.ProviderID, o.Since); err != nil {
			return err
		}
	}
	return nil
}

// checkRepeat records the cursor of id in seen. A repeated id must carry
// the same cursor.
func checkRepeat(seen map[string]string, id, cursor string) error {
	if prev, ok := seen[id]; ok && prev != cursor {
		return errBadRequest(fmt.Sprintf("providerId %s is listed with conflicting cursors", id))
	}
	seen[id] = cursor
	return nil
}

func sinceCursors(objects []newerObject) []aggregator.CursorRequest {
	out := make([]aggregator.CursorRequest, len(objects))
	for i, o := range objects {
		out[i] = aggregator.CursorRequest{ProviderID: o.ProviderID, Since: o.Since}
	}
	return out
}

type callbackRequest struct {
	Code     string `json:"code"`
	State    string `json:"state"`
	Instance string `json:"instance,omitempty"`
}

func (r callbackRequest) validate() error {
	if r.Code == "" {
		return errBadRequest("code is required")
	}
	return nil
}

func (r callbackRequest) payload() provider.CallbackPayload {
	return provider.CallbackPayload{Code: r.Code, State: r.State, Instance: r.Instance}
}

func validateAmount(amount *int) error {
	if amount == nil {
		return nil
	}
	if *amount < 1 || *amount > maxAmount {
		return errBadRequest(fmt.Sprintf("amount must be between 1 and %d", maxAmount))
	}
	return nil
}

func amountOf(amount *int) int {
	if amount == nil {
		return 0
	}
	return *amount
}

// decodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errBadRequest("request body is empty")
		}
		return errBadRequest("invalid request payload: " + err.Error())
	}
	if dec.More() {
		return errBadRequest("request body must contain a single JSON object")
	}
	return nil
}

// readPayload returns the raw JSON body, or nil when the body is empty.
func readPayload(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errBadRequest("read request body: " + err.Error())
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, errBadRequest("request body is not valid JSON")
	}
	return json.RawMessage(data), nil
}
