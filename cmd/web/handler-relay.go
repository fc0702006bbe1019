package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fmpulse/fmpulse/internal/errors"
)

const relayTimeout = 20 * time.Second

// relay proxies record lookups to the backend for scripted clients that cannot
// reach it directly. Responses are re-encoded so that only valid JSON ever
// leaves this endpoint.
func (app *application) relay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.URL.Query().Get("id")
	if id == "" {
		app.relayError(w, http.StatusBadRequest, errors.New("missing id parameter"))
		return
	}
	if app.lookupURL == "" {
		app.relayError(w, http.StatusInternalServerError, errors.New("lookup URL is not configured"))
		return
	}

	endpoint := fmt.Sprintf("%s?id=%s", app.lookupURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		app.relayError(w, http.StatusInternalServerError, errors.Wrap(err, "create relay request"))
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := app.relayClient.Do(req)
	if err != nil {
		app.relayError(w, http.StatusInternalServerError, errors.Wrap(err, "reach backend"))
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayBytes))
	if err != nil {
		app.relayError(w, http.StatusInternalServerError, errors.Wrap(err, "read backend response"))
		return
	}

	var payload any
	if err = json.Unmarshal(body, &payload); err != nil {
		app.relayError(w, http.StatusInternalServerError, errors.Wrap(err, "decode backend response"))
		return
	}

	if err = json.NewEncoder(w).Encode(payload); err != nil {
		app.logger.ErrorContext(r.Context(), "write relay response", errors.SlogError(err))
	}
}

const maxRelayBytes = 1 << 20

func (app *application) relayError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": fmt.Sprintf("Proxy error: %s", err),
	})
}
