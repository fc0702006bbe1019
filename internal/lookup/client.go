// Package lookup fetches assessment records from the backend lookup API and
// translates its unusual failure surface into a closed set of user-facing
// error categories.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fmpulse/fmpulse/internal/accesscode"
	"github.com/fmpulse/fmpulse/internal/assessment"
	"github.com/fmpulse/fmpulse/internal/errors"
)

// maxBodyBytes bounds how much of a response we read. Record payloads are tiny;
// anything larger is a misbehaving backend.
const maxBodyBytes = 1 << 20

const requestTimeout = 15 * time.Second

// notFoundSentinels are the error strings backend revisions use for "no such
// code". All are accepted so that the dashboard works against any of them.
var notFoundSentinels = []string{"Record not found", "NOT_FOUND", "RECORD_NOT_FOUND"}

// Config is read once at startup and passed in at composition time.
type Config struct {
	// BaseURL is the lookup endpoint. When empty, every non-demo lookup
	// resolves to the demo record so that local development works without a
	// live backend.
	BaseURL string
	// HTTPClient overrides the default client, used in tests.
	HTTPClient *http.Client
}

// Client resolves access codes to assessment records.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a lookup client. The client follows redirects and gives up after
// a 15-second timeout.
func New(cfg Config, logger *slog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		logger:     logger.With("source", "lookup.Client"),
	}
}

// Fetch resolves a code to a record. A nil record with a nil error means the
// code is well-formed but no record exists. All other failures are returned as
// a classified *Error.
//
// Fetch performs no caching and no retries. Every call hits the network.
func (c *Client) Fetch(ctx context.Context, code string) (*assessment.Record, error) {
	code = accesscode.Normalize(code)

	if code == assessment.DemoID {
		record := assessment.DemoRecord()
		return &record, nil
	}

	if c.baseURL == "" {
		c.logger.WarnContext(ctx, "lookup URL not configured, serving demo record", slog.String("code", code))
		record := assessment.DemoRecord()
		return &record, nil
	}

	endpoint := fmt.Sprintf("%s?id=%s", c.baseURL, url.QueryEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Detail: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failure, the request never produced an HTTP status.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, &Error{
				Kind:   KindNetwork,
				Detail: fmt.Sprintf("could not reach %s: %s", c.baseURL, urlErr.Err),
			}
		}
		return nil, &Error{Kind: KindUnknown, Detail: err.Error()}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WarnContext(ctx, "close lookup response body", errors.SlogError(closeErr))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Detail: fmt.Sprintf("read response from %s: %s", c.baseURL, err)}
	}

	return classify(resp.StatusCode, body)
}

// classify translates a raw lookup response into a record, a not-found nil, or
// a classified error. The backend platform exposes failure through
// unconventional signals, most notably an HTML sign-in page served with HTTP
// 200, so all of the disambiguation lives here.
func classify(status int, body []byte) (*assessment.Record, error) {
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status < 200 || status > 299 {
		return nil, &Error{Kind: KindServerError, Detail: fmt.Sprintf("backend returned HTTP %d", status)}
	}

	if looksLikeSignInPage(body) {
		return nil, &Error{
			Kind:   KindPermission,
			Detail: "the backend responded with a sign-in page; its deployment must allow anonymous access",
		}
	}

	var payload struct {
		assessment.Record
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{Kind: KindInvalidResponse, Detail: "backend response is not valid JSON"}
	}

	if payload.Error != "" {
		if isNotFoundSentinel(payload.Error) {
			return nil, nil
		}
		return nil, &Error{Kind: KindServerError, Detail: payload.Error}
	}

	record := payload.Record
	record.ApplyDefaults()
	return &record, nil
}

// looksLikeSignInPage sniffs for the HTML the backend platform serves in place
// of JSON when the API deployment requires authentication. Checking the body is
// an integration quirk of that platform, not a general pattern.
func looksLikeSignInPage(body []byte) bool {
	head := strings.ToLower(string(body[:min(len(body), 1024)]))
	return strings.Contains(head, "<!doctype") ||
		strings.Contains(head, "<html") ||
		strings.Contains(head, "accounts.google.com")
}

func isNotFoundSentinel(errStr string) bool {
	for _, sentinel := range notFoundSentinels {
		if strings.EqualFold(errStr, sentinel) {
			return true
		}
	}
	return false
}
