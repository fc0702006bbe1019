// Command smoketest verifies a deployed dashboard end to end: the health
// endpoint answers and the demo report renders with its narrative fragment.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fmpulse/fmpulse/internal/errors"
	"github.com/fmpulse/fmpulse/internal/logging"
)

const requestTimeout = 10 * time.Second

func getDoc(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch page")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status", slog.Int("status", resp.StatusCode))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse document")
	}
	return doc, nil
}

func testDashboard(ctx context.Context, baseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	client := &http.Client{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/healthy", nil)
	if err != nil {
		return errors.Wrap(err, "create health request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "check health")
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("health check failed", slog.Int("status", resp.StatusCode))
	}

	doc, err := getDoc(ctx, client, baseURL+"/report?id=DEMO")
	if err != nil {
		return errors.Wrap(err, "fetch demo report")
	}
	if doc.Find(".gauge-score").Length() == 0 {
		return errors.New("demo report is missing the score gauge")
	}

	narrativeReq, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/report/narrative?id=DEMO", nil)
	if err != nil {
		return errors.Wrap(err, "create narrative request")
	}
	narrativeReq.Header.Set("HX-Request", "true")
	narrativeResp, err := client.Do(narrativeReq)
	if err != nil {
		return errors.Wrap(err, "fetch narrative fragment")
	}
	defer func() {
		_ = narrativeResp.Body.Close()
	}()
	fragment, err := goquery.NewDocumentFromReader(narrativeResp.Body)
	if err != nil {
		return errors.Wrap(err, "parse narrative fragment")
	}
	if !strings.Contains(fragment.Text(), "[GAP]") {
		return errors.New("narrative fragment is missing the gap analysis")
	}

	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	hostname := os.Args[1]
	url := "https://" + hostname
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if err := testDashboard(ctx, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing dashboard", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
