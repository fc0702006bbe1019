package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_demoReport(t *testing.T) {
	// No lookup URL configured, so the demo record backs every code.
	server := startTestServer(t, os.Stdout, testEnv(nil))

	doc := server.GetDoc(t, "/report?id=DEMO")

	assert.Equal(t, "DEMO MODE", doc.Find(".demo-badge").Text())
	assert.Equal(t, "Demo Organization", doc.Find(".report-header h2").Text())
	assert.Equal(t, "72", doc.Find(".gauge-score").Text())
	assert.Equal(t, 4, doc.Find(".clause-row").Length())
	assert.Contains(t, doc.Find(".score-gauge").AttrOr("class", ""), "band-established")
}

func Test_demoReport_lowercaseCode(t *testing.T) {
	server := startTestServer(t, os.Stdout, testEnv(nil))

	doc := server.GetDoc(t, "/report?id=demo")

	assert.Equal(t, "Demo Organization", doc.Find(".report-header h2").Text())
}

func Test_report_recordFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "K7PQ",
			"respondentName": "Maija Virtanen",
			"organization": "Pohjola Facilities Oy",
			"submissionDate": "2026-08-14",
			"aiMaturityScore": 55,
			"aiMaturityLevel": "Developing",
			"clause6Score": 50,
			"clause7Score": 60,
			"clause8Score": 58,
			"clause9Score": 52
		}`))
	}))
	defer backend.Close()
	server := startTestServer(t, os.Stdout, testEnv(map[string]string{"FMPULSE_LOOKUP_URL": backend.URL}))

	doc := server.GetDoc(t, "/report?id=K7PQ")

	assert.Equal(t, "Pohjola Facilities Oy", doc.Find(".report-header h2").Text())
	assert.Equal(t, "55", doc.Find(".gauge-score").Text())
	assert.Contains(t, doc.Find(".score-gauge").AttrOr("class", ""), "band-developing")
	assert.Equal(t, 0, doc.Find(".demo-badge").Length())

	// The session remembers the code, so a bare /report re-opens the report.
	doc = server.GetDoc(t, "/report")
	assert.Equal(t, "Pohjola Facilities Oy", doc.Find(".report-header h2").Text())
}

func Test_report_noCode_redirectsHome(t *testing.T) {
	server := startTestServer(t, os.Stdout, testEnv(map[string]string{"FMPULSE_LOOKUP_URL": "http://localhost:1"}))

	doc := server.GetDoc(t, "/report")

	// Follows the redirect to the login page.
	assert.Equal(t, 1, doc.Find("form[action='/report']").Length())
}

func Test_report_notFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer backend.Close()
	server := startTestServer(t, os.Stdout, testEnv(map[string]string{"FMPULSE_LOOKUP_URL": backend.URL}))

	doc, status := server.GetDocStatus(t, "/report?id=ZZZZ")

	require.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, doc.Find(".message-card").Text(), "ZZZZ")
}

func Test_report_notFoundSentinelBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": "Record not found"}`))
	}))
	defer backend.Close()
	server := startTestServer(t, os.Stdout, testEnv(map[string]string{"FMPULSE_LOOKUP_URL": backend.URL}))

	_, status := server.GetDocStatus(t, "/report?id=QQQQ")

	assert.Equal(t, http.StatusNotFound, status)
}

func Test_report_signInPageBackend(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>Sign in with accounts.google.com</body></html>`))
	}))
	defer backend.Close()
	server := startTestServer(t, os.Stdout, testEnv(map[string]string{"FMPULSE_LOOKUP_URL": backend.URL}))

	doc, status := server.GetDocStatus(t, "/report?id=AAAA")

	require.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "PERMISSION", doc.Find("[data-error-kind]").AttrOr("data-error-kind", ""))
}

func Test_report_unreachableBackend(t *testing.T) {
	// Port 1 is never listening, so the connection is refused.
	endpoint := "http://localhost:1/lookup"
	server := startTestServer(t, os.Stdout, testEnv(map[string]string{"FMPULSE_LOOKUP_URL": endpoint}))

	doc, status := server.GetDocStatus(t, "/report?id=AAAA")

	require.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "NETWORK", doc.Find("[data-error-kind]").AttrOr("data-error-kind", ""))
	assert.Contains(t, doc.Find(".error-detail").Text(), endpoint)
}

func Test_report_backendFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()
	server := startTestServer(t, os.Stdout, testEnv(map[string]string{"FMPULSE_LOOKUP_URL": backend.URL}))

	doc, status := server.GetDocStatus(t, "/report?id=AAAA")

	require.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "SERVER_ERROR", doc.Find("[data-error-kind]").AttrOr("data-error-kind", ""))
}

func Test_reportNarrative_demo(t *testing.T) {
	server := startTestServer(t, os.Stdout, testEnv(nil))

	req, err := http.NewRequest(http.MethodGet, server.url+"/report/narrative?id=DEMO", nil)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	resp, err := server.client.Do(req)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := parseDoc(t, resp)
	assert.Contains(t, doc.Text(), "demo mode")
	assert.Contains(t, doc.Text(), "[GAP]")
	assert.Contains(t, doc.Text(), "[ACTION]")
}

func Test_reportNarrative_withoutHtmxRedirects(t *testing.T) {
	server := startTestServer(t, os.Stdout, testEnv(nil))

	// A plain browser request lands on the full report page instead.
	doc := server.GetDoc(t, "/report/narrative?id=DEMO")

	assert.Equal(t, "Demo Organization", doc.Find(".report-header h2").Text())
}
