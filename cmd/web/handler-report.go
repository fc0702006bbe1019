package main

import (
	"net/http"
	"net/url"

	"github.com/fmpulse/fmpulse/internal/accesscode"
	"github.com/fmpulse/fmpulse/internal/assessment"
	"github.com/fmpulse/fmpulse/internal/errors"
	"github.com/fmpulse/fmpulse/internal/lookup"
)

type reportTemplateData struct {
	BaseTemplateData
	Record assessment.Record
	Band   assessment.Band
	Demo   bool
}

type notFoundTemplateData struct {
	BaseTemplateData
	Code string
}

type lookupErrorTemplateData struct {
	BaseTemplateData
	Kind   string
	Detail string
}

// report shows the maturity report for the access code in the id query
// parameter, falling back to the last code opened in this session.
func (app *application) report(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("id")
	if code == "" {
		code = app.sessionManager.GetString(r.Context(), lastCodeSessionKey)
	}
	if code == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	record, err := app.lookups.Fetch(r.Context(), code)
	if err != nil {
		app.renderLookupFailure(w, r, err)
		return
	}
	if record == nil {
		data := notFoundTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Code:             accesscode.Normalize(code),
		}
		app.render(w, r, http.StatusNotFound, "notfound", data)
		return
	}

	app.sessionManager.Put(r.Context(), lastCodeSessionKey, record.ID)

	data := reportTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Record:           *record,
		Band:             assessment.BandForScore(record.OverallScore),
		Demo:             record.ID == assessment.DemoID,
	}
	app.render(w, r, http.StatusOK, "report", data)
}

// openReport handles the login form. Redirecting to the canonical report URL
// keeps reports bookmarkable and avoids form resubmission.
func (app *application) openReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	code := accesscode.Normalize(r.PostForm.Get("id"))
	if code == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/report?id="+url.QueryEscape(code), http.StatusSeeOther)
}

// renderLookupFailure maps a classified lookup error to its dedicated error
// view. Unclassified errors fall through to the generic 500 response.
func (app *application) renderLookupFailure(w http.ResponseWriter, r *http.Request, err error) {
	var lookupErr *lookup.Error
	if !errors.As(err, &lookupErr) {
		app.serverError(w, r, err)
		return
	}

	status := http.StatusInternalServerError
	switch lookupErr.Kind {
	case lookup.KindNetwork, lookup.KindServerError:
		status = http.StatusBadGateway
	}

	data := lookupErrorTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Kind:             string(lookupErr.Kind),
		Detail:           lookupErr.Detail,
	}
	app.render(w, r, status, "error", data)
}
