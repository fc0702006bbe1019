package main

import (
	"net/http"

	"github.com/fmpulse/fmpulse/internal/narrative"
)

type narrativeTemplateData struct {
	Narrative narrative.Result
}

// reportNarrative serves the narrative fragment that htmx swaps into the
// report page after load. The numeric report never waits for generation.
func (app *application) reportNarrative(w http.ResponseWriter, r *http.Request) {
	if !app.htmx.NewHandler(w, r).IsHxRequest() {
		http.Redirect(w, r, "/report?id="+r.URL.Query().Get("id"), http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("id")
	if code == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	record, err := app.lookups.Fetch(r.Context(), code)
	data := narrativeTemplateData{Narrative: narrative.FallbackResult()}
	if err == nil && record != nil {
		data.Narrative = app.narratives.Generate(r.Context(), *record)
	}

	app.renderPartial(w, r, "narrative", data)
}
