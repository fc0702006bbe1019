package main

import (
	"net/http"

	"github.com/fmpulse/fmpulse/internal/errors"
	"github.com/fmpulse/fmpulse/internal/store"
)

// lookupRecord resolves an access code to its assessment record. The response
// contract is consumed by the dashboard's lookup client: unknown codes answer
// 404 with a "Record not found" error payload.
func (app *application) lookupRecord(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		app.jsonError(w, r, http.StatusBadRequest, "Missing id parameter")
		return
	}

	record, err := app.store.Record(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			app.jsonError(w, r, http.StatusNotFound, "Record not found")
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, record)
}

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
