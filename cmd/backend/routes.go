package main

import (
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/submissions", app.createSubmission)
	mux.HandleFunc("GET /api/lookup", app.lookupRecord)
	mux.HandleFunc("GET /api/healthy", app.healthy)

	return app.recoverPanic(app.logRequest(mux))
}
