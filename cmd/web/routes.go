package main

import (
	"net/http"

	"github.com/fmpulse/fmpulse/ui"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	// The embedded filesystem keeps the static paths under static/, which
	// matches the URL prefix so no stripping is needed.
	fileServer := http.FileServer(http.FS(ui.Files))
	mux.Handle("GET /static/", cacheForeverHeaders(fileServer))

	dynamic := alice.New(app.sessionManager.LoadAndSave, noSurf, commonContext)

	mux.Handle("GET /{$}", dynamic.ThenFunc(app.home))
	mux.Handle("GET /report", dynamic.ThenFunc(app.report))
	mux.Handle("POST /report", dynamic.ThenFunc(app.openReport))
	mux.Handle("GET /report/narrative", dynamic.ThenFunc(app.reportNarrative))
	mux.Handle("GET /methodology", dynamic.ThenFunc(app.methodology))
	mux.Handle("GET /standards", dynamic.ThenFunc(app.standards))

	// The JSON endpoints stay outside the session chain.
	mux.HandleFunc("GET /api/report", app.relay)
	mux.HandleFunc("GET /api/healthy", app.healthy)

	return app.recoverPanic(app.logRequest(secureHeaders(timeoutHandler(mux, serverWriteTimeout))))
}
