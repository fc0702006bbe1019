package main

import (
	"net/http"
)

type infoTemplateData struct {
	BaseTemplateData
}

func (app *application) methodology(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "methodology", infoTemplateData{newBaseTemplateData(r)})
}

func (app *application) standards(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "standards", infoTemplateData{newBaseTemplateData(r)})
}
