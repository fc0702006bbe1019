package main

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/fmpulse/fmpulse/internal/contexthelpers"
	"github.com/fmpulse/fmpulse/internal/errors"
	"github.com/fmpulse/fmpulse/ui"
)

// pageTemplate parses the base layout, the named page, and the shared
// partials from the embedded filesystem.
//
// pageName corresponds to a file inside ui/templates/pages. It has to define a
// template named "page".
func pageTemplate(pageName string) (*template.Template, error) {
	// The FuncMap has to exist before parsing. The render function overrides
	// these with the per-request nonce and CSRF token.
	t := template.New(pageName).Funcs(template.FuncMap{
		"nonce": func() string {
			panic("not implemented")
		},
		"csrf": func() string {
			panic("not implemented")
		},
	})

	return t.ParseFS(ui.Files,
		"templates/base.gohtml",
		fmt.Sprintf("templates/pages/%s.gohtml", pageName),
		"templates/partials/*.gohtml",
	)
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, file string, data any) {
	var (
		err error
		t   *template.Template
	)

	if t, err = pageTemplate(file); err != nil {
		app.serverError(w, r, errors.Wrap(err, "parse template", slog.String("template", file)))
		return
	}

	buf := new(bytes.Buffer)
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // the nonce is generated server-side.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // the token is generated server-side.
		},
	})
	if err = t.ExecuteTemplate(buf, "base", data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("template", file)))
		return
	}

	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}

// renderPartial executes a single named template from ui/templates/partials
// without the base layout. Used for fragments swapped in by htmx.
func (app *application) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	t, err := template.ParseFS(ui.Files, "templates/partials/*.gohtml")
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "parse partials"))
		return
	}

	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute partial", slog.String("template", name)))
		return
	}

	_, _ = buf.WriteTo(w)
}
