package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/fmpulse/fmpulse/internal/errors"
	"github.com/fmpulse/fmpulse/internal/scoring"
	"github.com/fmpulse/fmpulse/internal/store"
)

// scoringTimeout bounds the background scoring flow including retries and the
// report email.
const scoringTimeout = 5 * time.Minute

type submissionRequest struct {
	RespondentName  string            `json:"respondentName"`
	RespondentEmail string            `json:"respondentEmail"`
	Organization    string            `json:"organization"`
	Answers         map[string]string `json:"answers"`
}

// createSubmission stores an incoming assessment and kicks off scoring in the
// background. The respondent gets their access code immediately, the scores
// land once the analysis finishes.
func (app *application) createSubmission(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.jsonError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.RespondentEmail != "" {
		if _, err := mail.ParseAddress(req.RespondentEmail); err != nil {
			app.jsonError(w, r, http.StatusBadRequest, "invalid respondent email")
			return
		}
	}
	if len(req.Answers) == 0 {
		app.jsonError(w, r, http.StatusBadRequest, "missing answers")
		return
	}

	code, err := app.store.CreateSubmission(r.Context(), store.Submission{
		RespondentName:  req.RespondentName,
		RespondentEmail: req.RespondentEmail,
		Organization:    req.Organization,
		Answers:         req.Answers,
	})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	go app.scoreAndNotify(code, req)

	app.writeJSON(w, r, http.StatusAccepted, map[string]string{"id": code})
}

// scoreAndNotify runs the scoring flow for a stored submission and emails the
// report. It runs detached from the request so a slow analysis never blocks
// the respondent.
func (app *application) scoreAndNotify(code string, req submissionRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), scoringTimeout)
	defer cancel()
	logger := app.logger.With(slog.String("code", code))

	outcome, err := app.scorer.Score(ctx, req.Answers)
	if err != nil {
		if errors.Is(err, scoring.ErrNoCredential) {
			logger.InfoContext(ctx, "scoring credential not configured, leaving submission pending")
			return
		}
		logger.ErrorContext(ctx, "scoring failed, leaving submission pending", errors.SlogError(err))
		return
	}

	if err = app.store.SetOutcome(ctx, code, *outcome); err != nil {
		logger.ErrorContext(ctx, "store scoring outcome", errors.SlogError(err))
		return
	}

	if req.RespondentEmail == "" {
		return
	}
	if err = app.mailer.SendReport(ctx, req.RespondentEmail, req.RespondentName, code, *outcome); err != nil {
		logger.ErrorContext(ctx, "send report email", errors.SlogError(err))
	}
}
