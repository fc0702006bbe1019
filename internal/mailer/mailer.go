// Package mailer sends the report email carrying the respondent's access code.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/fmpulse/fmpulse/internal/errors"
	"github.com/fmpulse/fmpulse/internal/scoring"
	"github.com/wneessen/go-mail"

	_ "embed"
)

//go:embed report.gohtml
var reportTemplateSource string

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateSource))

// Config is read once at startup and passed in at composition time.
type Config struct {
	// Host of the SMTP server. When empty, sending is skipped so that
	// deployments without an email setup still work.
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// DashboardURL is the base for the emailed deep link.
	DashboardURL string
}

// Mailer sends report emails.
type Mailer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a mailer from explicit configuration.
func New(cfg Config, logger *slog.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger.With("source", "mailer.Mailer"),
	}
}

type reportData struct {
	Name            string
	Code            string
	OverallScore    int
	OverallLevel    string
	Reasons         []string
	Recommendations []string
	NextSteps       string
	DashboardLink   string
	Year            int
}

// SendReport emails the access code and scoring summary to the respondent.
// A missing SMTP host logs and skips instead of failing the submission flow.
func (m *Mailer) SendReport(ctx context.Context, to, name, code string, outcome scoring.Outcome) error {
	if m.cfg.Host == "" {
		m.logger.InfoContext(ctx, "SMTP host not configured, skipping report email",
			slog.String("code", code))
		return nil
	}

	body, err := renderBody(reportData{
		Name:            name,
		Code:            code,
		OverallScore:    outcome.OverallScore,
		OverallLevel:    outcome.OverallLevel,
		Reasons:         outcome.Reasons,
		Recommendations: outcome.Recommendations,
		NextSteps:       outcome.NextSteps,
		DashboardLink:   fmt.Sprintf("%s/report?id=%s", m.cfg.DashboardURL, code),
		Year:            time.Now().Year(),
	})
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err = msg.From(m.cfg.From); err != nil {
		return errors.Wrap(err, "set from address")
	}
	if err = msg.To(to); err != nil {
		return errors.Wrap(err, "set to address")
	}
	msg.Subject(fmt.Sprintf("Your FM Assessment Maturity Report: %s", outcome.OverallLevel))
	msg.SetBodyString(mail.TypeTextHTML, body)

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password))
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return errors.Wrap(err, "create SMTP client")
	}

	if err = client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "send report email", slog.String("code", code))
	}
	m.logger.InfoContext(ctx, "sent report email", slog.String("code", code))
	return nil
}

func renderBody(data reportData) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "execute report template")
	}
	return buf.String(), nil
}
