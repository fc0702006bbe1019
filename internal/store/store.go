// Package store is the SQLite system of record for assessment submissions and
// their scoring results.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/fmpulse/fmpulse/internal/accesscode"
	"github.com/fmpulse/fmpulse/internal/assessment"
	"github.com/fmpulse/fmpulse/internal/errors"
	"github.com/fmpulse/fmpulse/internal/scoring"
	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// ErrNoRecord is returned when no assessment matches the given access code.
var ErrNoRecord = errors.NewSentinel("no matching assessment record")

// maxCodeAttempts caps access-code regeneration on collision. With a 32^4 code
// space collisions stay rare far beyond any realistic respondent count.
const maxCodeAttempts = 10

// Store persists assessments.
type Store struct {
	readWrite *sqlx.DB
	readOnly  *sqlx.DB
	logger    *slog.Logger
	// newCode generates candidate access codes, replaceable in tests.
	newCode func() (string, error)
}

// New opens the store at the given SQLite URL and ensures the schema exists.
func New(url string, logger *slog.Logger) (*Store, error) {
	readWrite, readOnly, err := openDatabases(url)
	if err != nil {
		return nil, errors.Wrap(err, "open store", slog.String("url", url))
	}
	return &Store{
		readWrite: readWrite,
		readOnly:  readOnly,
		logger:    logger.With("source", "store.Store"),
		newCode:   accesscode.New,
	}, nil
}

// Close closes both database connections.
func (s *Store) Close() error {
	return errors.Join(s.readWrite.Close(), s.readOnly.Close())
}

// Submission is an incoming assessment before scoring.
type Submission struct {
	RespondentName  string
	RespondentEmail string
	Organization    string
	Answers         map[string]string
}

// CreateSubmission stores the submission under a freshly minted access code and
// returns the code. Colliding codes are regenerated.
func (s *Store) CreateSubmission(ctx context.Context, sub Submission) (string, error) {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return "", errors.Wrap(err, "encode answers")
	}

	stmt := `INSERT INTO assessments (code, respondent_name, respondent_email, organization, submitted_at, answers)
	VALUES (?, ?, ?, ?, ?, ?)`
	submittedAt := time.Now().UTC().Format(time.RFC3339)

	for range maxCodeAttempts {
		var code string
		if code, err = s.newCode(); err != nil {
			return "", errors.Wrap(err, "generate access code")
		}

		_, err = s.readWrite.ExecContext(ctx, stmt,
			code, sub.RespondentName, sub.RespondentEmail, sub.Organization, submittedAt, string(answers))
		if err == nil {
			return code, nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			s.logger.DebugContext(ctx, "access code collision, regenerating", slog.String("code", code))
			continue
		}
		return "", errors.Wrap(err, "insert submission")
	}
	return "", errors.New("could not mint a unique access code")
}

type assessmentRow struct {
	Code             string `db:"code"`
	RespondentName   string `db:"respondent_name"`
	RespondentEmail  string `db:"respondent_email"`
	Organization     string `db:"organization"`
	SubmittedAt      string `db:"submitted_at"`
	OverallScore     int    `db:"overall_score"`
	OverallLevel     string `db:"overall_level"`
	PlanningScore    int    `db:"planning_score"`
	SupportScore     int    `db:"support_score"`
	OperationScore   int    `db:"operation_score"`
	PerformanceScore int    `db:"performance_score"`
}

// Record looks up the assessment for the given access code. The lookup is
// case-insensitive. Returns ErrNoRecord when the code is unknown.
func (s *Store) Record(ctx context.Context, code string) (*assessment.Record, error) {
	code = accesscode.Normalize(code)

	var row assessmentRow
	stmt := `SELECT code, respondent_name, respondent_email, organization, submitted_at,
	overall_score, overall_level, planning_score, support_score, operation_score, performance_score
	FROM assessments WHERE code = ?`
	if err := s.readOnly.GetContext(ctx, &row, stmt, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "read assessment", slog.String("code", code))
	}

	record := assessment.Record{
		ID:               row.Code,
		RespondentName:   row.RespondentName,
		RespondentEmail:  row.RespondentEmail,
		Organization:     row.Organization,
		SubmissionDate:   submissionDate(row.SubmittedAt),
		OverallScore:     row.OverallScore,
		OverallLevel:     row.OverallLevel,
		PlanningScore:    row.PlanningScore,
		SupportScore:     row.SupportScore,
		OperationScore:   row.OperationScore,
		PerformanceScore: row.PerformanceScore,
	}
	record.ApplyDefaults()
	return &record, nil
}

// Answers returns the raw submission answers for re-scoring.
func (s *Store) Answers(ctx context.Context, code string) (map[string]string, error) {
	code = accesscode.Normalize(code)

	var encoded string
	if err := s.readOnly.GetContext(ctx, &encoded,
		`SELECT answers FROM assessments WHERE code = ?`, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "read answers", slog.String("code", code))
	}

	answers := map[string]string{}
	if err := json.Unmarshal([]byte(encoded), &answers); err != nil {
		return nil, errors.Wrap(err, "decode answers", slog.String("code", code))
	}
	return answers, nil
}

// SetOutcome writes the scoring results for the given access code.
func (s *Store) SetOutcome(ctx context.Context, code string, outcome scoring.Outcome) error {
	code = accesscode.Normalize(code)

	stmt := `UPDATE assessments SET
	overall_score = ?, overall_level = ?,
	planning_score = ?, support_score = ?, operation_score = ?, performance_score = ?,
	reasons = ?, recommendations = ?, next_steps = ?
	WHERE code = ?`
	res, err := s.readWrite.ExecContext(ctx, stmt,
		outcome.OverallScore, outcome.OverallLevel,
		outcome.PlanningScore, outcome.SupportScore, outcome.OperationScore, outcome.PerformanceScore,
		strings.Join(outcome.Reasons, "\n"), strings.Join(outcome.Recommendations, "\n"), outcome.NextSteps,
		code)
	if err != nil {
		return errors.Wrap(err, "update assessment scores", slog.String("code", code))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return ErrNoRecord
	}
	return nil
}

// submissionDate trims a stored RFC3339 timestamp down to the calendar date
// shown on the report.
func submissionDate(submittedAt string) string {
	if ts, err := time.Parse(time.RFC3339, submittedAt); err == nil {
		return ts.Format("2006-01-02")
	}
	return submittedAt
}
