package store

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/fmpulse/fmpulse/internal/scoring"
	"github.com/fmpulse/fmpulse/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestCreateSubmissionAndRecord(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	code, err := s.CreateSubmission(ctx, Submission{
		RespondentName:  "Ada Lovelace",
		RespondentEmail: "ada@example.com",
		Organization:    "Analytical Engines Ltd",
		Answers:         map[string]string{"Do you have an FM policy?": "Partially"},
	})
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^[A-HJ-NP-Z2-9]{4}$`), code)

	record, err := s.Record(ctx, code)
	require.NoError(t, err)
	require.Equal(t, code, record.ID)
	require.Equal(t, "Ada Lovelace", record.RespondentName)
	require.Equal(t, "Analytical Engines Ltd", record.Organization)
	// Unscored submissions read back as pending.
	require.Equal(t, "Pending", record.OverallLevel)
	require.Zero(t, record.OverallScore)
	require.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), record.SubmissionDate)
}

func TestRecordIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	code, err := s.CreateSubmission(ctx, Submission{Organization: "Acme"})
	require.NoError(t, err)

	record, err := s.Record(ctx, " "+strings.ToLower(code)+" ")
	require.NoError(t, err)
	require.Equal(t, code, record.ID)
}

func TestRecordNotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	record, err := s.Record(context.Background(), "ZZZZ")
	require.ErrorIs(t, err, ErrNoRecord)
	require.Nil(t, record)
}

func TestCreateSubmissionRegeneratesCollidingCodes(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	// Force the first mint of the second submission to collide.
	first, err := s.CreateSubmission(ctx, Submission{Organization: "First"})
	require.NoError(t, err)

	codes := []string{first, "B7Q3"}
	s.newCode = func() (string, error) {
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code, nil
	}

	second, err := s.CreateSubmission(ctx, Submission{Organization: "Second"})
	require.NoError(t, err)
	require.Equal(t, "B7Q3", second)
}

func TestSetOutcome(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	code, err := s.CreateSubmission(ctx, Submission{Organization: "Acme"})
	require.NoError(t, err)

	outcome := scoring.Outcome{
		OverallScore:     68,
		OverallLevel:     "Defined",
		PlanningScore:    60,
		SupportScore:     70,
		OperationScore:   75,
		PerformanceScore: 55,
		Reasons:          []string{"No documented FM policy"},
		Recommendations:  []string{"Adopt a policy"},
		NextSteps:        "Schedule an internal audit.",
	}
	require.NoError(t, s.SetOutcome(ctx, code, outcome))

	record, err := s.Record(ctx, code)
	require.NoError(t, err)
	require.Equal(t, 68, record.OverallScore)
	require.Equal(t, "Defined", record.OverallLevel)
	require.Equal(t, 55, record.PerformanceScore)

	require.ErrorIs(t, s.SetOutcome(ctx, "ZZZZ", outcome), ErrNoRecord)
}

func TestAnswersRoundtrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	answers := map[string]string{"q1": "yes", "q2": "no"}
	code, err := s.CreateSubmission(ctx, Submission{Answers: answers})
	require.NoError(t, err)

	got, err := s.Answers(ctx, code)
	require.NoError(t, err)
	require.Equal(t, answers, got)

	_, err = s.Answers(ctx, "ZZZZ")
	require.ErrorIs(t, err, ErrNoRecord)
}
