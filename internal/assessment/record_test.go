package assessment_test

import (
	"testing"

	"github.com/fmpulse/fmpulse/internal/assessment"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var r assessment.Record
	r.ApplyDefaults()
	require.Equal(t, "User", r.RespondentName)
	require.Equal(t, "Organization", r.Organization)
	require.Equal(t, "Pending", r.OverallLevel)

	r = assessment.Record{RespondentName: "Ada", Organization: "Acme", OverallLevel: "Defined"}
	r.ApplyDefaults()
	require.Equal(t, "Ada", r.RespondentName)
	require.Equal(t, "Acme", r.Organization)
	require.Equal(t, "Defined", r.OverallLevel)
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{score: 0, want: "Initial"},
		{score: 19, want: "Initial"},
		{score: 20, want: "Emerging"},
		{score: 45, want: "Developing"},
		{score: 72, want: "Defined"},
		{score: 80, want: "Optimized"},
		{score: 100, want: "Optimized"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, assessment.LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestBandForScore(t *testing.T) {
	require.Equal(t, assessment.BandAtRisk, assessment.BandForScore(39))
	require.Equal(t, assessment.BandDeveloping, assessment.BandForScore(40))
	require.Equal(t, assessment.BandDeveloping, assessment.BandForScore(69))
	require.Equal(t, assessment.BandEstablished, assessment.BandForScore(70))
}

func TestDemoRecord(t *testing.T) {
	r := assessment.DemoRecord()
	require.Equal(t, assessment.DemoID, r.ID)
	require.Equal(t, "Demo Organization", r.Organization)
	clauses := r.Clauses()
	require.Len(t, clauses, 4)
	require.Equal(t, "Planning", clauses[0].Name)
	for _, c := range clauses {
		require.Positive(t, c.Score)
	}
}
