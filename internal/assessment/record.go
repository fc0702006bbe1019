// Package assessment holds the maturity assessment data model shared by the
// dashboard, the backend, and the lookup API contract.
package assessment

import "time"

// DemoID is the reserved access code that returns a canned record without
// touching the backend. It keeps the dashboard demoable without live
// infrastructure.
const DemoID = "DEMO"

// Record is one respondent's completed ISO 41001 diagnostic.
//
// The JSON tags are the wire contract of the lookup API. The clause fields keep
// their numbered names on the wire because that is what existing backend
// deployments serve.
type Record struct {
	ID              string `json:"id"`
	RespondentName  string `json:"respondentName"`
	RespondentEmail string `json:"respondentEmail"`
	Organization    string `json:"organization"`
	SubmissionDate  string `json:"submissionDate"`

	OverallScore int    `json:"aiMaturityScore"`
	OverallLevel string `json:"aiMaturityLevel"`

	PlanningScore    int `json:"clause6Score"`
	SupportScore     int `json:"clause7Score"`
	OperationScore   int `json:"clause8Score"`
	PerformanceScore int `json:"clause9Score"`
}

// ApplyDefaults fills placeholder values for free-text fields the backing
// store may not have.
func (r *Record) ApplyDefaults() {
	if r.RespondentName == "" {
		r.RespondentName = "User"
	}
	if r.Organization == "" {
		r.Organization = "Organization"
	}
	if r.OverallLevel == "" {
		r.OverallLevel = "Pending"
	}
}

// DemoRecord returns the sample record served for the demo access code.
func DemoRecord() Record {
	return Record{
		ID:               DemoID,
		RespondentName:   "Demo User",
		RespondentEmail:  "demo@example.com",
		Organization:     "Demo Organization",
		SubmissionDate:   time.Now().Format("2006-01-02"),
		OverallScore:     72,
		OverallLevel:     "Defined",
		PlanningScore:    65,
		SupportScore:     80,
		OperationScore:   75,
		PerformanceScore: 60,
	}
}

// LevelForScore maps an overall score to its maturity tier name.
func LevelForScore(score int) string {
	switch {
	case score < 20:
		return "Initial"
	case score < 40:
		return "Emerging"
	case score < 60:
		return "Developing"
	case score < 80:
		return "Defined"
	default:
		return "Optimized"
	}
}

// Band is the traffic-light grouping used for coloring the score gauge.
type Band string

const (
	BandAtRisk      Band = "at-risk"
	BandDeveloping  Band = "developing"
	BandEstablished Band = "established"
)

// BandForScore groups a score into its traffic-light band.
func BandForScore(score int) Band {
	switch {
	case score < 40:
		return BandAtRisk
	case score < 70:
		return BandDeveloping
	default:
		return BandEstablished
	}
}

// Clause is one of the four fixed assessment dimensions.
type Clause struct {
	Number int
	Name   string
	Score  int
}

// Clauses lists the record's four clause scores in presentation order.
func (r Record) Clauses() []Clause {
	return []Clause{
		{Number: 6, Name: "Planning", Score: r.PlanningScore},
		{Number: 7, Name: "Support", Score: r.SupportScore},
		{Number: 8, Name: "Operation", Score: r.OperationScore},
		{Number: 9, Name: "Performance", Score: r.PerformanceScore},
	}
}
