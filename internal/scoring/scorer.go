// Package scoring turns raw submission answers into maturity scores with an
// LLM call. Unlike narrative generation on the dashboard side, this path
// retries: the scores end up in the system of record and a transient outage
// should not leave a submission unscored.
package scoring

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/fmpulse/fmpulse/internal/assessment"
	"github.com/fmpulse/fmpulse/internal/errors"
	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = openai.GPT4o

const (
	defaultAttempts = 5
	defaultBackoff  = 2 * time.Second
)

// ErrNoCredential is returned when no generation credential is configured.
// Scoring has no demo mode, the record is left pending instead.
var ErrNoCredential = errors.NewSentinel("scoring credential not configured")

// Outcome is the full scoring result written back to the store and included in
// the report email.
type Outcome struct {
	OverallScore     int      `json:"overallScore"`
	OverallLevel     string   `json:"overallLevel"`
	PlanningScore    int      `json:"planningScore"`
	SupportScore     int      `json:"supportScore"`
	OperationScore   int      `json:"operationScore"`
	PerformanceScore int      `json:"performanceScore"`
	Reasons          []string `json:"reasons"`
	Recommendations  []string `json:"recommendations"`
	NextSteps        string   `json:"nextSteps"`
}

// Config is read once at startup and passed in at composition time.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Attempts caps the retry loop, defaulting to 5.
	Attempts int
	// Backoff is the base delay, doubled on every failed attempt. Tests shrink it.
	Backoff time.Duration
}

// Scorer scores submissions.
type Scorer struct {
	ai       *openai.Client
	model    string
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
}

// New creates a scorer from explicit configuration.
func New(cfg Config, logger *slog.Logger) *Scorer {
	s := &Scorer{
		model:    cfg.Model,
		attempts: cfg.Attempts,
		backoff:  cfg.Backoff,
		logger:   logger.With("source", "scoring.Scorer"),
	}
	if s.model == "" {
		s.model = defaultModel
	}
	if s.attempts <= 0 {
		s.attempts = defaultAttempts
	}
	if s.backoff <= 0 {
		s.backoff = defaultBackoff
	}
	if cfg.APIKey != "" {
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
		s.ai = openai.NewClientWithConfig(clientConfig)
	}
	return s
}

// Score analyzes the submission answers. It retries with exponential backoff
// because the generation service intermittently sheds load.
func (s *Scorer) Score(ctx context.Context, answers map[string]string) (*Outcome, error) {
	if s.ai == nil {
		return nil, ErrNoCredential
	}

	var lastErr error
	backoff := s.backoff
	for attempt := range s.attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "scoring cancelled")
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		outcome, err := s.score(ctx, answers)
		if err == nil {
			return outcome, nil
		}
		lastErr = err
		s.logger.WarnContext(ctx, "scoring attempt failed",
			slog.Int("attempt", attempt+1), errors.SlogError(err))
	}
	return nil, errors.Wrap(lastErr, "scoring failed", slog.Int("attempts", s.attempts))
}

func (s *Scorer) score(ctx context.Context, answers map[string]string) (*Outcome, error) {
	encoded, err := json.Marshal(answers)
	if err != nil {
		return nil, errors.Wrap(err, "encode answers")
	}

	resp, err := s.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Assessment answers as JSON:\n" + string(encoded)},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty completion response")
	}

	var outcome Outcome
	if err = json.Unmarshal([]byte(resp.Choices[0].Message.Content), &outcome); err != nil {
		return nil, errors.Wrap(err, "parse scoring JSON")
	}

	outcome.clamp()
	if outcome.OverallLevel == "" {
		outcome.OverallLevel = assessment.LevelForScore(outcome.OverallScore)
	}
	return &outcome, nil
}

// clamp forces all scores into [0,100]. The dashboard trusts the backend, so
// the backend must not store out-of-range values.
func (o *Outcome) clamp() {
	for _, score := range []*int{
		&o.OverallScore, &o.PlanningScore, &o.SupportScore, &o.OperationScore, &o.PerformanceScore,
	} {
		if *score < 0 {
			*score = 0
		}
		if *score > 100 {
			*score = 100
		}
	}
}

const systemPrompt = `You are an ISO 41001 facility-management assessor. Given the raw answers of a ` +
	`maturity self-assessment, respond with a JSON object with these fields: "overallScore" (integer 0-100), ` +
	`"overallLevel" (maturity tier name), "planningScore", "supportScore", "operationScore", ` +
	`"performanceScore" (integers 0-100 for ISO 41001 clauses 6-9), "reasons" (array of strings naming the ` +
	`main gaps), "recommendations" (array of strings) and "nextSteps" (string).`
