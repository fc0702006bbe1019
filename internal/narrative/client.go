// Package narrative turns assessment scores into an auditor-style written
// summary. Generation must never block the report: any failure resolves to a
// fixed fallback instead of an error.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fmpulse/fmpulse/internal/assessment"
	"github.com/fmpulse/fmpulse/internal/errors"
	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = openai.GPT4o

// Result is the three-field narrative shown under the charts. It is either
// fully populated from a successful generation call or fully replaced by one of
// the fixed fallbacks, never partially present.
type Result struct {
	ExecutiveSummary string `json:"executiveSummary"`
	GapAnalysis      string `json:"gapAnalysis"`
	Recommendations  string `json:"recommendations"`
}

// Config is read once at startup and passed in at composition time.
type Config struct {
	// APIKey for the generation service. When empty, Generate resolves to the
	// demo narrative without network I/O.
	APIKey string
	// BaseURL overrides the OpenAI-compatible endpoint, used in tests and for
	// proxied deployments.
	BaseURL string
	// Model overrides the default chat model.
	Model string
}

// Client generates narratives. The zero credential configuration is valid and
// degrades to demo mode.
type Client struct {
	ai     *openai.Client
	model  string
	logger *slog.Logger
}

// New creates a narrative client from explicit configuration.
func New(cfg Config, logger *slog.Logger) *Client {
	c := &Client{
		model:  cfg.Model,
		logger: logger.With("source", "narrative.Client"),
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if cfg.APIKey == "" {
		return c
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	c.ai = openai.NewClientWithConfig(clientConfig)
	return c
}

// Generate produces a narrative for the record. It always resolves: a missing
// credential yields the demo narrative and any generation failure yields the
// fallback narrative. Charts render either way.
func (c *Client) Generate(ctx context.Context, record assessment.Record) Result {
	if c.ai == nil {
		return DemoResult()
	}

	result, err := c.generate(ctx, record)
	if err != nil {
		c.logger.WarnContext(ctx, "narrative generation failed, serving fallback", errors.SlogError(err))
		return FallbackResult()
	}
	return result
}

func (c *Client) generate(ctx context.Context, record assessment.Record) (Result, error) {
	resp, err := c.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt(record),
			},
		},
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "create chat completion")
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("empty completion response")
	}

	content := resp.Choices[0].Message.Content
	var result Result
	if err = json.Unmarshal([]byte(content), &result); err != nil {
		return Result{}, errors.Wrap(err, "parse narrative JSON")
	}
	// All three fields must be present, a partial narrative is worse than the fallback.
	if result.ExecutiveSummary == "" || result.GapAnalysis == "" || result.Recommendations == "" {
		return Result{}, errors.New("narrative reply is missing fields")
	}
	return result, nil
}

const systemPrompt = `You are a senior ISO 41001 lead auditor. Respond with a JSON object ` +
	`containing exactly three string fields: "executiveSummary", "gapAnalysis" and "recommendations".`

func userPrompt(record assessment.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the facility-management maturity diagnostic for %q.\n\n", record.Organization)
	fmt.Fprintf(&b, "Diagnostic profile (0-100 scale):\n")
	fmt.Fprintf(&b, "- Overall maturity: %d (%s)\n", record.OverallScore, record.OverallLevel)
	for _, clause := range record.Clauses() {
		fmt.Fprintf(&b, "- Clause %d (%s): %d\n", clause.Number, clause.Name, clause.Score)
	}
	b.WriteString(`
Provide a professional auditor-grade assessment:
1. executiveSummary: 2-3 sentence strategic overview of the current status.
2. gapAnalysis: top 5 specific ISO 41001 gaps based on the scores, one per line prefixed with "[GAP]", citing exact clauses (e.g. 6.1, 8.1).
3. recommendations: 5 high-impact actionable recommendations, one per line prefixed with "[ACTION]".`)
	return b.String()
}

// DemoResult is the narrative served when no generation credential is configured.
func DemoResult() Result {
	return Result{
		ExecutiveSummary: "System is in demo mode. Configure a generation API key to enable live analysis.",
		GapAnalysis: "[GAP] Demo gap 1: strategic planning alignment (Cl. 6.1)\n" +
			"[GAP] Demo gap 2: operational control documentation (Cl. 8.1)",
		Recommendations: "[ACTION] Demo recommendation 1: perform an internal audit (Cl. 9.2)",
	}
}

// FallbackResult is the narrative served when generation fails for any reason.
func FallbackResult() Result {
	return Result{
		ExecutiveSummary: "Real-time auditing analysis is temporarily unavailable. " +
			"The numeric diagnostics above remain valid.",
		GapAnalysis: "[GAP] System latency is preventing real-time gap extraction.\n" +
			"[GAP] ISO 41001 clause mapping is in progress.",
		Recommendations: "[ACTION] Refresh the dashboard in a few moments.\n" +
			"[ACTION] Contact your assessor for a manual expert review.",
	}
}
