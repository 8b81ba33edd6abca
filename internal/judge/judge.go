// Package judge decides whether a window of unattributed commits warrants a
// build-update post. The decision is delegated to the text-generation
// collaborator but always fails closed: a broken call or unparseable answer
// yields "don't post", never an error that would abort ingestion.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"crax/internal/ai"
	"crax/internal/logger"

	"go.uber.org/zap"
)

// Decision is the judge's tagged outcome. When the collaborator fails,
// ShouldPost is false and Reasoning describes the failure.
type Decision struct {
	ShouldPost bool   `json:"should_post"`
	Reasoning  string `json:"reasoning"`
}

// Judge evaluates commit windows with a fixed rubric.
type Judge struct {
	gen ai.Client
}

func New(gen ai.Client) *Judge {
	return &Judge{gen: gen}
}

const promptTemplate = `You are deciding whether a developer's recent git commits justify a "build in public" update post.

Commits, newest first:
%s

Post when the commits show: a new feature, a significant refactor, iterative progress across several commits on one piece of work, or an impactful bug fix.
Do not post for: a single typo fix, dependency bumps, formatting-only changes, or a single low-impact commit.

Respond with only a JSON object, no other text:
{"should_post": true or false, "reasoning": "<one short sentence>"}`

// Evaluate judges up to the most recent N unattributed commit messages,
// newest first. An empty window short-circuits without a generation call.
func (j *Judge) Evaluate(ctx context.Context, commitMessages []string) Decision {
	if len(commitMessages) == 0 {
		return Decision{ShouldPost: false, Reasoning: "No recent commits found"}
	}

	var lines strings.Builder
	for _, msg := range commitMessages {
		lines.WriteString("- ")
		lines.WriteString(msg)
		lines.WriteString("\n")
	}

	raw, err := j.gen.Complete(ctx, fmt.Sprintf(promptTemplate, lines.String()))
	if err != nil {
		logger.Error("post-worthiness evaluation failed", zap.Error(err))
		return Decision{
			ShouldPost: false,
			Reasoning:  fmt.Sprintf("Error evaluating commits: %v", err),
		}
	}

	decision, err := parseDecision(raw)
	if err != nil {
		logger.Error("post-worthiness response unparseable",
			zap.Error(err),
			zap.String("response", raw))
		return Decision{
			ShouldPost: false,
			Reasoning:  fmt.Sprintf("Error evaluating commits: %v", err),
		}
	}

	logger.Info("post-worthiness decision",
		zap.Bool("should_post", decision.ShouldPost),
		zap.String("reasoning", decision.Reasoning))

	return decision
}

// parseDecision reads the two-field answer, tolerating the code fences the
// collaborator sometimes wraps around JSON.
func parseDecision(raw string) (Decision, error) {
	cleaned := stripCodeFences(raw)

	var parsed struct {
		ShouldPost *bool   `json:"should_post"`
		Reasoning  *string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return Decision{}, fmt.Errorf("invalid decision JSON: %w", err)
	}
	if parsed.ShouldPost == nil || parsed.Reasoning == nil {
		return Decision{}, fmt.Errorf("decision JSON missing required fields")
	}

	return Decision{ShouldPost: *parsed.ShouldPost, Reasoning: *parsed.Reasoning}, nil
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	return strings.TrimSpace(cleaned)
}
