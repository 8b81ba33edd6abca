// Package summarizer turns a push's commit messages into the post body.
// Unlike the judge there is no silent fallback here: if generation fails
// there is nothing worth posting, so the error propagates.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crax/internal/ai"
)

// Summarizer generates build-in-public post bodies.
type Summarizer struct {
	gen ai.Client
}

func New(gen ai.Client) *Summarizer {
	return &Summarizer{gen: gen}
}

const promptTemplate = `You are helping create a "build in public" social media post from these git commit messages:

%s

Transform these technical commit messages into a single, casual, engaging post that:
- Is under 280 characters
- Feels natural and enthusiastic (like you're sharing progress with friends)
- Highlights what was built or improved
- Doesn't use hashtags or emojis
- Avoids overly technical jargon

Just respond with the post text, nothing else.`

// Summarize produces the post body for the current push's commit messages.
// Callers must not invoke it with an empty list; the orchestrator guards.
func (s *Summarizer) Summarize(ctx context.Context, commitMessages []string) (string, error) {
	if len(commitMessages) == 0 {
		return "", errors.New("no commit messages to summarize")
	}

	var lines strings.Builder
	for _, msg := range commitMessages {
		lines.WriteString("- ")
		lines.WriteString(msg)
		lines.WriteString("\n")
	}

	text, err := s.gen.Complete(ctx, fmt.Sprintf(promptTemplate, lines.String()))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}
