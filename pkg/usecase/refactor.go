package usecase

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/shaped-ai/relay/pkg/utils/logging"
)

//go:embed prompt/refactor_system.md
var refactorSystemPrompt string

// maxRefactorTokens bounds the input accepted for a refactor call.
// Larger inputs get a polite refusal instead of an LLM call.
const maxRefactorTokens = 100000

// tooLargeMessage mirrors what the UI shows for oversized input
const tooLargeMessage = "Input too long. Please reach out to our team for a consultation!"

// RefactorUseCase converts Elasticsearch DSL into Shaped engine
// configuration via an LLM. It is only constructed when an LLM client
// is configured.
type RefactorUseCase struct {
	llm gollem.LLMClient
}

func NewRefactorUseCase(llm gollem.LLMClient) *RefactorUseCase {
	return &RefactorUseCase{llm: llm}
}

func refactorPrompt(code string) string {
	return fmt.Sprintf("## Input Code:\n```\n%s\n```", code)
}

// stripCodeFence removes the first and last lines of the LLM output
// when it is wrapped in a fenced code block. Shorter outputs pass
// through unchanged.
func stripCodeFence(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 2 {
		return text
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		return text
	}
	last := len(lines) - 1
	for last > 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[last]), "```") {
		return text
	}
	return strings.Join(lines[1:last], "\n")
}

func (uc *RefactorUseCase) newSession(ctx context.Context, code string) (gollem.Session, string, error) {
	if strings.TrimSpace(code) == "" {
		return nil, "", goerr.Wrap(ErrMissingCode, "refactor rejected")
	}

	session, err := uc.llm.NewSession(ctx,
		gollem.WithSessionSystemPrompt(refactorSystemPrompt),
	)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to create LLM session")
	}

	prompt := refactorPrompt(code)

	tokens, err := session.CountToken(ctx, gollem.Text(prompt))
	if err != nil {
		// Token counting is an optimization guard, not a gate: fall back
		// to a byte-size heuristic when the backend cannot count.
		logging.From(ctx).Warn("token count failed, using size heuristic", "error", err.Error())
		tokens = len(prompt) / 4
	}
	if tokens >= maxRefactorTokens {
		logging.From(ctx).Info("refactor input over budget", "tokens", tokens)
		return nil, tooLargeMessage, nil
	}

	return session, prompt, nil
}

// Refactor runs a single-shot transformation and returns the cleaned
// configuration text.
func (uc *RefactorUseCase) Refactor(ctx context.Context, code string) (string, error) {
	session, prompt, err := uc.newSession(ctx, code)
	if err != nil {
		return "", err
	}
	if session == nil {
		// Over budget: prompt carries the refusal message
		return prompt, nil
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "refactor generation failed")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("refactor generation returned empty result")
	}

	return stripCodeFence(strings.Join(resp.Texts, "")), nil
}

// RefactorStream streams generation chunks to emit as they arrive and
// returns the cleaned full output at the end. emit errors abort the
// stream (the client went away).
func (uc *RefactorUseCase) RefactorStream(ctx context.Context, code string, emit func(chunk string) error) (string, error) {
	session, prompt, err := uc.newSession(ctx, code)
	if err != nil {
		return "", err
	}
	if session == nil {
		if err := emit(prompt); err != nil {
			return "", goerr.Wrap(err, "failed to emit refusal")
		}
		return prompt, nil
	}

	stream, err := session.GenerateStream(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "refactor stream failed")
	}

	var sb strings.Builder
	for resp := range stream {
		if resp == nil {
			continue
		}
		for _, text := range resp.Texts {
			if text == "" {
				continue
			}
			sb.WriteString(text)
			if err := emit(text); err != nil {
				return "", goerr.Wrap(err, "failed to emit chunk")
			}
		}
	}

	return stripCodeFence(sb.String()), nil
}
