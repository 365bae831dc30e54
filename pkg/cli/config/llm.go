package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// LLM holds CLI flags for the code refactoring backend. The refactor
// endpoint is optional: when no provider is configured, Configure
// returns a nil client and the endpoint is not mounted.
type LLM struct {
	provider       string
	claudeAPIKey   string
	claudeModel    string
	geminiProject  string
	geminiLocation string
	geminiModel    string
}

// Flags returns CLI flags for the LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider for the refactor endpoint (claude or gemini, empty to disable)",
			Sources:     cli.EnvVars("RELAY_LLM_PROVIDER"),
			Destination: &l.provider,
		},
		&cli.StringFlag{
			Name:        "claude-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("RELAY_CLAUDE_API_KEY"),
			Destination: &l.claudeAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-model",
			Usage:       "Anthropic model name",
			Value:       "claude-sonnet-4-20250514",
			Sources:     cli.EnvVars("RELAY_CLAUDE_MODEL"),
			Destination: &l.claudeModel,
		},
		&cli.StringFlag{
			Name:        "gemini-project-id",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("RELAY_GEMINI_PROJECT_ID"),
			Destination: &l.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("RELAY_GEMINI_LOCATION"),
			Destination: &l.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Value:       "gemini-2.0-flash",
			Sources:     cli.EnvVars("RELAY_GEMINI_MODEL"),
			Destination: &l.geminiModel,
		},
	}
}

// LogValue implements slog.LogValuer for startup logging
func (l LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", l.provider),
		slog.String("claude_model", l.claudeModel),
		slog.String("gemini_model", l.geminiModel),
	)
}

// Configure creates the LLM client. Returns nil when no provider is
// configured.
func (l *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	switch l.provider {
	case "":
		return nil, nil

	case "claude":
		if l.claudeAPIKey == "" {
			return nil, goerr.New("claude-api-key is required for the claude provider")
		}
		client, err := claude.New(ctx, l.claudeAPIKey, claude.WithModel(l.claudeModel))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create claude client")
		}
		return client, nil

	case "gemini":
		if l.geminiProject == "" {
			return nil, goerr.New("gemini-project-id is required for the gemini provider")
		}
		client, err := gemini.New(ctx, l.geminiProject, l.geminiLocation, gemini.WithModel(l.geminiModel))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create gemini client")
		}
		return client, nil

	default:
		return nil, goerr.New("unknown llm-provider", goerr.V("provider", l.provider))
	}
}
