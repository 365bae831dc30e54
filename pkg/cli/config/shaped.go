package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/service/shaped"
	"github.com/urfave/cli/v3"
)

// Shaped holds CLI flags for the remote relevance API client. API keys
// stay server-side: they are attached to outbound requests only and
// are redacted from structured logs.
type Shaped struct {
	apiKey      string
	writeAPIKey string
	baseURL     string
	timeout     time.Duration
}

// Flags returns CLI flags for the Shaped client configuration
func (s *Shaped) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "shaped-api-key",
			Usage:       "Shaped API key for query/retrieve calls",
			Sources:     cli.EnvVars("RELAY_SHAPED_API_KEY"),
			Destination: &s.apiKey,
		},
		&cli.StringFlag{
			Name:        "shaped-api-key-write",
			Usage:       "Shaped API key for event inserts (defaults to the read key)",
			Sources:     cli.EnvVars("RELAY_SHAPED_API_KEY_WRITE"),
			Destination: &s.writeAPIKey,
		},
		&cli.StringFlag{
			Name:        "shaped-base-url",
			Usage:       "Shaped API base URL",
			Value:       shaped.DefaultBaseURL,
			Sources:     cli.EnvVars("RELAY_SHAPED_BASE_URL"),
			Destination: &s.baseURL,
		},
		&cli.DurationFlag{
			Name:        "shaped-timeout",
			Usage:       "Upper bound for remote API calls",
			Value:       shaped.DefaultTimeout,
			Sources:     cli.EnvVars("RELAY_SHAPED_TIMEOUT"),
			Destination: &s.timeout,
		},
	}
}

// LogValue implements slog.LogValuer for startup logging. Credentials
// are intentionally absent.
func (s Shaped) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", s.baseURL),
		slog.Duration("timeout", s.timeout),
		slog.Int("api_key.len", len(s.apiKey)),
		slog.Bool("write_key_configured", s.writeAPIKey != ""),
	)
}

// Configure creates the Shaped API client from the configured flags
func (s *Shaped) Configure() (shaped.Service, error) {
	if s.apiKey == "" {
		return nil, goerr.New("shaped-api-key is required")
	}

	opts := []shaped.Option{
		shaped.WithBaseURL(s.baseURL),
		shaped.WithTimeout(s.timeout),
	}
	if s.writeAPIKey != "" {
		opts = append(opts, shaped.WithWriteAPIKey(s.writeAPIKey))
	}

	svc, err := shaped.New(s.apiKey, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Shaped client")
	}
	return svc, nil
}
