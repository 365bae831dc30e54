package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/shaped-ai/relay/pkg/cli/config"
	httpctrl "github.com/shaped-ai/relay/pkg/controller/http"
	"github.com/shaped-ai/relay/pkg/usecase"
	"github.com/shaped-ai/relay/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var catalogPath string
	var staticDir string
	var shapedCfg config.Shaped
	var llmCfg config.LLM

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RELAY_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to app catalog TOML file",
			Required:    true,
			Sources:     cli.EnvVars("RELAY_CATALOG"),
			Destination: &catalogPath,
		},
		&cli.StringFlag{
			Name:        "static-dir",
			Usage:       "Directory with a built demo frontend to serve (optional)",
			Sources:     cli.EnvVars("RELAY_STATIC_DIR"),
			Destination: &staticDir,
		},
	}

	// Add shared config flags
	flags = append(flags, shapedCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := config.LoadCatalog(catalogPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load app catalog")
			}
			logging.Default().Info("Loaded app catalog",
				"path", catalogPath,
				"apps", len(catalog.Apps()),
			)

			shapedSvc, err := shapedCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Shaped client")
			}
			logging.Default().Info("Shaped client configured", "shaped", shapedCfg, "llm", llmCfg)

			ucOpts := []usecase.Option{}

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}
			if llmClient != nil {
				ucOpts = append(ucOpts, usecase.WithLLM(llmClient))
				logging.Default().Info("Refactor endpoint enabled")
			} else {
				logging.Default().Info("LLM provider not configured, refactor endpoint disabled")
			}

			uc := usecase.New(shapedSvc, catalog, ucOpts...)

			var httpOpts []httpctrl.Options
			if staticDir != "" {
				httpOpts = append(httpOpts, httpctrl.WithStaticFS(os.DirFS(staticDir)))
				logging.Default().Info("Serving static frontend", "dir", staticDir)
			}

			httpHandler, err := httpctrl.New(uc, httpOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
