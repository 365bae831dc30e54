package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/cli/config"
	"github.com/shaped-ai/relay/pkg/service/shaped"
	"github.com/shaped-ai/relay/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var catalogPath string
	var shapedCfg config.Shaped

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to app catalog TOML file",
			Required:    true,
			Sources:     cli.EnvVars("RELAY_CATALOG"),
			Destination: &catalogPath,
		},
	}
	flags = append(flags, shapedCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the app catalog and optionally check API reachability",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate the catalog file
			catalog, err := config.LoadCatalog(catalogPath)
			if err != nil {
				return goerr.Wrap(err, "catalog validation failed")
			}

			logger.Info("Catalog validation passed",
				"path", catalogPath,
				"app_count", len(catalog.Apps()),
			)
			for _, app := range catalog.Apps() {
				logger.Info("App validated",
					"id", app.ID,
					"name", app.Name,
					"model", app.Model,
					"events_dataset", app.EventsDataset,
				)
			}

			// Step 2: If an API key is given, probe each app's model
			svc, err := shapedCfg.Configure()
			if err != nil {
				logger.Info("Shaped API key not configured, skipping reachability check")
				return nil
			}

			failures := 0
			for _, app := range catalog.Apps() {
				req := shaped.RankTextQuery("ping", app.EmbeddingRef, 1)
				if _, err := svc.Query(ctx, app.Model, req); err != nil {
					logger.Warn("Model probe failed",
						"app", app.ID,
						"model", app.Model,
						"error", err.Error(),
					)
					failures++
					continue
				}
				logger.Info("Model reachable", "app", app.ID, "model", app.Model)
			}

			if failures > 0 {
				return fmt.Errorf("reachability check failed for %d app(s)", failures)
			}

			logger.Info("Reachability check passed")
			return nil
		},
	}
}
