package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/shaped-ai/relay/pkg/cli/config"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
	"github.com/shaped-ai/relay/pkg/search"
	"github.com/shaped-ai/relay/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdSearch() *cli.Command {
	var catalogPath string
	var appID string
	var window time.Duration
	var limit int
	var shapedCfg config.Shaped

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to app catalog TOML file",
			Required:    true,
			Sources:     cli.EnvVars("RELAY_CATALOG"),
			Destination: &catalogPath,
		},
		&cli.StringFlag{
			Name:        "app",
			Usage:       "Catalog app ID (defaults to the first app)",
			Sources:     cli.EnvVars("RELAY_APP"),
			Destination: &appID,
		},
		&cli.DurationFlag{
			Name:        "window",
			Usage:       "Quiescence window before a typed query is sent",
			Value:       search.DefaultWindow,
			Destination: &window,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum results to print per query",
			Value:       10,
			Destination: &limit,
		},
	}
	flags = append(flags, shapedCfg.Flags()...)

	return &cli.Command{
		Name:  "search",
		Usage: "Interactive search against a catalog app (one query per line)",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := config.LoadCatalog(catalogPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load app catalog")
			}

			shapedSvc, err := shapedCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Shaped client")
			}

			app, err := catalog.App(types.AppID(appID))
			if err != nil {
				return err
			}

			searchUC := usecase.NewSearchUseCase(shapedSvc, catalog)

			updates := make(chan model.Results)
			pipeline := search.NewPipeline(
				searchUC.PipelineFunc(app.ID),
				window,
				func(results model.Results) {
					select {
					case updates <- results:
					case <-ctx.Done():
					}
				},
			)
			defer pipeline.Stop()

			eg, ctx := errgroup.WithContext(ctx)

			// Sentinel to unwind the group when stdin closes
			errInputClosed := goerr.New("input closed")

			// Printer: renders each delivered result set
			eg.Go(func() error {
				for {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case results := <-updates:
						printResults(results, limit)
					}
				}
			})

			// Reader: each line is a query update
			eg.Go(func() error {
				defer pipeline.Stop()

				fmt.Fprintf(os.Stdout, "Searching %q. Type a query and press enter (Ctrl-D to quit).\n", app.Name)
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					pipeline.Update(ctx, scanner.Text())
				}
				if err := scanner.Err(); err != nil {
					return goerr.Wrap(err, "failed to read input")
				}
				return errInputClosed
			})

			err = eg.Wait()
			if err == nil || errors.Is(err, errInputClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func printResults(results model.Results, limit int) {
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "(no results)")
		return
	}
	for i, r := range results.Cap(limit) {
		title, _ := r.Metadata["title"].(string)
		if title == "" {
			title = r.ID
		}
		fmt.Fprintf(os.Stdout, "%2d. %s (score=%.4f)\n", i+1, title, r.Score)
	}
}
