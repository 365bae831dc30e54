package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/shaped-ai/relay/pkg/cli/config"
	"github.com/shaped-ai/relay/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRefactor() *cli.Command {
	var inputPath string
	var stream bool
	var llmCfg config.LLM

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to the search configuration to refactor (defaults to stdin)",
			Destination: &inputPath,
		},
		&cli.BoolFlag{
			Name:        "stream",
			Usage:       "Print chunks as they are generated",
			Destination: &stream,
		},
	}
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:  "refactor",
		Usage: "Convert an Elasticsearch query DSL configuration to a Shaped model config",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			code, err := readRefactorInput(inputPath)
			if err != nil {
				return err
			}

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}
			if llmClient == nil {
				return goerr.New("llm-provider is required for refactor")
			}

			uc := usecase.NewRefactorUseCase(llmClient)

			if stream {
				_, err := uc.RefactorStream(ctx, code, func(chunk string) error {
					_, err := fmt.Fprint(os.Stdout, chunk)
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout)
				return nil
			}

			result, err := uc.Refactor(ctx, code)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, result)
			return nil
		},
	}
}

func readRefactorInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read stdin")
		}
		return string(data), nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read input file", goerr.V("path", path))
	}
	return string(data), nil
}
