package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
	"github.com/shaped-ai/relay/pkg/service/shaped"
	"github.com/shaped-ai/relay/pkg/utils/logging"
)

// MaxSearchResults caps the result set before deduplication
const MaxSearchResults = 100

// SearchUseCase turns free text queries into ranked, deduplicated
// result sets via the remote relevance service.
type SearchUseCase struct {
	shaped  shaped.Service
	catalog *model.Catalog
}

func NewSearchUseCase(svc shaped.Service, catalog *model.Catalog) *SearchUseCase {
	return &SearchUseCase{
		shaped:  svc,
		catalog: catalog,
	}
}

// Search runs a hybrid text query for the app. Empty and whitespace
// queries short-circuit to an empty result set without a remote call.
// Remote failures also yield an empty result set: they are logged here
// and never surfaced to the rendering layer. The returned error is
// reserved for client input problems (unknown app).
func (uc *SearchUseCase) Search(ctx context.Context, appID types.AppID, query string) (model.Results, error) {
	app, err := uc.catalog.App(appID)
	if err != nil {
		return nil, goerr.Wrap(err, "search rejected")
	}

	if strings.TrimSpace(query) == "" {
		return model.Results{}, nil
	}

	resp, err := uc.shaped.Query(ctx, app.Model, shaped.RankTextQuery(query, app.EmbeddingRef, MaxSearchResults))
	if err != nil {
		logging.From(ctx).Error("search query failed",
			"app", app.ID,
			"model", app.Model,
			"error", err.Error(),
		)
		return model.Results{}, nil
	}

	return resp.Results.Cap(MaxSearchResults).Dedupe(app.DedupeField), nil
}

// PipelineFunc adapts Search for the debounced request pipeline
func (uc *SearchUseCase) PipelineFunc(appID types.AppID) func(ctx context.Context, query string) (model.Results, error) {
	return func(ctx context.Context, query string) (model.Results, error) {
		return uc.Search(ctx, appID, query)
	}
}
