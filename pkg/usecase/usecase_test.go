package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
	"github.com/shaped-ai/relay/pkg/service/shaped"
	"github.com/shaped-ai/relay/pkg/usecase"
)

// mockShapedService is a mock shaped.Service for testing
type mockShapedService struct {
	queryFn        func(ctx context.Context, modelName string, req *shaped.QueryRequest) (*shaped.QueryResponse, error)
	retrieveFn     func(ctx context.Context, modelName string, payload map[string]any) (json.RawMessage, error)
	similarItemsFn func(ctx context.Context, modelName string, itemID types.ItemID) (json.RawMessage, error)
	insertEventsFn func(ctx context.Context, dataset string, events []model.TrackEvent) error
}

func (m *mockShapedService) Query(ctx context.Context, modelName string, req *shaped.QueryRequest) (*shaped.QueryResponse, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, modelName, req)
	}
	return &shaped.QueryResponse{}, nil
}

func (m *mockShapedService) Retrieve(ctx context.Context, modelName string, payload map[string]any) (json.RawMessage, error) {
	if m.retrieveFn != nil {
		return m.retrieveFn(ctx, modelName, payload)
	}
	return json.RawMessage(`{}`), nil
}

func (m *mockShapedService) SimilarItems(ctx context.Context, modelName string, itemID types.ItemID) (json.RawMessage, error) {
	if m.similarItemsFn != nil {
		return m.similarItemsFn(ctx, modelName, itemID)
	}
	return json.RawMessage(`{}`), nil
}

func (m *mockShapedService) InsertEvents(ctx context.Context, dataset string, events []model.TrackEvent) error {
	if m.insertEventsFn != nil {
		return m.insertEventsFn(ctx, dataset, events)
	}
	return nil
}

func testCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	catalog, err := model.NewCatalog([]*model.App{
		{
			ID:            "movies",
			Name:          "Movies",
			Model:         "movie-ranker",
			EventsDataset: "movie-events",
			DedupeField:   "article_id",
		},
		{
			ID:    "docs",
			Name:  "Documents",
			Model: "doc-ranker",
		},
	})
	gt.NoError(t, err).Required()
	return catalog
}

func TestUseCasesNew(t *testing.T) {
	svc := &mockShapedService{}
	catalog := testCatalog(t)

	t.Run("refactor is disabled without an LLM", func(t *testing.T) {
		uc := usecase.New(svc, catalog)
		gt.Value(t, uc.Refactor).Nil()
		gt.Value(t, uc.Search).NotNil()
		gt.Value(t, uc.Track).NotNil()
	})

	t.Run("refactor is enabled with an LLM", func(t *testing.T) {
		uc := usecase.New(svc, catalog, usecase.WithLLM(&mockLLMClient{}))
		gt.Value(t, uc.Refactor).NotNil()
	})
}
