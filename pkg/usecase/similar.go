package usecase

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
	"github.com/shaped-ai/relay/pkg/service/shaped"
)

// SimilarUseCase looks up items similar to a given catalog entity
type SimilarUseCase struct {
	shaped  shaped.Service
	catalog *model.Catalog
}

func NewSimilarUseCase(svc shaped.Service, catalog *model.Catalog) *SimilarUseCase {
	return &SimilarUseCase{
		shaped:  svc,
		catalog: catalog,
	}
}

// Similar returns items similar to itemID. A missing item ID is
// rejected before any remote call.
func (uc *SimilarUseCase) Similar(ctx context.Context, appID types.AppID, itemID types.ItemID) (json.RawMessage, error) {
	if itemID == "" {
		return nil, goerr.Wrap(ErrMissingItemID, "similar_items rejected")
	}

	app, err := uc.catalog.App(appID)
	if err != nil {
		return nil, goerr.Wrap(err, "similar_items rejected")
	}

	data, err := uc.shaped.SimilarItems(ctx, app.Model, itemID)
	if err != nil {
		return nil, goerr.Wrap(err, "similar_items failed",
			goerr.V("app", app.ID), goerr.V("item_id", itemID))
	}
	return data, nil
}
