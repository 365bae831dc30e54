package usecase

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
	"github.com/shaped-ai/relay/pkg/service/shaped"
	"github.com/shaped-ai/relay/pkg/utils/logging"
)

// RetrieveUseCase proxies personalized retrieve requests, merging the
// client payload with the server-read interaction history.
type RetrieveUseCase struct {
	shaped  shaped.Service
	catalog *model.Catalog
}

func NewRetrieveUseCase(svc shaped.Service, catalog *model.Catalog) *RetrieveUseCase {
	return &RetrieveUseCase{
		shaped:  svc,
		catalog: catalog,
	}
}

// Retrieve forwards the client payload to the model retrieve endpoint.
// The user ID and interaction history known server-side fill in fields
// the client did not send; client-provided values win.
func (uc *RetrieveUseCase) Retrieve(ctx context.Context, appID types.AppID, payload map[string]any, userID types.UserID, history model.History) (json.RawMessage, error) {
	app, err := uc.catalog.App(appID)
	if err != nil {
		return nil, goerr.Wrap(err, "retrieve rejected")
	}

	if payload == nil {
		payload = map[string]any{}
	}
	if _, ok := payload["user_id"]; !ok && userID != "" {
		payload["user_id"] = userID.String()
	}
	if _, ok := payload["interactions"]; !ok && len(history) > 0 {
		payload["interactions"] = history.ItemIDs()
	}

	logging.From(ctx).Info("retrieve called",
		"app", app.ID,
		"model", app.Model,
		"interaction_count", len(history),
	)

	data, err := uc.shaped.Retrieve(ctx, app.Model, payload)
	if err != nil {
		return nil, goerr.Wrap(err, "retrieve failed", goerr.V("app", app.ID))
	}
	return data, nil
}
