package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
	"github.com/shaped-ai/relay/pkg/service/shaped"
	"github.com/shaped-ai/relay/pkg/utils/async"
	"github.com/shaped-ai/relay/pkg/utils/logging"
)

// TrackUseCase reports engagement events to the remote events dataset.
// Delivery is fire and forget: Dispatch returns before delivery, there
// is no retry, and delivery failures are logged and swallowed.
type TrackUseCase struct {
	shaped  shaped.Service
	catalog *model.Catalog
}

func NewTrackUseCase(svc shaped.Service, catalog *model.Catalog) *TrackUseCase {
	return &TrackUseCase{
		shaped:  svc,
		catalog: catalog,
	}
}

// Dispatch validates the event synchronously and hands delivery to a
// background goroutine. The returned error only covers validation.
func (uc *TrackUseCase) Dispatch(ctx context.Context, appID types.AppID, event model.TrackEvent) error {
	app, err := uc.catalog.App(appID)
	if err != nil {
		return goerr.Wrap(err, "track rejected")
	}
	if err := event.Validate(); err != nil {
		return goerr.Wrap(err, "track rejected")
	}

	if app.EventsDataset == "" {
		logging.From(ctx).Debug("no events dataset configured, dropping event", "app", app.ID)
		return nil
	}

	dataset := app.EventsDataset
	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := uc.shaped.InsertEvents(ctx, dataset, []model.TrackEvent{event}); err != nil {
			// Best effort: log only, never retry
			return goerr.Wrap(err, "event delivery failed",
				goerr.V("dataset", dataset), goerr.V("item_id", event.ItemID))
		}
		return nil
	})

	return nil
}
