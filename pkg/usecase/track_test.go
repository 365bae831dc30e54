package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/usecase"
)

func TestTrackDispatch(t *testing.T) {
	ctx := context.Background()
	catalog := testCatalog(t)

	t.Run("delivers the event in the background", func(t *testing.T) {
		type insert struct {
			dataset string
			events  []model.TrackEvent
		}
		inserted := make(chan insert, 1)
		svc := &mockShapedService{
			insertEventsFn: func(ctx context.Context, dataset string, events []model.TrackEvent) error {
				inserted <- insert{dataset: dataset, events: events}
				return nil
			},
		}

		uc := usecase.NewTrackUseCase(svc, catalog)
		event := model.NewTrackEvent("click", "movie-1", "user-1")
		gt.NoError(t, uc.Dispatch(ctx, "movies", event)).Required()

		select {
		case got := <-inserted:
			gt.Value(t, got.dataset).Equal("movie-events")
			gt.Array(t, got.events).Length(1).Required()
			gt.Value(t, got.events[0].ItemID.String()).Equal("movie-1")
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event delivery")
		}
	})

	t.Run("rejects invalid events synchronously", func(t *testing.T) {
		uc := usecase.NewTrackUseCase(&mockShapedService{}, catalog)

		event := model.TrackEvent{ItemID: "movie-1", UserID: "user-1"}
		gt.Error(t, uc.Dispatch(ctx, "movies", event))
	})

	t.Run("rejects unknown apps", func(t *testing.T) {
		uc := usecase.NewTrackUseCase(&mockShapedService{}, catalog)

		event := model.NewTrackEvent("click", "movie-1", "user-1")
		gt.Error(t, uc.Dispatch(ctx, "games", event))
	})

	t.Run("drops events for apps without a dataset", func(t *testing.T) {
		called := make(chan struct{}, 1)
		svc := &mockShapedService{
			insertEventsFn: func(ctx context.Context, dataset string, events []model.TrackEvent) error {
				called <- struct{}{}
				return nil
			},
		}

		uc := usecase.NewTrackUseCase(svc, catalog)
		event := model.NewTrackEvent("click", "movie-1", "user-1")
		gt.NoError(t, uc.Dispatch(ctx, "docs", event)).Required()

		select {
		case <-called:
			t.Error("event should not have been delivered")
		case <-time.After(100 * time.Millisecond):
		}
	})
}
