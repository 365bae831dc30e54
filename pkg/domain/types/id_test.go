package types_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/shaped-ai/relay/pkg/domain/types"
)

func TestNewUserID(t *testing.T) {
	id := types.NewUserID()
	gt.NoError(t, id.Validate())
	// base62 millisecond timestamp (7+ chars in this era) plus 4 random chars
	gt.Bool(t, len(id.String()) >= 11).True()

	other := types.NewUserID()
	gt.Value(t, id).NotEqual(other)
}

func TestUserIDValidate(t *testing.T) {
	gt.Error(t, types.UserID("").Validate())
	gt.NoError(t, types.UserID("k7Bm9xP2a1").Validate())
}

func TestUserIDContext(t *testing.T) {
	ctx := context.Background()
	gt.Value(t, types.UserIDFromContext(ctx)).Equal(types.UserID(""))

	ctx = types.ContextWithUserID(ctx, "user-1")
	gt.Value(t, types.UserIDFromContext(ctx)).Equal(types.UserID("user-1"))
}

func TestAppIDValidate(t *testing.T) {
	gt.NoError(t, types.AppID("movies").Validate())
	gt.NoError(t, types.AppID("movie-search-v2").Validate())

	gt.Error(t, types.AppID("").Validate())
	gt.Error(t, types.AppID("Movies").Validate())
	gt.Error(t, types.AppID("movie_search").Validate())
	gt.Error(t, types.AppID("-movies").Validate())
}

func TestItemIDValidate(t *testing.T) {
	gt.NoError(t, types.ItemID("movie-42").Validate())
	gt.Error(t, types.ItemID("").Validate())
}
