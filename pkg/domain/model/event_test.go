package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/shaped-ai/relay/pkg/domain/model"
)

func TestNewTrackEvent(t *testing.T) {
	before := time.Now().Unix()
	event := model.NewTrackEvent("click", "movie-1", "user-1")
	after := time.Now().Unix()

	gt.String(t, event.EventID).NotEqual("")
	gt.Value(t, event.EventValue).Equal("click")
	gt.Value(t, event.ItemID.String()).Equal("movie-1")
	gt.Value(t, event.UserID.String()).Equal("user-1")
	gt.Bool(t, event.CreatedAt >= before && event.CreatedAt <= after).True()
}

func TestTrackEventValidate(t *testing.T) {
	valid := model.NewTrackEvent("click", "movie-1", "user-1")
	gt.NoError(t, valid.Validate())

	noValue := valid
	noValue.EventValue = ""
	gt.Error(t, noValue.Validate())

	noItem := valid
	noItem.ItemID = ""
	gt.Error(t, noItem.Validate())

	noUser := valid
	noUser.UserID = ""
	gt.Error(t, noUser.Validate())
}
