package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/domain/types"
)

// TrackEvent is a user engagement event reported to the remote events
// dataset. Delivery is best effort, at most once; EventID lets the
// dataset deduplicate should a client retry on its own.
type TrackEvent struct {
	EventID    string       `json:"event_id"`
	EventValue string       `json:"event_value"`
	ItemID     types.ItemID `json:"item_id"`
	CreatedAt  int64        `json:"created_at"`
	UserID     types.UserID `json:"user_id"`
}

// NewTrackEvent builds an event stamped with the current epoch seconds
func NewTrackEvent(eventValue string, itemID types.ItemID, userID types.UserID) TrackEvent {
	return TrackEvent{
		EventID:    uuid.NewString(),
		EventValue: eventValue,
		ItemID:     itemID,
		CreatedAt:  time.Now().Unix(),
		UserID:     userID,
	}
}

// Validate checks the event carries the fields required by the dataset
func (e TrackEvent) Validate() error {
	if e.EventValue == "" {
		return goerr.New("event_value is required")
	}
	if err := e.ItemID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid track event")
	}
	if err := e.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid track event")
	}
	return nil
}
