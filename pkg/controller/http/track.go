package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
	"github.com/shaped-ai/relay/pkg/utils/errutil"
	"github.com/shaped-ai/relay/pkg/utils/logging"
)

type trackRequest struct {
	EventValue string `json:"event_value"`
	ItemID     string `json:"item_id"`
	UserID     string `json:"user_id,omitempty"`
}

// handleTrack accepts an engagement event and responds before delivery
// completes. Beacon transports send JSON with a text/plain content
// type, so the body is decoded regardless of the declared type. The
// item is also appended to the cookie-held interaction log.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var body trackRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	userID := types.UserID(body.UserID)
	if userID == "" {
		userID = types.UserIDFromContext(r.Context())
	}

	event := model.NewTrackEvent(body.EventValue, types.ItemID(body.ItemID), userID)
	if err := s.uc.Track.Dispatch(r.Context(), appIDFrom(r), event); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	history := s.uc.Interaction.Record(r.Context(), sessionKV(r), event.ItemID)
	logging.From(r.Context()).Info("track dispatched",
		"event_value", event.EventValue,
		"item_id", event.ItemID,
		"user_id", event.UserID,
		"interaction_count", len(history),
	)

	type response struct {
		Accepted bool `json:"accepted"`
	}
	respondData(w, http.StatusAccepted, response{Accepted: true})
}
