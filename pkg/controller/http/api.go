package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
	"github.com/shaped-ai/relay/pkg/usecase"
	"github.com/shaped-ai/relay/pkg/utils/errutil"
)

// errInternal is what clients see for remote-service failures; the
// real cause is logged server-side and never echoed out.
var errInternal = errors.New("internal server error")

// appIDFrom resolves the target catalog app from the query string (the
// catalog default applies when absent)
func appIDFrom(r *http.Request) types.AppID {
	return types.AppID(r.URL.Query().Get("app"))
}

type searchResponse struct {
	Results model.Results `json:"results"`
	Query   string        `json:"query"`
}

// handleSearchGet serves `GET /api/search?q=...`
func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, r.URL.Query().Get("q"))
}

// handleSearchPost serves `POST /api/search` with `{"query": ...}`
func (s *Server) handleSearchPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	s.search(w, r, body.Query)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, query string) {
	results, err := s.uc.Search.Search(r.Context(), appIDFrom(r), query)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	respondData(w, http.StatusOK, searchResponse{Results: results, Query: query})
}

// handleRetrieve proxies personalized retrieve requests, merging the
// cookie-held interaction history into the payload
func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	kv := sessionKV(r)
	userID := types.UserIDFromContext(r.Context())
	history := s.uc.Interaction.History(r.Context(), kv)

	data, err := s.uc.Retrieve.Retrieve(r.Context(), appIDFrom(r), payload, userID, history)
	if err != nil {
		_ = errutil.Handle(r.Context(), err, "retrieve failed")
		errutil.HandleHTTP(r.Context(), w, errInternal, http.StatusBadGateway)
		return
	}

	respondData(w, http.StatusOK, json.RawMessage(data))
}

// handleSimilarItems looks up items similar to the given entity. A
// request without item_id is rejected without contacting the remote
// service.
func (s *Server) handleSimilarItems(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	data, err := s.uc.Similar.Similar(r.Context(), appIDFrom(r), types.ItemID(body.ItemID))
	switch {
	case errors.Is(err, usecase.ErrMissingItemID):
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	case err != nil:
		_ = errutil.Handle(r.Context(), err, "similar_items failed")
		errutil.HandleHTTP(r.Context(), w, errInternal, http.StatusBadGateway)
		return
	}

	respondData(w, http.StatusOK, json.RawMessage(data))
}
