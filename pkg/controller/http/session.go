package http

import (
	"context"
	"net/http"

	"github.com/shaped-ai/relay/pkg/domain/interfaces"
	"github.com/shaped-ai/relay/pkg/domain/types"
	"github.com/shaped-ai/relay/pkg/repository/cookie"
	"github.com/shaped-ai/relay/pkg/repository/memory"
	"github.com/shaped-ai/relay/pkg/usecase"
)

type sessionKVCtxKey struct{}

// sessionMiddleware binds a cookie-backed KV store to the request,
// ensures the client has a persisted user ID, and makes both available
// to handlers through the request context.
func sessionMiddleware(interactionUC *usecase.InteractionUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			kv := cookie.New(w, r)

			userID := interactionUC.EnsureUserID(r.Context(), kv)

			ctx := types.ContextWithUserID(r.Context(), userID)
			ctx = context.WithValue(ctx, sessionKVCtxKey{}, kv)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionKV returns the request-scoped KV store installed by
// sessionMiddleware
func sessionKV(r *http.Request) interfaces.KV {
	if kv, ok := r.Context().Value(sessionKVCtxKey{}).(interfaces.KV); ok {
		return kv
	}
	// Routes outside the session middleware get a throwaway store
	return memory.New()
}

// handleSession returns the client's session identity
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	type response struct {
		UserID string `json:"user_id"`
	}

	userID := types.UserIDFromContext(r.Context())
	respondData(w, http.StatusOK, response{UserID: userID.String()})
}

// handleInteractions returns the stored interaction log
func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Interactions []string `json:"interactions"`
		Count        int      `json:"count"`
	}

	history := s.uc.Interaction.History(r.Context(), sessionKV(r))
	respondData(w, http.StatusOK, response{
		Interactions: history.ItemIDs(),
		Count:        len(history),
	})
}

// handleInteractionsClear empties the interaction log
func (s *Server) handleInteractionsClear(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Success bool `json:"success"`
	}

	s.uc.Interaction.Clear(r.Context(), sessionKV(r))
	respondData(w, http.StatusOK, response{Success: true})
}
