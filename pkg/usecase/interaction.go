package usecase

import (
	"context"
	"encoding/json"

	"github.com/shaped-ai/relay/pkg/domain/interfaces"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
	"github.com/shaped-ai/relay/pkg/utils/logging"
)

// Keys of the client-persisted state. Both values live in the same
// store so the browser and the server handlers read the same state.
const (
	UserIDKey       = "shaped_user_id"
	InteractionsKey = "shaped_interactions"
)

// InteractionUseCase maintains the bounded per-client interaction log
// and the client identity. The store is passed explicitly per request:
// in the HTTP controller it is a cookie-backed KV bound to the
// request/response pair.
//
// Storage failures never reach the caller as errors. A corrupt or
// unreadable log degrades to an empty one with a warning logged.
type InteractionUseCase struct{}

func NewInteractionUseCase() *InteractionUseCase {
	return &InteractionUseCase{}
}

// EnsureUserID returns the client's persisted user ID, generating and
// persisting a new one when absent. When the store cannot be written,
// the generated ID is still returned for the current request.
func (uc *InteractionUseCase) EnsureUserID(ctx context.Context, kv interfaces.KV) types.UserID {
	value, ok, err := kv.Get(ctx, UserIDKey)
	if err != nil {
		logging.From(ctx).Warn("failed to read user ID, generating temporary one", "error", err.Error())
	}
	if ok && value != "" {
		return types.UserID(value)
	}

	id := types.NewUserID()
	if err := kv.Set(ctx, UserIDKey, id.String()); err != nil {
		logging.From(ctx).Warn("failed to persist user ID", "error", err.Error())
	}
	return id
}

// History returns the ordered interaction log, most recent last
func (uc *InteractionUseCase) History(ctx context.Context, kv interfaces.KV) model.History {
	value, ok, err := kv.Get(ctx, InteractionsKey)
	if err != nil {
		logging.From(ctx).Warn("failed to read interaction log", "error", err.Error())
		return model.History{}
	}
	if !ok || value == "" {
		return model.History{}
	}

	var history model.History
	if err := json.Unmarshal([]byte(value), &history); err != nil {
		logging.From(ctx).Warn("failed to parse interaction log", "error", err.Error())
		return model.History{}
	}
	return history
}

// Record appends an interaction, evicting the oldest entries above the
// cap, and persists the updated log. The updated log is returned even
// when persistence fails.
func (uc *InteractionUseCase) Record(ctx context.Context, kv interfaces.KV, itemID types.ItemID) model.History {
	history := uc.History(ctx, kv).Append(itemID)

	data, err := json.Marshal(history)
	if err != nil {
		logging.From(ctx).Warn("failed to encode interaction log", "error", err.Error())
		return history
	}
	if err := kv.Set(ctx, InteractionsKey, string(data)); err != nil {
		logging.From(ctx).Warn("failed to persist interaction log", "error", err.Error())
	}
	return history
}

// Clear empties the interaction log
func (uc *InteractionUseCase) Clear(ctx context.Context, kv interfaces.KV) {
	if err := kv.Delete(ctx, InteractionsKey); err != nil {
		logging.From(ctx).Warn("failed to clear interaction log", "error", err.Error())
	}
}
