package model

import "github.com/shaped-ai/relay/pkg/domain/types"

// MaxHistorySize is the cap on the per-client interaction log. When the
// log exceeds this size, the oldest entries are evicted first.
const MaxHistorySize = 500

// Interaction is one recorded user engagement with a catalog entity
type Interaction struct {
	ItemID types.ItemID `json:"item_id"`
}

// History is the ordered per-client interaction log, oldest first.
// Insertion order is recency order: the most recent entry is last.
type History []Interaction

// Append adds a new interaction and evicts from the front while the log
// exceeds MaxHistorySize. The receiver is not modified.
func (h History) Append(itemID types.ItemID) History {
	updated := make(History, len(h), len(h)+1)
	copy(updated, h)
	updated = append(updated, Interaction{ItemID: itemID})

	if excess := len(updated) - MaxHistorySize; excess > 0 {
		updated = updated[excess:]
	}
	return updated
}

// ItemIDs returns the item IDs in log order
func (h History) ItemIDs() []string {
	ids := make([]string, len(h))
	for i, entry := range h {
		ids[i] = entry.ItemID.String()
	}
	return ids
}

// Recent returns up to n of the most recent interactions, oldest first
func (h History) Recent(n int) History {
	if n >= len(h) {
		return h
	}
	return h[len(h)-n:]
}
