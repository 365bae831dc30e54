package memory

import (
	"context"
	"sync"

	"github.com/shaped-ai/relay/pkg/domain/interfaces"
)

// KV is an in-memory key/value store for development and tests. It
// stands in for the cookie backend when there is no browser on the
// other end of the connection.
type KV struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ interfaces.KV = &KV{}

func New() *KV {
	return &KV{
		values: make(map[string]string),
	}
}

func (kv *KV) Get(ctx context.Context, key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	v, ok := kv.values[key]
	return v, ok, nil
}

func (kv *KV) Set(ctx context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.values[key] = value
	return nil
}

func (kv *KV) Delete(ctx context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	delete(kv.values, key)
	return nil
}
