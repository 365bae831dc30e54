package memory_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/shaped-ai/relay/pkg/repository/memory"
)

func TestKV(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	_, ok, err := kv.Get(ctx, "missing")
	gt.NoError(t, err)
	gt.Bool(t, ok).False()

	gt.NoError(t, kv.Set(ctx, "key", "value"))

	v, ok, err := kv.Get(ctx, "key")
	gt.NoError(t, err)
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal("value")

	gt.NoError(t, kv.Delete(ctx, "key"))

	_, ok, err = kv.Get(ctx, "key")
	gt.NoError(t, err)
	gt.Bool(t, ok).False()
}
