package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/utils/logging"
)

// DefaultWindow is the quiescence interval applied when none is given
const DefaultWindow = 300 * time.Millisecond

// Func performs one search call for the given query text
type Func func(ctx context.Context, query string) (model.Results, error)

// Pipeline converts a stream of query updates into single, up-to-date
// result sets. Each update resets a quiescence timer; only the last
// query of a burst triggers a call. Calls already in flight are not
// cancelled: a monotonic sequence number tags each issued call, and
// completions that are no longer the latest issued are discarded, so
// out-of-order completion can never overwrite a newer result set.
type Pipeline struct {
	fn       Func
	window   time.Duration
	onUpdate func(model.Results)

	mu      sync.Mutex
	timer   *time.Timer
	issued  uint64
	stopped bool
}

// NewPipeline creates a pipeline delivering result sets to onUpdate.
// onUpdate is invoked from timer and fetch goroutines, never with the
// pipeline lock held.
func NewPipeline(fn Func, window time.Duration, onUpdate func(model.Results)) *Pipeline {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Pipeline{
		fn:       fn,
		window:   window,
		onUpdate: onUpdate,
	}
}

// Update submits a new query value. Empty and whitespace-only queries
// short-circuit to an empty result set without a remote call and
// supersede any pending or in-flight query.
func (p *Pipeline) Update(ctx context.Context, query string) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	if strings.TrimSpace(query) == "" {
		p.issued++
		p.mu.Unlock()
		p.onUpdate(model.Results{})
		return
	}

	p.timer = time.AfterFunc(p.window, func() {
		p.issue(ctx, query)
	})
	p.mu.Unlock()
}

// Stop cancels any pending query. In-flight calls are left to finish
// and their results discarded.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Pipeline) issue(ctx context.Context, query string) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.issued++
	seq := p.issued
	p.mu.Unlock()

	results, err := p.fn(ctx, query)
	if err != nil {
		logging.From(ctx).Error("search call failed", "query", query, "error", err.Error())
		results = model.Results{}
	}

	p.mu.Lock()
	stale := p.stopped || seq != p.issued
	p.mu.Unlock()
	if stale {
		return
	}

	p.onUpdate(results)
}
