// internal/printer/resolver.go
package printer

import (
	"sync"
	"sync/atomic"

	"label-print-service/internal/model"
)

// Resolver delivers a print result at most once. Every terminal path of a
// print call goes through the same Resolver; only the first call reaches the
// underlying resolve function.
type Resolver struct {
	once     sync.Once
	resolved atomic.Bool
	resolve  func(model.PrintResult)
}

// NewResolver wraps resolve so that it runs at most once
func NewResolver(resolve func(model.PrintResult)) *Resolver {
	return &Resolver{resolve: resolve}
}

// Resolve hands result to the resolve function if nothing was resolved yet.
// It reports whether this call was the one that settled the operation.
func (r *Resolver) Resolve(result model.PrintResult) bool {
	settled := false
	r.once.Do(func() {
		settled = true
		r.resolved.Store(true)
		r.resolve(result)
	})
	return settled
}

// Resolved reports whether a result has been delivered
func (r *Resolver) Resolved() bool {
	return r.resolved.Load()
}

// newChannelResolver returns a Resolver feeding a one-slot channel
func newChannelResolver() (*Resolver, <-chan model.PrintResult) {
	ch := make(chan model.PrintResult, 1)
	return NewResolver(func(result model.PrintResult) {
		ch <- result
	}), ch
}
