// Package middleware decorates a ports.ProgressStore with cross-cutting behavior.
package middleware

import "github.com/aretw0/waypoint/pkg/ports"

// Middleware allows wrapping a ProgressStore to add behavior.
type Middleware func(ports.ProgressStore) ports.ProgressStore

// Chain wraps store with mws. The first middleware is the outermost.
func Chain(store ports.ProgressStore, mws ...Middleware) ports.ProgressStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
