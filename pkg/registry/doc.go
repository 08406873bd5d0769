// Package registry implements the subscription workflows (subscribe,
// unsubscribe, broadcast) on top of the subscriber store and exposes them
// over HTTP.
package registry
