package port

import (
	"context"

	"network_manager/internal/domain/entity"
)

// RequestSender issues JSON-RPC requests against one concrete endpoint.
// Implementations wrap remote failures in *entity.RPCFailure so the prober can
// classify them without inspecting transport internals.
type RequestSender interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// BlockWatcher observes new chain heads for one concrete endpoint. A watcher
// is returned stopped by the factory; whoever installs it owns start/stop.
type BlockWatcher interface {
	// Start begins polling. Calling Start on a running watcher is a no-op.
	Start(ctx context.Context)
	// Stop halts polling and waits for the poll loop to exit. Idempotent.
	Stop()
	// Subscribe registers a listener for new head numbers and returns its
	// unsubscribe function.
	Subscribe(fn func(head uint64)) (unsubscribe func())
}

// ClientFactory builds a freshly constructed, matched (request-sender,
// watcher) pair for an endpoint descriptor. Pure function from description to
// resources: no caching, no side effects beyond allocation, and the watcher is
// not started.
type ClientFactory interface {
	Build(cfg entity.EndpointConfig) (RequestSender, BlockWatcher, error)
}

// Bus is the ordered in-process notification channel between the connection
// manager and its subscribers. Publish dispatches synchronously to the
// subscribers of the event's kind, in registration order.
type Bus interface {
	Publish(evt entity.Event)
	Subscribe(kind entity.EventKind, fn func(entity.Event)) (unsubscribe func())
}

// StateStore persists the manager state across restarts.
type StateStore interface {
	// Load returns the stored state, or nil when nothing has been stored yet.
	Load() (*entity.PersistedState, error)
	Save(st entity.PersistedState) error
}

// HealthObserver records per-endpoint probe outcomes for operational
// read-outs. Implementations must not block.
type HealthObserver interface {
	ObserveProbe(endpoint string, status entity.ConnectivityStatus)
}
