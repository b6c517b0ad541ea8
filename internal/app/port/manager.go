package port

import (
	"context"

	"network_manager/internal/domain/entity"
	"network_manager/internal/pkg/handle"
)

// ConnectionManager exposes the public operations of the connection
// orchestrator. Switch operations always succeed once resources are
// installed; only the subsequent connectivity state reflects remote trouble.
type ConnectionManager interface {
	Initialize(ctx context.Context) error
	SwitchToWellKnown(ctx context.Context, name string) error
	SwitchToCustom(ctx context.Context, id string) error
	Refresh(ctx context.Context) error
	Rollback(ctx context.Context) error
	Probe(ctx context.Context)
	UpsertCustomEndpoint(ctx context.Context, def entity.CustomEndpoint, opts entity.UpsertOptions) (string, error)
	RemoveCustomEndpoint(id string) error
	GetFeeCapability(ctx context.Context) bool
	ActiveHandles() (*handle.Handle[RequestSender], *handle.Handle[BlockWatcher])
	CurrentConfig() entity.EndpointConfig
	Connectivity() (entity.ConnectivityState, *string)
	CustomEndpoints() map[string]entity.CustomEndpoint
	Shutdown()
}
