package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"network_manager/internal/app/port"
	"network_manager/internal/domain/entity"
	"network_manager/internal/infrastructure/configloader"
	networkdefinition "network_manager/internal/infrastructure/network/definition"
	"network_manager/internal/metrics"
	"network_manager/internal/pkg/handle"
	"network_manager/internal/pkg/utils"

	"github.com/google/uuid"
)

// ConnectionService owns the canonical endpoint configuration and drives the
// refresh sequence: publish intent, reset status, construct new resources,
// install them into the stable handles, publish completion, probe. It is the
// only component that constructs or replaces the live resource pair; everyone
// else observes through the handles.
type ConnectionService struct {
	factory        port.ClientFactory
	bus            port.Bus
	store          port.StateStore
	health         port.HealthObserver
	logger         port.Logger
	prober         *StatusProber
	requestTimeout time.Duration

	// switchMu serializes refresh sequences through the resource-swap step. A
	// later switch starts only after the earlier one's swap completed, but
	// probes run outside this lock and may race later switches; the prober's
	// stale flag resolves that race.
	switchMu sync.Mutex

	// mu guards all state below.
	mu              sync.Mutex
	endpointConfig  entity.EndpointConfig
	previousConfig  entity.EndpointConfig
	connectivity    entity.ConnectivityState
	generationID    *string
	customEndpoints map[string]entity.CustomEndpoint
	senderHandle    *handle.Handle[port.RequestSender]
	watcherHandle   *handle.Handle[port.BlockWatcher]
	headUnsub       func()
}

var _ port.ConnectionManager = (*ConnectionService)(nil)

// NewConnectionService creates the orchestrator starting on the default
// well-known network. health may be nil.
func NewConnectionService(
	factory port.ClientFactory,
	b port.Bus,
	st port.StateStore,
	health port.HealthObserver,
	l port.Logger,
	cfg *configloader.Config,
) *ConnectionService {
	initial := networkdefinition.Default().EndpointConfig()
	return &ConnectionService{
		factory:         factory,
		bus:             b,
		store:           st,
		health:          health,
		logger:          l,
		prober:          NewStatusProber(b, l),
		requestTimeout:  time.Duration(cfg.Probe.RequestTimeoutSeconds) * time.Second,
		endpointConfig:  initial,
		previousConfig:  initial,
		connectivity:    entity.ConnectivityState{Status: entity.StatusUnknown},
		customEndpoints: make(map[string]entity.CustomEndpoint),
	}
}

// Initialize restores persisted state, builds resources for the restored (or
// default) endpoint config, installs them and runs the first probe. Call once
// at startup.
func (s *ConnectionService) Initialize(ctx context.Context) error {
	persisted, err := s.store.Load()
	if err != nil {
		s.logger.Warn("failed to load persisted state, starting from defaults", "error", err)
	}
	if persisted != nil {
		s.mu.Lock()
		s.endpointConfig = persisted.EndpointConfig
		s.previousConfig = persisted.EndpointConfig
		s.generationID = persisted.ChainGenerationID
		if persisted.CustomEndpoints != nil {
			s.customEndpoints = persisted.CustomEndpoints
		}
		s.mu.Unlock()
		s.logger.Info("restored persisted network state",
			"chainId", persisted.EndpointConfig.ChainID,
			"customEndpoints", len(persisted.CustomEndpoints))
	}

	s.switchMu.Lock()
	err = s.refreshLocked()
	s.switchMu.Unlock()
	if err != nil {
		return err
	}
	s.Probe(ctx)
	return nil
}

// SwitchToWellKnown switches the active network to the named managed network.
func (s *ConnectionService) SwitchToWellKnown(ctx context.Context, name string) error {
	def, ok := networkdefinition.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", entity.ErrInvalidNetwork, name)
	}

	s.switchMu.Lock()
	s.snapshotAndSet(def.EndpointConfig())
	err := s.refreshLocked()
	s.switchMu.Unlock()
	if err != nil {
		return err
	}

	metrics.NetworkSwitchesTotal.WithLabelValues(string(entity.EndpointWellKnown)).Inc()
	s.logger.Info("switched to well-known network", "network", name, "chainId", def.ChainID)
	s.Probe(ctx)
	return nil
}

// SwitchToCustom switches the active network to a stored custom endpoint.
func (s *ConnectionService) SwitchToCustom(ctx context.Context, id string) error {
	s.mu.Lock()
	ep, ok := s.customEndpoints[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", entity.ErrUnknownEndpoint, id)
	}
	if ep.RPCURL == "" {
		return entity.ErrMissingURL
	}
	if ep.ChainID == "" {
		return entity.ErrMissingChainID
	}
	ep.ID = id

	s.switchMu.Lock()
	s.snapshotAndSet(ep.EndpointConfig())
	err := s.refreshLocked()
	s.switchMu.Unlock()
	if err != nil {
		return err
	}

	metrics.NetworkSwitchesTotal.WithLabelValues(string(entity.EndpointCustom)).Inc()
	s.logger.Info("switched to custom endpoint", "id", id, "chainId", ep.ChainID)
	s.Probe(ctx)
	return nil
}

// Refresh re-runs the refresh sequence against the current endpoint config
// unchanged: new resources and a re-probe without switching network identity.
func (s *ConnectionService) Refresh(ctx context.Context) error {
	s.switchMu.Lock()
	err := s.refreshLocked()
	s.switchMu.Unlock()
	if err != nil {
		return err
	}
	s.Probe(ctx)
	return nil
}

// Rollback restores the endpoint config active before the most recent switch.
// Per the general snapshot rule this records the rolled-back-from config as
// the new rollback target.
func (s *ConnectionService) Rollback(ctx context.Context) error {
	s.switchMu.Lock()
	s.mu.Lock()
	previous := s.previousConfig
	s.mu.Unlock()
	s.snapshotAndSet(previous)
	err := s.refreshLocked()
	s.switchMu.Unlock()
	if err != nil {
		return err
	}

	metrics.NetworkSwitchesTotal.WithLabelValues(string(previous.Kind)).Inc()
	s.logger.Info("rolled back to previous network", "chainId", previous.ChainID)
	s.Probe(ctx)
	return nil
}

// Probe re-runs the status probe against the currently installed resources.
// Safe to call while a switch is in flight; a superseded probe discards its
// result.
func (s *ConnectionService) Probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()
	s.prober.Run(ctx, s.probeTarget, s.commitOutcome)
}

// probeTarget resolves the live sender and endpoint config for a probe pass.
// The prober calls it only after arming its stale flag, so a switch landing
// after resolution is always observed as staleness.
func (s *ConnectionService) probeTarget() (port.RequestSender, entity.EndpointConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sender port.RequestSender
	if s.senderHandle != nil {
		sender = s.senderHandle.Get()
	}
	return sender, s.endpointConfig
}

// UpsertCustomEndpoint validates def and inserts it into the registry, or
// updates the entry whose RPC URL matches case-insensitively. Returns the
// entry's id.
func (s *ConnectionService) UpsertCustomEndpoint(ctx context.Context, def entity.CustomEndpoint, opts entity.UpsertOptions) (string, error) {
	if !utils.ValidChainIDHex(def.ChainID) {
		return "", fmt.Errorf("%w: %q", entity.ErrInvalidChainID, def.ChainID)
	}
	if def.RPCURL == "" {
		return "", entity.ErrMissingURL
	}
	if parsed, err := url.Parse(def.RPCURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", entity.ErrInvalidURL, def.RPCURL)
	}
	if def.Ticker == "" {
		return "", entity.ErrMissingTicker
	}
	if opts.Attribution.Referrer == "" || opts.Attribution.Source == "" {
		return "", entity.ErrMissingAttribution
	}

	s.mu.Lock()
	var id string
	for existingID, existing := range s.customEndpoints {
		if strings.EqualFold(existing.RPCURL, def.RPCURL) {
			id = existingID
			break
		}
	}
	inserted := id == ""
	if inserted {
		id = uuid.NewString()
	}
	def.ID = id
	s.customEndpoints[id] = def
	s.mu.Unlock()
	s.persist()

	if inserted {
		// Creation tracking fires for new entries only, never for updates.
		metrics.CustomEndpointsCreatedTotal.WithLabelValues(opts.Attribution.Source).Inc()
		s.logger.Info("custom endpoint created",
			"id", id,
			"chainId", def.ChainID,
			"referrer", opts.Attribution.Referrer,
			"source", opts.Attribution.Source)
	} else {
		s.logger.Debug("custom endpoint updated", "id", id, "chainId", def.ChainID)
	}

	if opts.SetActive {
		if err := s.SwitchToCustom(ctx, id); err != nil {
			return id, err
		}
	}
	return id, nil
}

// RemoveCustomEndpoint deletes a registry entry. The active endpoint config is
// untouched even when it references this id.
func (s *ConnectionService) RemoveCustomEndpoint(id string) error {
	s.mu.Lock()
	if _, ok := s.customEndpoints[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", entity.ErrUnknownEndpoint, id)
	}
	delete(s.customEndpoints, id)
	s.mu.Unlock()
	s.persist()
	s.logger.Info("custom endpoint removed", "id", id)
	return nil
}

// GetFeeCapability returns the cached dynamic-fee flag, or probes just the
// fee-capability half and caches the result. Returns false with no state
// change when no resources are installed yet.
func (s *ConnectionService) GetFeeCapability(ctx context.Context) bool {
	s.mu.Lock()
	if v, ok := s.connectivity.Capabilities[entity.CapabilityDynamicFee]; ok {
		s.mu.Unlock()
		return v
	}
	var sender port.RequestSender
	if s.senderHandle != nil {
		sender = s.senderHandle.Get()
	}
	s.mu.Unlock()

	if sender == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()
	supports, err := s.prober.ProbeDynamicFee(ctx, sender)
	if err != nil {
		s.logger.Debug("fee capability probe failed", "error", err)
		return false
	}

	s.mu.Lock()
	if s.connectivity.Capabilities == nil {
		s.connectivity.Capabilities = make(map[string]bool)
	}
	s.connectivity.Capabilities[entity.CapabilityDynamicFee] = supports
	s.mu.Unlock()
	s.persist()
	s.bus.Publish(entity.Event{Kind: entity.EventStateChanged, ChangedFields: []string{"connectivityState.capabilities"}})
	return supports
}

// ActiveHandles returns the stable handles for the live resource pair. Both
// are nil before Initialize.
func (s *ConnectionService) ActiveHandles() (*handle.Handle[port.RequestSender], *handle.Handle[port.BlockWatcher]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.senderHandle, s.watcherHandle
}

// CurrentConfig returns the live endpoint config.
func (s *ConnectionService) CurrentConfig() entity.EndpointConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpointConfig
}

// Connectivity returns the current connectivity state and normalized chain
// generation id (nil while undetermined).
func (s *ConnectionService) Connectivity() (entity.ConnectivityState, *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneConnectivity(s.connectivity), s.generationID
}

// CustomEndpoints returns a copy of the registry.
func (s *ConnectionService) CustomEndpoints() map[string]entity.CustomEndpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	endpoints := make(map[string]entity.CustomEndpoint, len(s.customEndpoints))
	for id, ep := range s.customEndpoints {
		endpoints[id] = ep
	}
	return endpoints
}

// Shutdown stops the installed watcher and persists a final snapshot. The
// request-sender handle is left as-is; in-flight requests are not cancelled.
func (s *ConnectionService) Shutdown() {
	s.mu.Lock()
	var watcher port.BlockWatcher
	if s.watcherHandle != nil {
		watcher = s.watcherHandle.Get()
	}
	s.mu.Unlock()
	if watcher != nil {
		watcher.Stop()
	}
	s.persist()
	s.logger.Info("connection service shut down")
}

// refreshLocked performs the serialized portion of the refresh sequence.
// Callers hold switchMu. Ordering contract: will-change strictly before any
// resource replacement, did-change strictly before the post-switch probe.
func (s *ConnectionService) refreshLocked() error {
	s.bus.Publish(entity.Event{Kind: entity.EventNetworkWillChange})
	s.resetConnectivity()

	s.mu.Lock()
	cfg := s.endpointConfig
	s.mu.Unlock()

	sender, watcher, err := s.factory.Build(cfg)
	if err != nil {
		// Previous resources stay installed and untouched.
		return fmt.Errorf("failed to construct resources for chain %s: %w", cfg.ChainID, err)
	}

	s.install(sender, watcher)
	s.persist()
	s.bus.Publish(entity.Event{Kind: entity.EventNetworkDidChange})
	return nil
}

// snapshotAndSet records the active config as the rollback target and makes
// next the live config. Callers hold switchMu.
func (s *ConnectionService) snapshotAndSet(next entity.EndpointConfig) {
	s.mu.Lock()
	s.previousConfig = s.endpointConfig
	s.endpointConfig = next
	s.mu.Unlock()
}

// resetConnectivity moves the state to {Unknown, cleared} before any new
// resource is installed, so a mix of old-network status and new-network
// config is never observable.
func (s *ConnectionService) resetConnectivity() {
	s.mu.Lock()
	var changed []string
	if s.connectivity.Status != entity.StatusUnknown {
		changed = append(changed, "connectivityState.status")
	}
	if s.connectivity.Capabilities != nil {
		changed = append(changed, "connectivityState.capabilities")
	}
	if s.generationID != nil {
		changed = append(changed, "chainGenerationId")
	}
	s.connectivity = entity.ConnectivityState{Status: entity.StatusUnknown}
	s.generationID = nil
	s.mu.Unlock()

	metrics.SetConnectivityStatus(string(entity.StatusUnknown))
	if len(changed) > 0 {
		s.bus.Publish(entity.Event{Kind: entity.EventStateChanged, ChangedFields: changed})
	}
}

// install swaps both handles together, restarts head watching on the new
// watcher and stops the old one. The old sender is never closed: its in-flight
// requests are allowed to finish, their results are simply never committed.
func (s *ConnectionService) install(sender port.RequestSender, watcher port.BlockWatcher) {
	s.mu.Lock()
	if s.headUnsub != nil {
		s.headUnsub()
		s.headUnsub = nil
	}
	var oldWatcher port.BlockWatcher
	if s.senderHandle == nil {
		s.senderHandle = handle.New(sender)
		s.watcherHandle = handle.New(watcher)
	} else {
		oldWatcher = s.watcherHandle.Get()
		s.senderHandle.Swap(sender)
		s.watcherHandle.Swap(watcher)
	}
	s.headUnsub = watcher.Subscribe(func(head uint64) {
		metrics.ChainHead.Set(float64(head))
	})
	s.mu.Unlock()

	if oldWatcher != nil {
		oldWatcher.Stop()
	}
	watcher.Start(context.Background())
}

// commitOutcome applies a probe outcome as one atomic state update and
// publishes the resulting diff.
func (s *ConnectionService) commitOutcome(o ProbeOutcome) {
	s.mu.Lock()
	var changed []string
	if s.connectivity.Status != o.Status {
		s.connectivity.Status = o.Status
		changed = append(changed, "connectivityState.status")
	}
	if o.DynamicFee != nil {
		current, ok := s.connectivity.Capabilities[entity.CapabilityDynamicFee]
		if !ok || current != *o.DynamicFee {
			if s.connectivity.Capabilities == nil {
				s.connectivity.Capabilities = make(map[string]bool)
			}
			s.connectivity.Capabilities[entity.CapabilityDynamicFee] = *o.DynamicFee
			changed = append(changed, "connectivityState.capabilities")
		}
	} else if s.connectivity.Capabilities != nil {
		s.connectivity.Capabilities = nil
		changed = append(changed, "connectivityState.capabilities")
	}
	if !equalStringPtr(s.generationID, o.ChainGenerationID) {
		s.generationID = o.ChainGenerationID
		changed = append(changed, "chainGenerationId")
	}
	endpoint := healthEndpoint(s.endpointConfig)
	s.mu.Unlock()

	metrics.ProbeOutcomesTotal.WithLabelValues(string(o.Status)).Inc()
	metrics.SetConnectivityStatus(string(o.Status))

	if len(changed) > 0 {
		s.persist()
		s.bus.Publish(entity.Event{Kind: entity.EventStateChanged, ChangedFields: changed})
	}
	if s.health != nil {
		s.health.ObserveProbe(endpoint, o.Status)
	}
}

// persist writes the current snapshot through the state store. Persist
// failures are logged, never fatal to the operation that triggered them.
func (s *ConnectionService) persist() {
	s.mu.Lock()
	endpoints := make(map[string]entity.CustomEndpoint, len(s.customEndpoints))
	for id, ep := range s.customEndpoints {
		endpoints[id] = ep
	}
	snapshot := entity.PersistedState{
		ChainGenerationID:  s.generationID,
		ConnectivityStatus: s.connectivity.Status,
		EndpointConfig:     s.endpointConfig,
		ConnectivityState:  cloneConnectivity(s.connectivity),
		CustomEndpoints:    endpoints,
	}
	s.mu.Unlock()

	if err := s.store.Save(snapshot); err != nil {
		s.logger.Error("failed to persist state", "error", err)
	}
}

// healthEndpoint picks the identifier the health tracker keys this config by:
// the raw URL for direct endpoints, the provider host for managed ones.
func healthEndpoint(cfg entity.EndpointConfig) string {
	if cfg.RPCURL != "" {
		return cfg.RPCURL
	}
	if def, ok := networkdefinition.LookupByChainID(cfg.ChainID); ok {
		return def.Host
	}
	return cfg.ChainID
}

func cloneConnectivity(st entity.ConnectivityState) entity.ConnectivityState {
	out := entity.ConnectivityState{Status: st.Status}
	if st.Capabilities != nil {
		out.Capabilities = make(map[string]bool, len(st.Capabilities))
		for k, v := range st.Capabilities {
			out.Capabilities[k] = v
		}
	}
	return out
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
