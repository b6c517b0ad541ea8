package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"network_manager/internal/app/port"
	"network_manager/internal/domain/entity"
	"network_manager/internal/metrics"
	"network_manager/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/sync/errgroup"
)

// ProbeOutcome is the single consistent update one probe run commits: status,
// normalized chain generation id and the dynamic-fee capability. Nil pointers
// mean "cleared" (id unset, capability undetermined).
type ProbeOutcome struct {
	Status            entity.ConnectivityStatus
	ChainGenerationID *string
	DynamicFee        *bool
}

// StatusProber determines, for the currently installed resources, whether the
// network is reachable and whether it supports the dynamic-fee capability.
// A probe whose target was superseded by a switch mid-flight discards its
// entire result; the stale flag armed on the did-change notification is the
// sole mechanism resolving that race.
type StatusProber struct {
	bus    port.Bus
	logger port.Logger
}

// NewStatusProber creates a prober publishing through bus.
func NewStatusProber(bus port.Bus, logger port.Logger) *StatusProber {
	return &StatusProber{bus: bus, logger: logger}
}

// feeProbeBlock is the only slice of the latest block the prober looks at.
type feeProbeBlock struct {
	BaseFeePerGas *hexutil.Big `json:"baseFeePerGas"`
}

// Run executes one probe pass, committing at most one outcome. snapshot
// resolves the probe target and is called only after the stale flag is armed,
// so a switch completing at any point from resolution onward raises the flag.
// A nil sender from snapshot is a no-op, distinguishable from a probe that ran
// and failed. commit must apply the outcome atomically.
func (p *StatusProber) Run(ctx context.Context, snapshot func() (port.RequestSender, entity.EndpointConfig), commit func(ProbeOutcome)) {
	// Arm the stale flag before resolving the target; resolving first would
	// leave a window where a completed switch goes unnoticed. Only the first
	// did-change matters; the flag is first-writer-wins.
	var stale atomic.Bool
	unsubscribe := p.bus.Subscribe(entity.EventNetworkDidChange, func(entity.Event) {
		stale.Store(true)
	})
	defer unsubscribe()

	sender, cfg := snapshot()
	if sender == nil {
		return
	}

	var (
		generationID string
		dynamicFee   bool
	)

	// Both requests run jointly; neither cancels the other. The slower one may
	// still complete on the wire after a failure, its result is just unused.
	var g errgroup.Group
	g.Go(func() error {
		var raw json.RawMessage
		if err := sender.CallContext(ctx, &raw, "eth_chainId"); err != nil {
			return err
		}
		id, err := utils.NormalizeChainGenerationID(raw)
		if err != nil {
			return err
		}
		generationID = id
		return nil
	})
	g.Go(func() error {
		var block *feeProbeBlock
		if err := sender.CallContext(ctx, &block, "eth_getBlockByNumber", "latest", false); err != nil {
			return err
		}
		// A null/absent latest block means base fee absent, not an error.
		dynamicFee = block != nil && block.BaseFeePerGas != nil
		return nil
	})

	outcome := ProbeOutcome{}
	if err := g.Wait(); err != nil {
		outcome.Status = classifyProbeError(err, cfg.Managed())
		p.logger.Debug("status probe failed", "status", string(outcome.Status), "error", err)
	} else {
		outcome.Status = entity.StatusAvailable
		outcome.ChainGenerationID = &generationID
		fee := dynamicFee
		outcome.DynamicFee = &fee
	}

	if stale.Load() {
		metrics.StaleProbesTotal.Inc()
		p.logger.Debug("discarding stale probe result", "chainId", cfg.ChainID)
		return
	}

	commit(outcome)
	p.notifyGate(cfg, outcome.Status)
}

// ProbeDynamicFee runs only the fee-capability half of the probe.
func (p *StatusProber) ProbeDynamicFee(ctx context.Context, sender port.RequestSender) (bool, error) {
	var block *feeProbeBlock
	if err := sender.CallContext(ctx, &block, "eth_getBlockByNumber", "latest", false); err != nil {
		return false, err
	}
	return block != nil && block.BaseFeePerGas != nil, nil
}

// notifyGate applies the blocked/unblocked notification policy. Managed
// networks report their gate transitions; direct endpoints always publish
// unblocked so a consumer stuck behind a managed gate is released on switch,
// regardless of the direct endpoint's own reachability.
func (p *StatusProber) notifyGate(cfg entity.EndpointConfig, status entity.ConnectivityStatus) {
	if cfg.Managed() {
		switch status {
		case entity.StatusBlocked:
			p.bus.Publish(entity.Event{Kind: entity.EventNetworkBlocked})
		case entity.StatusAvailable:
			p.bus.Publish(entity.Event{Kind: entity.EventNetworkUnblocked})
		}
		return
	}
	p.bus.Publish(entity.Event{Kind: entity.EventNetworkUnblocked})
}

// classifyProbeError folds a failed probe into a connectivity status. A direct
// endpoint cannot be gated by the managed-network backend, so the geoblock
// marker degrades to Unknown for it.
func classifyProbeError(err error, managed bool) entity.ConnectivityStatus {
	var failure *entity.RPCFailure
	if errors.As(err, &failure) {
		switch failure.Reason {
		case entity.FailureGeoblocked:
			if managed {
				return entity.StatusBlocked
			}
			return entity.StatusUnknown
		case entity.FailureInternal:
			return entity.StatusUnknown
		case entity.FailureOther:
			return entity.StatusUnavailable
		}
	}
	// Malformed generation ids and anything untagged count as unavailable.
	return entity.StatusUnavailable
}
