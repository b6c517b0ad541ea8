package client

import (
	"context"
	"fmt"
	"time"

	"network_manager/internal/app/port"
	"network_manager/internal/domain/entity"
	"network_manager/internal/infrastructure/configloader"
	networkdefinition "network_manager/internal/infrastructure/network/definition"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

const defaultHeadPollInterval = 12 * time.Second

// EVMClientFactory implements port.ClientFactory for EVM JSON-RPC endpoints.
// Build is a pure function from endpoint descriptor to a fresh
// (request-sender, watcher) pair; construction performs no network I/O, only
// the first use of the sender does.
type EVMClientFactory struct {
	projectKey   string
	pollInterval time.Duration
	logger       *zap.Logger
}

var _ port.ClientFactory = (*EVMClientFactory)(nil)

// NewEVMClientFactory creates a factory configured with the managed-provider
// credential and the watcher poll cadence.
func NewEVMClientFactory(cfg *configloader.Config, logger *zap.Logger) *EVMClientFactory {
	interval := time.Duration(cfg.Probe.HeadPollIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultHeadPollInterval
	}
	return &EVMClientFactory{
		projectKey:   cfg.Provider.ProjectKey,
		pollInterval: interval,
		logger:       logger,
	}
}

// Build constructs the matched resource pair for the descriptor. The watcher
// is returned stopped; whoever installs it owns its lifecycle.
func (f *EVMClientFactory) Build(cfg entity.EndpointConfig) (port.RequestSender, port.BlockWatcher, error) {
	url, err := f.endpointURL(cfg)
	if err != nil {
		return nil, nil, err
	}

	rpcClient, err := rpc.DialOptions(context.Background(), url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to construct RPC client for chain %s: %w", cfg.ChainID, err)
	}

	sender := &evmRequestSender{client: rpcClient}
	watcher := NewHeadPoller(sender, f.pollInterval, f.logger.Named("HeadPoller"))
	return sender, watcher, nil
}

// endpointURL resolves the dial target. A custom descriptor missing its URL
// or chain id is a defensive, fatal condition here; the orchestrator validates
// both before calling Build.
func (f *EVMClientFactory) endpointURL(cfg entity.EndpointConfig) (string, error) {
	if cfg.Kind == entity.EndpointCustom {
		if cfg.RPCURL == "" {
			return "", entity.ErrMissingURL
		}
		if cfg.ChainID == "" {
			return "", entity.ErrMissingChainID
		}
		return cfg.RPCURL, nil
	}

	def, ok := networkdefinition.LookupByChainID(cfg.ChainID)
	if !ok {
		return "", fmt.Errorf("%w: no managed network with chain id %s", entity.ErrInvalidNetwork, cfg.ChainID)
	}
	return fmt.Sprintf("https://%s/v3/%s", def.Host, f.projectKey), nil
}

// evmRequestSender wraps a go-ethereum RPC client and tags every remote
// failure with a closed classification for the prober.
type evmRequestSender struct {
	client *rpc.Client
}

var _ port.RequestSender = (*evmRequestSender)(nil)

func (s *evmRequestSender) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if err := s.client.CallContext(ctx, result, method, args...); err != nil {
		return classifyRPCError(err)
	}
	return nil
}
