package entity

// EndpointKind discriminates how the active network endpoint is reached.
type EndpointKind string

const (
	// EndpointWellKnown is a managed network reached through the rate-limited,
	// geofencing-capable provider backend.
	EndpointWellKnown EndpointKind = "well-known"
	// EndpointCustom is a user-supplied RPC URL dialed directly.
	EndpointCustom EndpointKind = "custom"
)

// EndpointConfig describes the currently selected network. Exactly one live
// EndpointConfig exists at a time; it is part of persisted state and is only
// replaced, never destroyed.
type EndpointConfig struct {
	Kind             EndpointKind `json:"kind" yaml:"kind"`
	ChainID          string       `json:"chainId" yaml:"chainId"` // canonical 0x-hex form
	Ticker           string       `json:"ticker" yaml:"ticker"`
	Nickname         string       `json:"nickname,omitempty" yaml:"nickname,omitempty"`
	RPCURL           string       `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty"`
	BlockExplorerURL string       `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	// CustomEndpointID is set only when Kind is EndpointCustom and points at the
	// registry entry this config was copied from.
	CustomEndpointID string `json:"customEndpointId,omitempty" yaml:"customEndpointId,omitempty"`
}

// Managed reports whether the endpoint is backed by the managed provider, i.e.
// whether a geofencing block is a meaningful outcome for it.
func (c EndpointConfig) Managed() bool {
	return c.Kind == EndpointWellKnown
}

// NetworkDefinition is a static descriptor of a managed, well-known network.
// The full table lives in internal/infrastructure/network/definition.
type NetworkDefinition struct {
	Identifier       string `json:"identifier" yaml:"identifier"` // e.g. "mainnet"
	ChainID          string `json:"chainId" yaml:"chainId"`       // canonical 0x-hex form
	Name             string `json:"name" yaml:"name"`
	Ticker           string `json:"ticker" yaml:"ticker"`
	Host             string `json:"host" yaml:"host"` // provider subdomain, e.g. "mainnet.infura.io"
	BlockExplorerURL string `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}

// EndpointConfig derives the live endpoint descriptor for this well-known
// network. URL and custom-endpoint id are always cleared.
func (d NetworkDefinition) EndpointConfig() EndpointConfig {
	return EndpointConfig{
		Kind:             EndpointWellKnown,
		ChainID:          d.ChainID,
		Ticker:           d.Ticker,
		Nickname:         d.Name,
		BlockExplorerURL: d.BlockExplorerURL,
	}
}
