package entity

// CustomEndpoint is a stored user-supplied RPC endpoint definition, keyed in
// the registry by a generated id. At most one entry exists per
// case-insensitive RPC URL; an upsert whose URL matches an existing entry
// updates that entry in place under the same id.
type CustomEndpoint struct {
	ID               string `json:"id" yaml:"id"`
	RPCURL           string `json:"rpcUrl" yaml:"rpcUrl"`
	ChainID          string `json:"chainId" yaml:"chainId"` // canonical 0x-hex form
	Ticker           string `json:"ticker" yaml:"ticker"`
	Nickname         string `json:"nickname,omitempty" yaml:"nickname,omitempty"`
	BlockExplorerURL string `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}

// EndpointConfig derives the live endpoint descriptor for this custom endpoint.
func (e CustomEndpoint) EndpointConfig() EndpointConfig {
	return EndpointConfig{
		Kind:             EndpointCustom,
		ChainID:          e.ChainID,
		Ticker:           e.Ticker,
		Nickname:         e.Nickname,
		RPCURL:           e.RPCURL,
		BlockExplorerURL: e.BlockExplorerURL,
		CustomEndpointID: e.ID,
	}
}

// UpsertAttribution records where an upserted custom endpoint definition came
// from. Both fields are required; they feed the creation-tracking side effect
// emitted for newly inserted entries.
type UpsertAttribution struct {
	Referrer string `json:"referrer"`
	Source   string `json:"source"`
}

// UpsertOptions qualifies an upsert call.
type UpsertOptions struct {
	// SetActive additionally switches to the upserted endpoint.
	SetActive   bool              `json:"setActive"`
	Attribution UpsertAttribution `json:"attribution"`
}
