package networkdefinition_test

import (
	"testing"

	"network_manager/internal/domain/entity"
	networkdefinition "network_manager/internal/infrastructure/network/definition"
	"network_manager/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownIdentifiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		identifier string
		chainID    string
	}{
		{identifier: "mainnet", chainID: "0x1"},
		{identifier: "sepolia", chainID: "0xaa36a7"},
		{identifier: "holesky", chainID: "0x4268"},
		{identifier: "linea-mainnet", chainID: "0xe708"},
		{identifier: "linea-sepolia", chainID: "0xe705"},
	}

	for _, tc := range tests {
		def, ok := networkdefinition.Lookup(tc.identifier)
		require.True(t, ok, "expected %s to be known", tc.identifier)
		assert.Equal(t, tc.chainID, def.ChainID)
		assert.NotEmpty(t, def.Host)
	}
}

func TestLookupUnknownIdentifier(t *testing.T) {
	t.Parallel()

	_, ok := networkdefinition.Lookup("dogechain")
	assert.False(t, ok)
}

func TestLookupByChainID(t *testing.T) {
	t.Parallel()

	def, ok := networkdefinition.LookupByChainID("0xe708")
	require.True(t, ok)
	assert.Equal(t, "linea-mainnet", def.Identifier)

	_, ok = networkdefinition.LookupByChainID("0x539")
	assert.False(t, ok)
}

func TestDefaultIsMainnet(t *testing.T) {
	t.Parallel()

	assert.Equal(t, networkdefinition.Mainnet, networkdefinition.Default())
}

func TestAllDefinitionsAreWellFormed(t *testing.T) {
	t.Parallel()

	defs := networkdefinition.All()
	require.Len(t, defs, 5)
	for _, def := range defs {
		assert.True(t, utils.ValidChainIDHex(def.ChainID), "chain id %q of %s", def.ChainID, def.Identifier)
		assert.NotEmpty(t, def.Ticker, def.Identifier)
		assert.NotEmpty(t, def.Host, def.Identifier)
	}
}

func TestEndpointConfigDerivation(t *testing.T) {
	t.Parallel()

	cfg := networkdefinition.Sepolia.EndpointConfig()
	assert.Equal(t, entity.EndpointWellKnown, cfg.Kind)
	assert.Equal(t, "0xaa36a7", cfg.ChainID)
	assert.Equal(t, "SepoliaETH", cfg.Ticker)
	assert.Empty(t, cfg.RPCURL, "well-known configs never carry a raw URL")
	assert.Empty(t, cfg.CustomEndpointID)
	assert.True(t, cfg.Managed())
}
