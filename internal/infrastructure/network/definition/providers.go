package networkdefinition

import "network_manager/internal/domain/entity"

// Predefined managed network definitions. These are the only networks
// reachable through the provider backend; everything else enters the system
// as a custom endpoint.
var ( //nolint:gochecknoglobals // Global for definitions
	Mainnet = entity.NetworkDefinition{
		Identifier:       "mainnet",
		ChainID:          "0x1",
		Name:             "Ethereum Mainnet",
		Ticker:           "ETH",
		Host:             "mainnet.infura.io",
		BlockExplorerURL: "https://etherscan.io",
	}
	Sepolia = entity.NetworkDefinition{
		Identifier:       "sepolia",
		ChainID:          "0xaa36a7",
		Name:             "Sepolia",
		Ticker:           "SepoliaETH",
		Host:             "sepolia.infura.io",
		BlockExplorerURL: "https://sepolia.etherscan.io",
	}
	Holesky = entity.NetworkDefinition{
		Identifier:       "holesky",
		ChainID:          "0x4268",
		Name:             "Holesky",
		Ticker:           "HoleskyETH",
		Host:             "holesky.infura.io",
		BlockExplorerURL: "https://holesky.etherscan.io",
	}
	LineaMainnet = entity.NetworkDefinition{
		Identifier:       "linea-mainnet",
		ChainID:          "0xe708",
		Name:             "Linea Mainnet",
		Ticker:           "ETH",
		Host:             "linea-mainnet.infura.io",
		BlockExplorerURL: "https://lineascan.build",
	}
	LineaSepolia = entity.NetworkDefinition{
		Identifier:       "linea-sepolia",
		ChainID:          "0xe705",
		Name:             "Linea Sepolia",
		Ticker:           "LineaETH",
		Host:             "linea-sepolia.infura.io",
		BlockExplorerURL: "https://sepolia.lineascan.build",
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	Mainnet.Identifier:      Mainnet,
	Sepolia.Identifier:      Sepolia,
	Holesky.Identifier:      Holesky,
	LineaMainnet.Identifier: LineaMainnet,
	LineaSepolia.Identifier: LineaSepolia,
}

// Lookup returns the definition for a well-known network identifier.
func Lookup(identifier string) (entity.NetworkDefinition, bool) {
	def, ok := allKnownDefinitions[identifier]
	return def, ok
}

// LookupByChainID returns the managed definition carrying the given canonical
// hex chain id. Used by the client factory to resolve the provider host for a
// well-known endpoint config.
func LookupByChainID(chainID string) (entity.NetworkDefinition, bool) {
	for _, def := range allKnownDefinitions {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// All returns every well-known network definition.
func All() []entity.NetworkDefinition {
	defs := make([]entity.NetworkDefinition, 0, len(allKnownDefinitions))
	for _, def := range allKnownDefinitions {
		defs = append(defs, def)
	}
	return defs
}

// Default is the network a fresh installation starts on.
func Default() entity.NetworkDefinition {
	return Mainnet
}
