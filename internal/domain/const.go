package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"
)

// Built-in chain ids
const (
	CHAIN_ID_POLYGON_MAINNET  ChainID = 137
	CHAIN_ID_POLYGON_AMOY     ChainID = 80002
	CHAIN_ID_BASE_SEPOLIA     ChainID = 84532
	CHAIN_ID_ETHEREUM_SEPOLIA ChainID = 11155111
)
