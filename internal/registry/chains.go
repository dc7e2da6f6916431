package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/domain"
)

// ChainRegistry is the static table of supported chains
//
//go:generate mockgen -source=chains.go -destination=../mocks/chain_registry.go -package=mocks -mock_names=ChainRegistry=MockChainRegistry
type ChainRegistry interface {
	// Get returns the chain with the given id
	Get(id domain.ChainID) (domain.Chain, bool)

	// All returns every chain in probe priority order
	All() []domain.Chain

	// IDs returns every chain id in probe priority order
	IDs() []domain.ChainID
}

// ChainRegistryData represents the structure of the chain registry JSON file
type ChainRegistryData struct {
	Version int            `json:"version"`
	Chains  []domain.Chain `json:"chains"`
}

// DefaultChains returns the built-in chain table used when nothing is configured
func DefaultChains() []domain.Chain {
	return []domain.Chain{
		{
			ID:                   domain.CHAIN_ID_POLYGON_AMOY,
			Name:                 "Polygon Amoy",
			RPCURL:               "https://rpc-amoy.polygon.technology",
			ExplorerURL:          "https://amoy.polygonscan.com",
			NativeCurrencySymbol: "POL",
		},
		{
			ID:                   domain.CHAIN_ID_BASE_SEPOLIA,
			Name:                 "Base Sepolia",
			RPCURL:               "https://sepolia.base.org",
			ExplorerURL:          "https://sepolia.basescan.org",
			NativeCurrencySymbol: "ETH",
		},
		{
			ID:                   domain.CHAIN_ID_ETHEREUM_SEPOLIA,
			Name:                 "Ethereum Sepolia",
			RPCURL:               "https://rpc.sepolia.org",
			ExplorerURL:          "https://sepolia.etherscan.io",
			NativeCurrencySymbol: "ETH",
		},
	}
}

// chainRegistry is the internal implementation of ChainRegistry interface
type chainRegistry struct {
	chains []domain.Chain
	byID   map[domain.ChainID]domain.Chain
}

// NewChainRegistry validates the chain table and builds the registry.
// The order of chains is the probe priority order.
func NewChainRegistry(chains []domain.Chain) (ChainRegistry, error) {
	if len(chains) == 0 {
		return nil, errors.New("chain registry is empty")
	}

	r := &chainRegistry{
		chains: make([]domain.Chain, 0, len(chains)),
		byID:   make(map[domain.ChainID]domain.Chain, len(chains)),
	}

	for _, chain := range chains {
		if chain.ID == 0 {
			return nil, errors.New("chain id is required")
		}
		if strings.TrimSpace(chain.RPCURL) == "" {
			return nil, fmt.Errorf("rpc url is required for chain %d", chain.ID)
		}
		if _, exists := r.byID[chain.ID]; exists {
			return nil, fmt.Errorf("duplicate chain id %d", chain.ID)
		}
		r.byID[chain.ID] = chain
		r.chains = append(r.chains, chain)
	}

	return r, nil
}

// Get returns the chain with the given id
func (r *chainRegistry) Get(id domain.ChainID) (domain.Chain, bool) {
	chain, ok := r.byID[id]
	return chain, ok
}

// All returns a copy of the chain table
func (r *chainRegistry) All() []domain.Chain {
	chains := make([]domain.Chain, len(r.chains))
	copy(chains, r.chains)
	return chains
}

// IDs returns every chain id in probe priority order
func (r *chainRegistry) IDs() []domain.ChainID {
	ids := make([]domain.ChainID, len(r.chains))
	for i, chain := range r.chains {
		ids[i] = chain.ID
	}
	return ids
}

// ChainRegistryLoader defines the interface for loading chain registries from files
//
//go:generate mockgen -source=chains.go -destination=../mocks/chain_registry.go -package=mocks -mock_names=ChainRegistryLoader=MockChainRegistryLoader
type ChainRegistryLoader interface {
	// Load loads the chain registry from a JSON file
	Load(filePath string) (ChainRegistry, error)
}

// chainRegistryLoader is the internal implementation of ChainRegistryLoader interface
type chainRegistryLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewChainRegistryLoader creates a new ChainRegistryLoader with injected dependencies
func NewChainRegistryLoader(fs adapter.FileSystem, json adapter.JSON) ChainRegistryLoader {
	return &chainRegistryLoader{
		fs:   fs,
		json: json,
	}
}

// Load loads the chain registry from a JSON file
func (l *chainRegistryLoader) Load(filePath string) (ChainRegistry, error) {
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var registryData ChainRegistryData
	if err := l.json.Unmarshal(data, &registryData); err != nil {
		return nil, fmt.Errorf("failed to parse registry JSON: %w", err)
	}

	return NewChainRegistry(registryData.Chains)
}
