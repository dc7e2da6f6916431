package ledger

import (
	"context"
	"fmt"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/block"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/registry"
)

// Set holds one ledger client per registered chain
//
//go:generate mockgen -source=set.go -destination=../mocks/ledger_set.go -package=mocks -mock_names=Set=MockLedgerSet
type Set interface {
	// Get returns the client of a chain, or domain.ErrUnknownChain
	Get(chainID domain.ChainID) (Client, error)

	// All returns every client in probe priority order
	All() []Client

	// Close closes every client
	Close()
}

type set struct {
	clients []Client
	byID    map[domain.ChainID]Client
}

// NewSet dials every chain of the registry and builds its client
func NewSet(ctx context.Context, reg registry.ChainRegistry, dialer adapter.EthClientDialer, signer *Signer, config Config, headConfig block.Config, clock adapter.Clock) (Set, error) {
	clients := make([]Client, 0, len(reg.All()))
	for _, chain := range reg.All() {
		ethClient, err := dialer.Dial(ctx, chain.RPCURL)
		if err != nil {
			for _, c := range clients {
				c.Close()
			}
			return nil, fmt.Errorf("failed to dial chain %d: %w", chain.ID, err)
		}

		heads := block.NewBlockHeadProvider(chain.ID, block.NewEthBlockFetcher(ethClient), headConfig, clock)
		clients = append(clients, NewClient(chain, ethClient, heads, signer, config))
	}
	return NewSetFromClients(clients...), nil
}

// NewSetFromClients builds a set from already constructed clients, keeping their order
func NewSetFromClients(clients ...Client) Set {
	s := &set{
		clients: clients,
		byID:    make(map[domain.ChainID]Client, len(clients)),
	}
	for _, c := range clients {
		s.byID[c.Chain().ID] = c
	}
	return s
}

func (s *set) Get(chainID domain.ChainID) (Client, error) {
	c, ok := s.byID[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownChain, chainID)
	}
	return c, nil
}

func (s *set) All() []Client {
	clients := make([]Client, len(s.clients))
	copy(clients, s.clients)
	return clients
}

func (s *set) Close() {
	for _, c := range s.clients {
		c.Close()
	}
}
