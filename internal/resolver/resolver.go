package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/metrics"
)

const (
	outcomeFound       = "found"
	outcomeAbsent      = "absent"
	outcomeUnreachable = "unreachable"
	outcomeCancelled   = "cancelled"
)

// Resolution is the chain a ticket was found on
type Resolution struct {
	ChainID domain.ChainID
	Client  ledger.Client
}

// Resolver finds which registered chain a ticket lives on
//
//go:generate mockgen -source=resolver.go -destination=../mocks/resolver.go -package=mocks -mock_names=Resolver=MockResolver
type Resolver interface {
	// Resolve probes the hinted chain first and then the remaining chains concurrently.
	// Returns domain.ErrNotFoundOnAnyChain when every chain answered that the ticket is absent
	// and domain.ErrChainUnreachable when at least one chain could not be asked.
	Resolve(ctx context.Context, contractAddress, tokenID string, hint *domain.ChainID) (*Resolution, error)

	// Close stops the probe pool
	Close()
}

// Config holds the resolver settings
type Config struct {
	// ProbeTimeout bounds a single chain probe
	ProbeTimeout time.Duration
	// MaxConcurrency bounds the number of probes in flight across all resolutions
	MaxConcurrency int
}

type resolver struct {
	ledgers ledger.Set
	config  Config
	pool    pond.Pool
}

// NewResolver creates a resolver backed by a bounded probe pool
func NewResolver(ledgers ledger.Set, config Config) Resolver {
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = 5 * time.Second
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 16
	}

	return &resolver{
		ledgers: ledgers,
		config:  config,
		pool:    pond.NewPool(config.MaxConcurrency),
	}
}

type probeResult struct {
	client ledger.Client
	found  bool
	err    error
}

func (r *resolver) Close() {
	r.pool.StopAndWait()
}

func (r *resolver) Resolve(ctx context.Context, contractAddress, tokenID string, hint *domain.ChainID) (*Resolution, error) {
	clients := r.ledgers.All()
	if len(clients) == 0 {
		return nil, fmt.Errorf("%w: no chains registered", domain.ErrChainUnreachable)
	}

	unreachable := 0
	if hint != nil {
		hinted, err := r.ledgers.Get(*hint)
		if err != nil {
			// Unknown hint: fall through to the full fan-out
			logger.WarnCtx(ctx, "Ignoring unknown chain hint", zap.Uint64("chainId", uint64(*hint)))
		} else {
			res := r.probe(ctx, hinted, contractAddress, tokenID)
			if res.found {
				return &Resolution{ChainID: hinted.Chain().ID, Client: hinted}, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if res.err != nil {
				unreachable++
			}

			remaining := make([]ledger.Client, 0, len(clients))
			for _, c := range clients {
				if c.Chain().ID != *hint {
					remaining = append(remaining, c)
				}
			}
			clients = remaining
		}
	}

	res, fanUnreachable, err := r.fanOut(ctx, clients, contractAddress, tokenID)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}

	unreachable += fanUnreachable
	if unreachable > 0 {
		return nil, fmt.Errorf("%w: %d chain(s) could not be asked for %s/%s",
			domain.ErrChainUnreachable, unreachable, contractAddress, tokenID)
	}
	return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFoundOnAnyChain, contractAddress, tokenID)
}

// fanOut probes every client concurrently. The first chain reporting the ticket wins
// and the remaining probes are cancelled.
func (r *resolver) fanOut(ctx context.Context, clients []ledger.Client, contractAddress, tokenID string) (*Resolution, int, error) {
	if len(clients) == 0 {
		return nil, 0, nil
	}

	fanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan probeResult, len(clients))
	for _, c := range clients {
		client := c
		r.pool.Submit(func() {
			results <- r.probe(fanCtx, client, contractAddress, tokenID)
		})
	}

	unreachable := 0
	for range clients {
		var res probeResult
		select {
		case res = <-results:
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}

		if res.found {
			cancel()
			return &Resolution{ChainID: res.client.Chain().ID, Client: res.client}, 0, nil
		}
		if res.err != nil {
			unreachable++
		}
	}

	return nil, unreachable, nil
}

// probe asks one chain whether the ticket exists, bounded by the probe timeout
func (r *resolver) probe(ctx context.Context, client ledger.Client, contractAddress, tokenID string) probeResult {
	chain := client.Chain().ID.String()
	if err := ctx.Err(); err != nil {
		metrics.ResolverProbesTotal.WithLabelValues(chain, outcomeCancelled).Inc()
		return probeResult{client: client, err: err}
	}

	probeCtx, cancel := context.WithTimeout(ctx, r.config.ProbeTimeout)
	defer cancel()

	exists, err := client.TicketExists(probeCtx, contractAddress, tokenID)
	switch {
	case err != nil && errors.Is(ctx.Err(), context.Canceled):
		metrics.ResolverProbesTotal.WithLabelValues(chain, outcomeCancelled).Inc()
	case err != nil:
		metrics.ResolverProbesTotal.WithLabelValues(chain, outcomeUnreachable).Inc()
		logger.WarnCtx(ctx, "Chain probe failed",
			zap.String("chain", chain),
			zap.String("contract", contractAddress),
			zap.String("tokenId", tokenID),
			zap.Error(err))
	case exists:
		metrics.ResolverProbesTotal.WithLabelValues(chain, outcomeFound).Inc()
	default:
		metrics.ResolverProbesTotal.WithLabelValues(chain, outcomeAbsent).Inc()
	}

	return probeResult{client: client, found: err == nil && exists, err: err}
}
