package sweeper

import (
	"context"
)

// Sweeper is a background loop that repairs cached ticket state against the chain
//
//go:generate mockgen -source=sweeper.go -destination=../mocks/sweeper.go -package=mocks -mock_names=Sweeper=MockSweeper
type Sweeper interface {
	// Start blocks, running cycles until ctx is canceled or Stop is called
	Start(ctx context.Context) error

	// Stop asks the loop to exit and waits for in-flight rebuilds or for ctx to expire
	Stop(ctx context.Context) error

	// Name identifies the sweeper in logs
	Name() string
}
