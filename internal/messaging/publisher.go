package messaging

import (
	"context"
	"fmt"

	"github.com/feral-file/ff-ticketing/internal/domain"
)

// SubjectPrefix is the subject root of confirmed mutation records
const SubjectPrefix = "ticketing.mutations"

// MutationSubject returns the subject a mutation is published on: ticketing.mutations.<chainId>
func MutationSubject(chainID domain.ChainID) string {
	return fmt.Sprintf("%s.%d", SubjectPrefix, chainID)
}

// MutationMsgID returns the de-duplication id of a mutation record
func MutationMsgID(m *domain.Mutation) string {
	return fmt.Sprintf("%s:%s:%s", m.Key, m.TxType, m.TxHash)
}

// Publisher defines the interface for publishing confirmed mutations to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishMutation publishes a confirmed mutation record
	PublishMutation(ctx context.Context, mutation *domain.Mutation) error
	// Close closes the connection
	Close()
}
