package jetstream_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/mocks"
	"github.com/feral-file/ff-ticketing/internal/providers/jetstream"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var cfg = jetstream.Config{
	URL:             "nats://localhost:4222",
	StreamName:      "TICKETING",
	MaxReconnects:   10,
	ReconnectWait:   time.Second,
	ConnectionName:  "test-publisher",
	DuplicateWindow: 2 * time.Minute,
}

func testMutation() *domain.Mutation {
	return &domain.Mutation{
		Key: domain.TicketKey{
			ChainID:         domain.CHAIN_ID_POLYGON_AMOY,
			ContractAddress: "0x1111111111111111111111111111111111111111",
			TokenID:         "7",
		},
		TxType:      domain.TxTypePurchase,
		TxHash:      "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		UserAddress: "0x2222222222222222222222222222222222222222",
	}
}

func setup(t *testing.T) (*mocks.MockNatsJetStream, *mocks.MockNatsConn, *mocks.MockJetStream) {
	ctrl := gomock.NewController(t)
	return mocks.NewMockNatsJetStream(ctrl), mocks.NewMockNatsConn(ctrl), mocks.NewMockJetStream(ctrl)
}

func TestPublisher_NewPublisherEnsuresStream(t *testing.T) {
	natsJS, conn, js := setup(t)

	natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(conn, js, nil)
	js.EXPECT().
		EnsureStream(gomock.Any(), natsjs.StreamConfig{
			Name:       "TICKETING",
			Subjects:   []string{"ticketing.mutations.>"},
			Retention:  natsjs.WorkQueuePolicy,
			Storage:    natsjs.FileStorage,
			Duplicates: 2 * time.Minute,
		}).
		Return(nil)

	p, err := jetstream.NewPublisher(context.Background(), cfg, natsJS, adapter.NewJSON())
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestPublisher_StreamErrorClosesConnection(t *testing.T) {
	natsJS, conn, js := setup(t)

	natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(conn, js, nil)
	js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(errors.New("no jetstream"))
	conn.EXPECT().Close()

	p, err := jetstream.NewPublisher(context.Background(), cfg, natsJS, adapter.NewJSON())
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestPublisher_ConnectError(t *testing.T) {
	natsJS, _, _ := setup(t)

	natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(nil, nil, assert.AnError)

	_, err := jetstream.NewPublisher(context.Background(), cfg, natsJS, adapter.NewJSON())
	assert.ErrorContains(t, err, "failed to connect to NATS")
}

func TestPublisher_PublishMutation(t *testing.T) {
	natsJS, conn, js := setup(t)

	natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(conn, js, nil)
	js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(nil)

	p, err := jetstream.NewPublisher(context.Background(), cfg, natsJS, adapter.NewJSON())
	require.NoError(t, err)

	m := testMutation()
	js.EXPECT().
		Publish(gomock.Any(), "ticketing.mutations.80002", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, subject string, data []byte, opts ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			assert.Contains(t, string(data), `"txType":"purchase"`)
			assert.Len(t, opts, 1)
			return &natsjs.PubAck{Stream: "TICKETING", Sequence: 1}, nil
		})

	require.NoError(t, p.PublishMutation(context.Background(), m))

	js.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("timeout"))
	assert.ErrorContains(t, p.PublishMutation(context.Background(), m), "failed to publish mutation")

	conn.EXPECT().Close()
	p.Close()
}
