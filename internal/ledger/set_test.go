package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/block"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/mocks"
	"github.com/feral-file/ff-ticketing/internal/registry"
)

func TestNewSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg, err := registry.NewChainRegistry(registry.DefaultChains())
	require.NoError(t, err)

	dialer := mocks.NewMockEthClientDialer(ctrl)
	for _, chain := range reg.All() {
		dialer.EXPECT().Dial(gomock.Any(), chain.RPCURL).Return(mocks.NewMockEthClient(ctrl), nil)
	}

	set, err := ledger.NewSet(context.Background(), reg, dialer, nil, ledger.Config{}, block.Config{TTL: time.Second}, adapter.NewClock())
	require.NoError(t, err)

	clients := set.All()
	require.Len(t, clients, 3)
	for i, chainID := range reg.IDs() {
		assert.Equal(t, chainID, clients[i].Chain().ID)
	}

	client, err := set.Get(domain.CHAIN_ID_BASE_SEPOLIA)
	require.NoError(t, err)
	assert.Equal(t, "Base Sepolia", client.Chain().Name)

	_, err = set.Get(domain.ChainID(1))
	assert.ErrorIs(t, err, domain.ErrUnknownChain)
}

func TestNewSet_DialFailureClosesDialedClients(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg, err := registry.NewChainRegistry(registry.DefaultChains())
	require.NoError(t, err)

	first := mocks.NewMockEthClient(ctrl)
	first.EXPECT().Close()

	dialer := mocks.NewMockEthClientDialer(ctrl)
	gomock.InOrder(
		dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(first, nil),
		dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(nil, errors.New("bad url")),
	)

	set, err := ledger.NewSet(context.Background(), reg, dialer, nil, ledger.Config{}, block.Config{}, adapter.NewClock())
	assert.Error(t, err)
	assert.Nil(t, set)
}

func TestSet_All_ReturnsCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := mocks.NewMockLedgerClient(ctrl)
	a.EXPECT().Chain().Return(domain.Chain{ID: domain.CHAIN_ID_POLYGON_AMOY}).AnyTimes()
	b := mocks.NewMockLedgerClient(ctrl)
	b.EXPECT().Chain().Return(domain.Chain{ID: domain.CHAIN_ID_BASE_SEPOLIA}).AnyTimes()

	set := ledger.NewSetFromClients(a, b)
	all := set.All()
	all[0] = nil

	assert.NotNil(t, set.All()[0])
}
