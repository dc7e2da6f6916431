package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testContract      = "0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D"
	testContractLower = "0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d"
	testBuyer         = "0x1111111111111111111111111111111111111111"
	testSeller        = "0x2222222222222222222222222222222222222222"
	testTxHash        = "0xabababababababababababababababababababababababababababababababab"
)

func TestNewTicketKey(t *testing.T) {
	tests := []struct {
		name     string
		chainID  ChainID
		contract string
		tokenID  string
		expected TicketKey
		wantErr  bool
	}{
		{
			name:     "normalizes lowercase contract",
			chainID:  CHAIN_ID_POLYGON_AMOY,
			contract: testContractLower,
			tokenID:  "7",
			expected: TicketKey{ChainID: 80002, ContractAddress: testContract, TokenID: "7"},
		},
		{
			name:     "accepts hex token id",
			chainID:  CHAIN_ID_POLYGON_AMOY,
			contract: testContract,
			tokenID:  "0x0a",
			expected: TicketKey{ChainID: 80002, ContractAddress: testContract, TokenID: "10"},
		},
		{
			name:     "strips leading zeros",
			chainID:  CHAIN_ID_POLYGON_AMOY,
			contract: testContract,
			tokenID:  "007",
			expected: TicketKey{ChainID: 80002, ContractAddress: testContract, TokenID: "7"},
		},
		{
			name:     "missing chain id",
			contract: testContract,
			tokenID:  "7",
			wantErr:  true,
		},
		{
			name:     "invalid contract",
			chainID:  CHAIN_ID_POLYGON_AMOY,
			contract: "0x123",
			tokenID:  "7",
			wantErr:  true,
		},
		{
			name:     "negative token id",
			chainID:  CHAIN_ID_POLYGON_AMOY,
			contract: testContract,
			tokenID:  "-1",
			wantErr:  true,
		},
		{
			name:     "empty token id",
			chainID:  CHAIN_ID_POLYGON_AMOY,
			contract: testContract,
			tokenID:  "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := NewTicketKey(tt.chainID, tt.contract, tt.tokenID)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTicketKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
			assert.True(t, key.Valid())
		})
	}
}

func TestTicketKey_StringRoundTrip(t *testing.T) {
	key, err := NewTicketKey(CHAIN_ID_POLYGON_AMOY, testContractLower, "42")
	require.NoError(t, err)

	assert.Equal(t, "80002:"+testContract+":42", key.String())

	parsed, err := ParseTicketKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
	assert.Equal(t, "42", key.TokenIDBig().String())
}

func TestTicketKey_SameTokenDifferentChain(t *testing.T) {
	a, err := NewTicketKey(CHAIN_ID_POLYGON_AMOY, testContract, "7")
	require.NoError(t, err)
	b, err := NewTicketKey(CHAIN_ID_BASE_SEPOLIA, testContract, "7")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a.String(), b.String())
}

func TestListingStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ListingStatusActive.CanTransitionTo(ListingStatusSold))
	assert.True(t, ListingStatusActive.CanTransitionTo(ListingStatusCancelled))
	assert.False(t, ListingStatusActive.CanTransitionTo(ListingStatusActive))
	assert.False(t, ListingStatusSold.CanTransitionTo(ListingStatusCancelled))
	assert.False(t, ListingStatusCancelled.CanTransitionTo(ListingStatusActive))
	assert.False(t, ListingStatusSold.CanTransitionTo(ListingStatusActive))
}

func TestChain_TxURL(t *testing.T) {
	c := Chain{ExplorerURL: "https://amoy.polygonscan.com/"}
	assert.Equal(t, "https://amoy.polygonscan.com/tx/0xabc", c.TxURL("0xabc"))
	assert.Empty(t, Chain{}.TxURL("0xabc"))
}

func validMutation(txType TxType) Mutation {
	key, _ := NewTicketKey(CHAIN_ID_POLYGON_AMOY, testContract, "7")
	listingID := "3"
	amount := "1000"
	seller := testSeller
	to := testBuyer
	m := Mutation{
		Key:         key,
		TxType:      txType,
		TxHash:      testTxHash,
		UserAddress: testBuyer,
	}
	switch txType {
	case TxTypePurchase:
		m.Amount = &amount
	case TxTypeListing:
		m.UserAddress = testSeller
		m.ListingID = &listingID
		m.Amount = &amount
	case TxTypeSale:
		m.FromAddress = &seller
		m.ListingID = &listingID
		m.Amount = &amount
	case TxTypeCancel:
		m.UserAddress = testSeller
		m.ListingID = &listingID
	case TxTypeTransfer:
		m.FromAddress = &seller
		m.ToAddress = &to
	}
	return m
}

func TestMutation_Validate(t *testing.T) {
	for _, txType := range []TxType{TxTypePurchase, TxTypeListing, TxTypeSale, TxTypeCancel, TxTypeTransfer, TxTypeUse} {
		t.Run("valid "+string(txType), func(t *testing.T) {
			m := validMutation(txType)
			assert.NoError(t, m.Validate())
		})
	}

	t.Run("listing without listing id", func(t *testing.T) {
		m := validMutation(TxTypeListing)
		m.ListingID = nil
		assert.ErrorIs(t, m.Validate(), ErrInvalidMutation)
	})

	t.Run("sale without seller", func(t *testing.T) {
		m := validMutation(TxTypeSale)
		m.FromAddress = nil
		assert.ErrorIs(t, m.Validate(), ErrInvalidMutation)
	})

	t.Run("transfer without recipient", func(t *testing.T) {
		m := validMutation(TxTypeTransfer)
		m.ToAddress = nil
		assert.ErrorIs(t, m.Validate(), ErrInvalidMutation)
	})

	t.Run("bad tx hash", func(t *testing.T) {
		m := validMutation(TxTypeUse)
		m.TxHash = "0x1234"
		assert.ErrorIs(t, m.Validate(), ErrInvalidMutation)
	})

	t.Run("unknown tx type", func(t *testing.T) {
		m := validMutation(TxTypeUse)
		m.TxType = "burn"
		assert.ErrorIs(t, m.Validate(), ErrInvalidMutation)
	})

	t.Run("tx index without block", func(t *testing.T) {
		m := validMutation(TxTypeUse)
		idx := uint64(1)
		m.TxIndex = &idx
		assert.ErrorIs(t, m.Validate(), ErrInvalidMutation)
	})
}

func TestMutation_OlderThan(t *testing.T) {
	u := func(v uint64) *uint64 { return &v }

	m := validMutation(TxTypeUse)
	assert.False(t, m.OlderThan(u(10), u(1)), "unknown order is never older")

	m.BlockNumber = u(10)
	m.TxIndex = u(2)
	assert.False(t, m.OlderThan(nil, nil))
	assert.True(t, m.OlderThan(u(11), u(0)))
	assert.False(t, m.OlderThan(u(9), u(5)))
	assert.True(t, m.OlderThan(u(10), u(3)))
	assert.False(t, m.OlderThan(u(10), u(2)), "same position is not older")
	assert.False(t, m.OlderThan(u(10), nil))
}

func TestMutation_Owners(t *testing.T) {
	sale := validMutation(TxTypeSale)
	assert.Equal(t, testBuyer, sale.NewOwner())
	assert.Equal(t, testSeller, sale.Seller())

	transfer := validMutation(TxTypeTransfer)
	assert.Equal(t, testBuyer, transfer.NewOwner())

	listing := validMutation(TxTypeListing)
	assert.Empty(t, listing.NewOwner())
	assert.Equal(t, testSeller, listing.Seller())
}

func TestMutation_Normalize(t *testing.T) {
	m := validMutation(TxTypeTransfer)
	m.TxHash = "0xABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABAB"
	lower := testContractLower
	m.ToAddress = &lower
	m.Key.ContractAddress = testContractLower

	m.Normalize()

	assert.Equal(t, testTxHash, m.TxHash)
	assert.Equal(t, testContract, *m.ToAddress)
	assert.Equal(t, testContract, m.Key.ContractAddress)
}
