package registry_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/mocks"
	"github.com/feral-file/ff-ticketing/internal/registry"
)

func TestNewChainRegistry(t *testing.T) {
	t.Run("keeps priority order", func(t *testing.T) {
		reg, err := registry.NewChainRegistry(registry.DefaultChains())
		require.NoError(t, err)

		assert.Equal(t, []domain.ChainID{
			domain.CHAIN_ID_POLYGON_AMOY,
			domain.CHAIN_ID_BASE_SEPOLIA,
			domain.CHAIN_ID_ETHEREUM_SEPOLIA,
		}, reg.IDs())

		amoy, ok := reg.Get(domain.CHAIN_ID_POLYGON_AMOY)
		assert.True(t, ok)
		assert.Equal(t, "POL", amoy.NativeCurrencySymbol)

		_, ok = reg.Get(domain.ChainID(1))
		assert.False(t, ok)
	})

	t.Run("all returns a copy", func(t *testing.T) {
		reg, err := registry.NewChainRegistry(registry.DefaultChains())
		require.NoError(t, err)

		chains := reg.All()
		chains[0].RPCURL = "mutated"

		amoy, _ := reg.Get(domain.CHAIN_ID_POLYGON_AMOY)
		assert.NotEqual(t, "mutated", amoy.RPCURL)
		assert.NotEqual(t, "mutated", reg.All()[0].RPCURL)
	})

	t.Run("rejects empty table", func(t *testing.T) {
		_, err := registry.NewChainRegistry(nil)
		assert.Error(t, err)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := registry.NewChainRegistry([]domain.Chain{
			{ID: 80002, RPCURL: "http://a"},
			{ID: 80002, RPCURL: "http://b"},
		})
		assert.ErrorContains(t, err, "duplicate chain id 80002")
	})

	t.Run("rejects missing rpc url", func(t *testing.T) {
		_, err := registry.NewChainRegistry([]domain.Chain{{ID: 80002}})
		assert.ErrorContains(t, err, "rpc url is required")
	})
}

func TestChainRegistryLoader_Load(t *testing.T) {
	tests := []struct {
		name         string
		setupMocks   func(*mocks.MockFileSystem, *mocks.MockJSON)
		expectedErr  string
		validateFunc func(t *testing.T, reg registry.ChainRegistry)
	}{
		{
			name: "successful load with valid JSON",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("chains.json").
					Return([]byte(`{
					"version": 1,
					"chains": [
						{"chainId": 84532, "name": "Base Sepolia", "rpcUrl": "https://sepolia.base.org", "explorerUrl": "https://sepolia.basescan.org", "nativeCurrencySymbol": "ETH"},
						{"chainId": 80002, "name": "Polygon Amoy", "rpcUrl": "https://rpc-amoy.polygon.technology", "explorerUrl": "https://amoy.polygonscan.com", "nativeCurrencySymbol": "POL"}
					]
				}`), nil)
				mockJSON.
					EXPECT().
					Unmarshal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(data []byte, v interface{}) error {
						return json.Unmarshal(data, v)
					})
			},
			validateFunc: func(t *testing.T, reg registry.ChainRegistry) {
				assert.Equal(t, []domain.ChainID{84532, 80002}, reg.IDs())
				amoy, ok := reg.Get(80002)
				assert.True(t, ok)
				assert.Equal(t, "https://amoy.polygonscan.com", amoy.ExplorerURL)
			},
		},
		{
			name: "file read error",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("chains.json").
					Return(nil, errors.New("no such file"))
			},
			expectedErr: "failed to read registry file",
		},
		{
			name: "invalid JSON",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("chains.json").
					Return([]byte(`{`), nil)
				mockJSON.
					EXPECT().
					Unmarshal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(data []byte, v interface{}) error {
						return json.Unmarshal(data, v)
					})
			},
			expectedErr: "failed to parse registry JSON",
		},
		{
			name: "empty chain list",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("chains.json").
					Return([]byte(`{"version": 1, "chains": []}`), nil)
				mockJSON.
					EXPECT().
					Unmarshal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(data []byte, v interface{}) error {
						return json.Unmarshal(data, v)
					})
			},
			expectedErr: "chain registry is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockFS := mocks.NewMockFileSystem(ctrl)
			mockJSON := mocks.NewMockJSON(ctrl)
			tt.setupMocks(mockFS, mockJSON)

			loader := registry.NewChainRegistryLoader(mockFS, mockJSON)
			reg, err := loader.Load("chains.json")

			if tt.expectedErr != "" {
				assert.ErrorContains(t, err, tt.expectedErr)
				assert.Nil(t, reg)
				return
			}

			require.NoError(t, err)
			tt.validateFunc(t, reg)
		})
	}
}
