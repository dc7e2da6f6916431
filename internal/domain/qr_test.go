package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketQR(t *testing.T) {
	amoy := CHAIN_ID_POLYGON_AMOY

	tests := []struct {
		name     string
		payload  string
		expected *TicketQR
		wantErr  bool
	}{
		{
			name:     "query url with chain",
			payload:  "https://tickets.example.com/verify?contract=" + testContractLower + "&tokenId=7&chainId=80002",
			expected: &TicketQR{ContractAddress: testContract, TokenID: "7", ChainHint: &amoy},
		},
		{
			name:     "query url without chain",
			payload:  "https://tickets.example.com/verify?contractAddress=" + testContract + "&tokenId=7",
			expected: &TicketQR{ContractAddress: testContract, TokenID: "7"},
		},
		{
			name:     "path url with chain",
			payload:  "https://tickets.example.com/ticket/80002/" + testContract + "/7",
			expected: &TicketQR{ContractAddress: testContract, TokenID: "7", ChainHint: &amoy},
		},
		{
			name:     "path url without chain",
			payload:  "https://tickets.example.com/ticket/" + testContract + "/12",
			expected: &TicketQR{ContractAddress: testContract, TokenID: "12"},
		},
		{
			name:     "legacy pipe form",
			payload:  testContract + "|7",
			expected: &TicketQR{ContractAddress: testContract, TokenID: "7"},
		},
		{
			name:     "legacy pipe form with chain",
			payload:  testContractLower + "|7|80002",
			expected: &TicketQR{ContractAddress: testContract, TokenID: "7", ChainHint: &amoy},
		},
		{
			name:    "empty",
			payload: "   ",
			wantErr: true,
		},
		{
			name:    "legacy with bad contract",
			payload: "0x12|7",
			wantErr: true,
		},
		{
			name:    "legacy with too many parts",
			payload: testContract + "|7|80002|extra",
			wantErr: true,
		},
		{
			name:    "url without ticket",
			payload: "https://tickets.example.com/events",
			wantErr: true,
		},
		{
			name:    "bad chain id",
			payload: testContract + "|7|amoy",
			wantErr: true,
		},
		{
			name:    "plain text",
			payload: "hello",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qr, err := ParseTicketQR(tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQRPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, qr)
		})
	}
}
