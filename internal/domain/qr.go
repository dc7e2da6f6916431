package domain

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// TicketQR is the content of a scanned ticket code
type TicketQR struct {
	ContractAddress string   `json:"contractAddress"`
	TokenID         string   `json:"tokenId"`
	ChainHint       *ChainID `json:"chainHint,omitempty"`
}

// ParseTicketQR parses the payload of a scanned ticket code.
//
// Accepted forms:
//
//	https://host/verify?contract=0x...&tokenId=7&chainId=80002
//	https://host/ticket/80002/0x.../7
//	https://host/ticket/0x.../7
//	0x...|7|80002   (legacy, chain id optional)
func ParseTicketQR(payload string) (*TicketQR, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidQRPayload)
	}

	if strings.Contains(payload, "|") {
		return parseLegacyQR(payload)
	}

	u, err := url.Parse(payload)
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQRPayload, payload)
	}

	return parseURLQR(u)
}

func parseLegacyQR(payload string) (*TicketQR, error) {
	parts := strings.Split(payload, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("%w: expected contract|tokenId[|chainId]", ErrInvalidQRPayload)
	}

	var chain string
	if len(parts) == 3 {
		chain = parts[2]
	}
	return buildQR(parts[0], parts[1], chain)
}

func parseURLQR(u *url.URL) (*TicketQR, error) {
	q := u.Query()
	contract := firstNonEmpty(q.Get("contract"), q.Get("contractAddress"), q.Get("address"))
	tokenID := firstNonEmpty(q.Get("tokenId"), q.Get("token_id"), q.Get("token"))
	chain := firstNonEmpty(q.Get("chainId"), q.Get("chain_id"), q.Get("chain"))

	if contract == "" || tokenID == "" {
		// Path form: .../<chainId?>/<contract>/<tokenId>
		segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
		for i, seg := range segments {
			if !common.IsHexAddress(seg) || i+1 >= len(segments) {
				continue
			}
			contract = seg
			tokenID = segments[i+1]
			if i > 0 {
				if _, err := ParseChainID(segments[i-1]); err == nil {
					chain = segments[i-1]
				}
			}
			break
		}
	}

	if contract == "" || tokenID == "" {
		return nil, fmt.Errorf("%w: missing contract or token id", ErrInvalidQRPayload)
	}

	return buildQR(contract, tokenID, chain)
}

func buildQR(contract, tokenID, chain string) (*TicketQR, error) {
	contract = strings.TrimSpace(contract)
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("%w: invalid contract address %q", ErrInvalidQRPayload, contract)
	}

	normalizedTokenID, err := NormalizeTokenID(tokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQRPayload, err)
	}

	qr := &TicketQR{
		ContractAddress: NormalizeAddress(contract),
		TokenID:         normalizedTokenID,
	}

	if strings.TrimSpace(chain) != "" {
		chainID, err := ParseChainID(chain)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQRPayload, err)
		}
		qr.ChainHint = &chainID
	}

	return qr, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
