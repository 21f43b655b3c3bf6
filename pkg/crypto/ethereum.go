package crypto

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	tokens "github.com/grendel/noprints/pkg/common"
	"github.com/grendel/noprints/pkg/patterns"
)

// EthereumAddress is the entity type of an Ethereum account address
const EthereumAddress EntityType = "ethereum_address"

var ethereumAddressPattern = patterns.GetSecretPatterns().EthereumAddress

// ValidateEthereumAddress reports whether address is a well formed Ethereum
// address, and whether it carries a valid EIP-55 mixed-case checksum
func ValidateEthereumAddress(address string) (valid bool, checksummed bool) {
	if !strings.HasPrefix(address, "0x") || !common.IsHexAddress(address) {
		return false, false
	}
	// The zero address is a burn target, not something a user copies
	if common.HexToAddress(address) == (common.Address{}) {
		return false, false
	}
	return true, common.HexToAddress(address).Hex() == address
}

// DetectEthereumAddresses returns the Ethereum addresses found as whitespace separated tokens
func DetectEthereumAddresses(text string) []Entity {
	var out []Entity
	for _, raw := range tokens.Tokens(text) {
		token := tokens.StripToken(raw, tokens.NostrTokenCutset)
		if !ethereumAddressPattern.MatchString(token) {
			continue
		}
		valid, checksummed := ValidateEthereumAddress(token)
		if !valid {
			continue
		}
		out = append(out, Entity{Value: token, Type: EthereumAddress, Encoding: EncodingHex, Verified: checksummed})
	}
	return out
}
