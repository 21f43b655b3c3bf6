package crypto

import "strings"

// Domain names the family a validated token belongs to
type Domain string

const (
	DomainBitcoin  Domain = "bitcoin"
	DomainNostr    Domain = "nostr"
	DomainEthereum Domain = "ethereum"
	DomainBIP39    Domain = "bip39"
)

// ValidationResult represents the result of validating a single token
type ValidationResult struct {
	IsValid  bool     // Whether the token passed the domain's checks
	Domain   Domain   // Family that recognized the token
	Kind     string   // Address, key or identifier type
	Network  Network  // Bitcoin network, when known
	Encoding Encoding // Nostr encoding, when known
}

// TokenValidator recognizes and validates a single token. It returns nil when
// the token does not belong to its domain.
type TokenValidator interface {
	Validate(token string) *ValidationResult
}

// Validate implements TokenValidator for Bitcoin addresses
func (d *BitcoinDetector) Validate(token string) *ValidationResult {
	valid, kind, network := d.ValidateAddress(token)
	if kind == "" {
		return nil
	}
	return &ValidationResult{IsValid: valid, Domain: DomainBitcoin, Kind: kind, Network: network}
}

// Validate implements TokenValidator for Nostr keys and identifiers
func (d *NostrDetector) Validate(token string) *ValidationResult {
	valid, kind, encoding := d.ValidateKey(token)
	if kind == "" {
		return nil
	}
	return &ValidationResult{IsValid: valid, Domain: DomainNostr, Kind: kind, Encoding: encoding}
}

type ethereumValidator struct{}

func (ethereumValidator) Validate(token string) *ValidationResult {
	if !ethereumAddressPattern.MatchString(token) {
		return nil
	}
	valid, _ := ValidateEthereumAddress(token)
	return &ValidationResult{IsValid: valid, Domain: DomainEthereum, Kind: string(EthereumAddress), Encoding: EncodingHex}
}

type mnemonicValidator struct{}

func (mnemonicValidator) Validate(token string) *ValidationResult {
	if len(strings.Fields(token)) < 12 {
		return nil
	}
	valid, _ := ValidateBIP39SeedPhrase(token)
	return &ValidationResult{IsValid: valid, Domain: DomainBIP39, Kind: string(SeedPhrase)}
}

// ValidatorRegistry tries each registered validator in order
type ValidatorRegistry struct {
	validators []TokenValidator
}

// NewValidatorRegistry creates a registry with the Bitcoin, Nostr, Ethereum
// and BIP39 validators, in that order
func NewValidatorRegistry(btc *BitcoinDetector, nostr *NostrDetector) *ValidatorRegistry {
	return &ValidatorRegistry{
		validators: []TokenValidator{btc, nostr, ethereumValidator{}, mnemonicValidator{}},
	}
}

// Validate returns the first validator's result that recognized the token, or nil
func (r *ValidatorRegistry) Validate(token string) *ValidationResult {
	token = strings.TrimSpace(token)
	for _, v := range r.validators {
		if res := v.Validate(token); res != nil {
			return res
		}
	}
	return nil
}
