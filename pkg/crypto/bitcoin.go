package crypto

import (
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/grendel/noprints/pkg/common"
	"github.com/grendel/noprints/pkg/patterns"
	"github.com/grendel/noprints/pkg/risk"
)

type bitcoinCategory int

const (
	btcAddress bitcoinCategory = iota
	btcLightning
	btcPrivateKey
	btcExtendedKey
)

// bitcoinRule classifies a token that matches pattern. Rules are tried in
// slice order and the first match wins.
type bitcoinRule struct {
	pattern  *regexp.Regexp
	category bitcoinCategory
	kind     EntityType
	network  Network
	raise    risk.Level
	verify   func(token string) bool
}

// BitcoinDetector recognizes Bitcoin addresses, keys and seed phrases in text
type BitcoinDetector struct {
	patterns *patterns.BitcoinPatterns
	rules    []bitcoinRule
}

// NewBitcoinDetector creates a detector with the standard rule order:
// taproot, bech32, testnet bech32, P2SH, legacy, testnet legacy,
// lightning invoice, lightning address, WIF, xprv, xpub.
func NewBitcoinDetector() *BitcoinDetector {
	p := patterns.GetBitcoinPatterns()
	return &BitcoinDetector{
		patterns: p,
		rules: []bitcoinRule{
			{p.Taproot, btcAddress, Taproot, Mainnet, risk.Low, addressVerifier(&chaincfg.MainNetParams)},
			{p.Bech32, btcAddress, Bech32, Mainnet, risk.Low, addressVerifier(&chaincfg.MainNetParams)},
			{p.TestnetBech32, btcAddress, Bech32, Testnet, risk.Low, addressVerifier(&chaincfg.TestNet3Params)},
			{p.SegwitP2SH, btcAddress, SegwitP2SH, Mainnet, risk.Low, addressVerifier(&chaincfg.MainNetParams)},
			{p.Legacy, btcAddress, Legacy, Mainnet, risk.Low, addressVerifier(&chaincfg.MainNetParams)},
			{p.TestnetLegacy, btcAddress, Legacy, Testnet, risk.Low, addressVerifier(&chaincfg.TestNet3Params)},
			{p.LightningInvoice, btcLightning, LightningInvoice, "", risk.Low, verifyInvoice},
			{p.LightningAddress, btcLightning, LightningAddress, "", risk.Low, nil},
			{p.WIF, btcPrivateKey, WIF, "", risk.Critical, verifyWIF},
			{p.Xprv, btcExtendedKey, Xprv, "", risk.Critical, verifyExtendedKey},
			{p.Xpub, btcExtendedKey, Xpub, "", risk.High, verifyExtendedKey},
		},
	}
}

// Detect scans text for Bitcoin content and returns the findings with a domain risk level
func (d *BitcoinDetector) Detect(text string) BitcoinFindings {
	var f BitcoinFindings
	if text == "" {
		return f
	}

	tokens := common.Tokens(text)
	for _, raw := range tokens {
		token := common.StripToken(raw, common.BitcoinTokenCutset)
		d.classifyToken(&f, token)
	}

	if seed, ok := seedPhraseEntity(tokens); ok {
		f.SeedPhrases = append(f.SeedPhrases, seed)
		f.Risk = risk.Critical
	}

	// 64 hex characters read as a transaction id only when an address gives context
	for _, token := range tokens {
		if len(token) != 64 || !d.patterns.Hex64.MatchString(token) {
			continue
		}
		if addressInText(f.Addresses, text) {
			f.TransactionIDs = append(f.TransactionIDs, Entity{Value: token, Type: TransactionID})
		} else {
			f.PrivateKeys = append(f.PrivateKeys, Entity{Value: token, Type: HexPrivateKey})
			f.Risk = risk.Critical
		}
	}

	if len(f.Addresses) > 0 && f.Risk == risk.Low {
		f.Risk = risk.Medium
	}
	return f
}

func (d *BitcoinDetector) classifyToken(f *BitcoinFindings, token string) {
	for _, rule := range d.rules {
		if !rule.pattern.MatchString(token) {
			continue
		}
		e := Entity{Value: token, Type: rule.kind, Network: rule.network}
		if rule.verify != nil {
			e.Verified = rule.verify(token)
		}
		switch rule.category {
		case btcAddress:
			f.Addresses = append(f.Addresses, e)
		case btcLightning:
			f.Lightning = append(f.Lightning, e)
		case btcPrivateKey:
			f.PrivateKeys = append(f.PrivateKeys, e)
		case btcExtendedKey:
			f.ExtendedKeys = append(f.ExtendedKeys, e)
		}
		f.Risk = risk.Max(f.Risk, rule.raise)
		return
	}
}

func addressInText(addresses []Entity, text string) bool {
	for _, a := range addresses {
		if strings.Contains(text, a.Value) {
			return true
		}
	}
	return false
}

func addressVerifier(params *chaincfg.Params) func(string) bool {
	return func(token string) bool {
		_, err := btcutil.DecodeAddress(token, params)
		return err == nil
	}
}

func verifyInvoice(token string) bool {
	_, _, err := bech32.DecodeNoLimit(strings.ToLower(token))
	return err == nil
}

func verifyWIF(token string) bool {
	_, err := btcutil.DecodeWIF(token)
	return err == nil
}

func verifyExtendedKey(token string) bool {
	_, err := hdkeychain.NewKeyFromString(token)
	return err == nil
}

// addressCheck pairs an address pattern with the type and network ValidateAddress reports
type addressCheck struct {
	pattern *regexp.Regexp
	kind    string
	network Network
	base58  bool
}

// ValidateAddress checks a single Bitcoin address. Base58 addresses must carry
// a valid double-SHA256 checksum in their trailing four bytes. Bech32 and
// taproot addresses are only checked against the bech32 alphabet.
// It returns the address type (legacy, p2sh or bech32) and its network.
func (d *BitcoinDetector) ValidateAddress(address string) (bool, string, Network) {
	p := d.patterns
	checks := []addressCheck{
		{p.Legacy, "legacy", Mainnet, true},
		{p.SegwitP2SH, "p2sh", Mainnet, true},
		{p.Bech32, "bech32", Mainnet, false},
		{p.TestnetLegacy, "legacy", Testnet, true},
		{p.TestnetBech32, "bech32", Testnet, false},
	}
	for _, c := range checks {
		if !c.pattern.MatchString(address) {
			continue
		}
		if c.base58 {
			_, _, err := base58.CheckDecode(address)
			return err == nil, c.kind, c.network
		}
		return bech32AlphabetOnly(address[3:]), c.kind, c.network
	}
	return false, "", ""
}

func bech32AlphabetOnly(data string) bool {
	for _, c := range strings.ToLower(data) {
		if !strings.ContainsRune(patterns.Bech32Alphabet, c) {
			return false
		}
	}
	return true
}

// BitcoinRiskScore returns the 0-100 score for a Bitcoin content kind
func BitcoinRiskScore(kind string) int {
	switch kind {
	case "private_key", "seed_phrase":
		return 100
	case "xprv":
		return 95
	case "xpub":
		return 60
	case "address":
		return 30
	case "lightning_invoice":
		return 25
	case "lightning_address":
		return 20
	case "transaction_id":
		return 10
	default:
		return 0
	}
}

// BitcoinIcon returns the glyph shown for a Bitcoin content kind
func BitcoinIcon(kind string) string {
	switch kind {
	case "private_key", "xprv":
		return "🔑"
	case "seed_phrase":
		return "🌱"
	case "lightning_invoice", "lightning_address":
		return "⚡"
	default:
		return "₿"
	}
}

// BitcoinDisplay renders a Bitcoin value for display without exposing private material
func BitcoinDisplay(value, kind string) string {
	switch kind {
	case "private_key", "xprv", "seed_phrase":
		return "***PRIVATE KEY HIDDEN***"
	case "address", "xpub":
		if common.RuneLen(value) > 12 {
			return common.Abbreviate(value, 6, 4)
		}
	case "lightning_invoice":
		if common.RuneLen(value) > 20 {
			return common.Head(value, 15) + "..."
		}
	}
	return value
}
