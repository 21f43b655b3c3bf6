package patterns

import "regexp"

// Character classes shared by the address and key patterns
const (
	base58Chars = `[1-9A-HJ-NP-Za-km-z]`
	bech32Chars = `[qpzry9x8gf2tvdw0s3jn54khce6mua7l]`
)

// Bech32Alphabet is the 32-character data alphabet used by bech32 encodings
const Bech32Alphabet = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// BitcoinPatterns provides anchored regular expressions for single Bitcoin tokens
type BitcoinPatterns struct {
	// Taproot address: bc1p followed by exactly 58 data characters
	Taproot *regexp.Regexp

	// Native segwit addresses on mainnet and testnet
	Bech32        *regexp.Regexp
	TestnetBech32 *regexp.Regexp

	// Base58 addresses
	SegwitP2SH    *regexp.Regexp
	Legacy        *regexp.Regexp
	TestnetLegacy *regexp.Regexp

	// Lightning invoices and lightning addresses (email shaped)
	LightningInvoice *regexp.Regexp
	LightningAddress *regexp.Regexp

	// Private material
	WIF  *regexp.Regexp
	Xprv *regexp.Regexp
	Xpub *regexp.Regexp

	// 64 hex characters: a raw private key or a transaction id
	Hex64 *regexp.Regexp
}

// GetBitcoinPatterns returns compiled regular expressions for Bitcoin tokens
func GetBitcoinPatterns() *BitcoinPatterns {
	return &BitcoinPatterns{
		Taproot:       regexp.MustCompile(`^bc1p` + bech32Chars + `{58}$`),
		Bech32:        regexp.MustCompile(`^bc1` + bech32Chars + `{6,87}$`),
		TestnetBech32: regexp.MustCompile(`^tb1` + bech32Chars + `{6,87}$`),

		SegwitP2SH:    regexp.MustCompile(`^3` + base58Chars + `{25,34}$`),
		Legacy:        regexp.MustCompile(`^1` + base58Chars + `{25,34}$`),
		TestnetLegacy: regexp.MustCompile(`^[mn2]` + base58Chars + `{25,34}$`),

		LightningInvoice: regexp.MustCompile(`(?i)^ln(bc|tb)[0-9a-z]+$`),
		LightningAddress: regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`),

		WIF:  regexp.MustCompile(`^[5KL]` + base58Chars + `{50,51}$`),
		Xprv: regexp.MustCompile(`^xprv` + base58Chars + `{107}$`),
		Xpub: regexp.MustCompile(`^xpub` + base58Chars + `{107}$`),

		Hex64: regexp.MustCompile(`^[0-9a-fA-F]{64}$`),
	}
}

// NostrPatterns provides regular expressions for Nostr identifiers and events
type NostrPatterns struct {
	// Bech32 encoded entities, each with its own data length range
	Npub     *regexp.Regexp
	Nsec     *regexp.Regexp
	Note     *regexp.Regexp
	Nevent   *regexp.Regexp
	Nprofile *regexp.Regexp
	Nrelay   *regexp.Regexp
	Naddr    *regexp.Regexp

	// Raw 64 hex key, public or private depending on context
	HexKey *regexp.Regexp

	// Relay websocket URLs and NIP-05 identifiers
	RelayURL *regexp.Regexp
	NIP05    *regexp.Regexp

	// Zap event kinds inside raw event JSON
	ZapRequest *regexp.Regexp
	ZapReceipt *regexp.Regexp
}

// GetNostrPatterns returns compiled regular expressions for Nostr content
func GetNostrPatterns() *NostrPatterns {
	return &NostrPatterns{
		Npub:     regexp.MustCompile(`^npub1` + bech32Chars + `{58}$`),
		Nsec:     regexp.MustCompile(`^nsec1` + bech32Chars + `{58}$`),
		Note:     regexp.MustCompile(`^note1` + bech32Chars + `{58}$`),
		Nevent:   regexp.MustCompile(`^nevent1` + bech32Chars + `{100,200}$`),
		Nprofile: regexp.MustCompile(`^nprofile1` + bech32Chars + `{100,300}$`),
		Nrelay:   regexp.MustCompile(`^nrelay1` + bech32Chars + `{50,100}$`),
		Naddr:    regexp.MustCompile(`^naddr1` + bech32Chars + `{100,200}$`),

		HexKey: regexp.MustCompile(`^[0-9a-fA-F]{64}$`),

		RelayURL: regexp.MustCompile(`^wss?://[a-zA-Z0-9.-]+(?::[0-9]+)?(?:/[^\s]*)?$`),
		NIP05:    regexp.MustCompile(`(?i)^[a-z0-9._-]+@[a-z0-9.-]+\.[a-z]{2,}$`),

		ZapRequest: regexp.MustCompile(`"kind":\s*9734`),
		ZapReceipt: regexp.MustCompile(`"kind":\s*9735`),
	}
}

// GetKnownRelays returns relay hostnames that mark an email-shaped token as a NIP-05 id
func GetKnownRelays() []string {
	return []string{
		"relay.damus.io",
		"relay.snort.social",
		"nos.lol",
		"relay.nostr.band",
		"nostr-pub.wellorder.net",
		"relay.current.fyi",
		"brb.io",
		"relay.nostr.info",
		"offchain.pub",
		"relay.nostrgraph.net",
	}
}

// GetNostrPrivateHints returns words that mark a bare hex key as private
func GetNostrPrivateHints() []string {
	return []string{"private", "secret", "nsec", "priv"}
}

// GetNostrPublicHints returns words that mark a bare hex key as public
func GetNostrPublicHints() []string {
	return []string{"public", "npub", "pubkey"}
}
