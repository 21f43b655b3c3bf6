package crypto

// common.go - Contains the entity and findings types shared by the Bitcoin and Nostr detectors

import "github.com/grendel/noprints/pkg/risk"

// EntityType identifies the kind of token a detector recognized
type EntityType string

// Bitcoin entity types
const (
	Taproot          EntityType = "taproot"
	Bech32           EntityType = "bech32"
	SegwitP2SH       EntityType = "segwit_p2sh"
	Legacy           EntityType = "legacy"
	LightningInvoice EntityType = "invoice"
	LightningAddress EntityType = "address"
	WIF              EntityType = "wif"
	HexPrivateKey    EntityType = "hex"
	Xprv             EntityType = "xprv"
	Xpub             EntityType = "xpub"
	TransactionID    EntityType = "txid"
	SeedPhrase       EntityType = "seed_phrase"
)

// Nostr entity types
const (
	Nsec         EntityType = "nsec"
	Npub         EntityType = "npub"
	Note         EntityType = "note"
	Nevent       EntityType = "nevent"
	Nprofile     EntityType = "nprofile"
	Nrelay       EntityType = "nrelay"
	Naddr        EntityType = "naddr"
	WebsocketURL EntityType = "websocket_url"
	NIP05        EntityType = "nip05"
	HexPrivate   EntityType = "hex_private"
	HexPublic    EntityType = "hex_public"
	JSONEvent    EntityType = "json_event"
	ZapRequest   EntityType = "zap_request"
	ZapReceipt   EntityType = "zap_receipt"
)

// Network is the Bitcoin network an address belongs to
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// Encoding is the textual encoding of a Nostr entity
type Encoding string

const (
	EncodingBech32 Encoding = "bech32"
	EncodingHex    Encoding = "hex"
)

// Entity is a single classified token. It is never modified after a detector returns it.
type Entity struct {
	Value          string     `json:"value,omitempty"`
	Type           EntityType `json:"type"`
	Encoding       Encoding   `json:"encoding,omitempty"`
	Network        Network    `json:"network,omitempty"`
	WordCount      int        `json:"word_count,omitempty"`
	Kind           int        `json:"kind,omitempty"`
	ContentPreview string     `json:"content_preview,omitempty"`

	// Verified is set when a full decoder accepts the token. Classification never depends on it.
	Verified bool `json:"verified,omitempty"`
}

// BitcoinFindings groups the Bitcoin entities found in one text
type BitcoinFindings struct {
	Addresses      []Entity   `json:"addresses"`
	Lightning      []Entity   `json:"lightning"`
	PrivateKeys    []Entity   `json:"private_keys"`
	ExtendedKeys   []Entity   `json:"extended_keys"`
	TransactionIDs []Entity   `json:"transaction_ids"`
	SeedPhrases    []Entity   `json:"seed_phrases"`
	Risk           risk.Level `json:"risk_level"`
}

// Any reports whether at least one Bitcoin entity was found
func (f BitcoinFindings) Any() bool {
	return len(f.Addresses)+len(f.Lightning)+len(f.PrivateKeys)+
		len(f.ExtendedKeys)+len(f.TransactionIDs)+len(f.SeedPhrases) > 0
}

// HasXprv reports whether an extended private key was found
func (f BitcoinFindings) HasXprv() bool {
	for _, k := range f.ExtendedKeys {
		if k.Type == Xprv {
			return true
		}
	}
	return false
}

// NostrFindings groups the Nostr entities found in one text
type NostrFindings struct {
	PublicKeys  []Entity   `json:"public_keys"`
	PrivateKeys []Entity   `json:"private_keys"`
	Notes       []Entity   `json:"notes"`
	Events      []Entity   `json:"events"`
	Relays      []Entity   `json:"relays"`
	NIP05IDs    []Entity   `json:"nip05_ids"`
	Zaps        []Entity   `json:"zaps"`
	RawEvents   []Entity   `json:"raw_events"`
	Risk        risk.Level `json:"risk_level"`
}

// Any reports whether at least one Nostr entity was found
func (f NostrFindings) Any() bool {
	return len(f.PublicKeys)+len(f.PrivateKeys)+len(f.Notes)+len(f.Events)+
		len(f.Relays)+len(f.NIP05IDs)+len(f.Zaps)+len(f.RawEvents) > 0
}
