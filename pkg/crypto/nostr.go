package crypto

import (
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/grendel/noprints/pkg/common"
	"github.com/grendel/noprints/pkg/patterns"
	"github.com/grendel/noprints/pkg/risk"
)

const rawEventPreviewLen = 100

type nostrCategory int

const (
	nostrPublicKey nostrCategory = iota
	nostrPrivateKey
	nostrNote
	nostrEvent
	nostrRelay
)

// nostrRule classifies a token matching pattern. First match wins.
type nostrRule struct {
	pattern  *regexp.Regexp
	category nostrCategory
	kind     EntityType
	encoding Encoding
	raise    risk.Level
}

// NostrDetector recognizes Nostr keys, identifiers, relays and raw events in text
type NostrDetector struct {
	patterns    *patterns.NostrPatterns
	rules       []nostrRule
	knownRelays []string
}

// NewNostrDetector creates a detector with the standard rule order:
// nsec, npub, note, nevent, nprofile, nrelay, naddr, relay URL.
// NIP-05 identifiers are checked last.
func NewNostrDetector() *NostrDetector {
	p := patterns.GetNostrPatterns()
	return &NostrDetector{
		patterns: p,
		rules: []nostrRule{
			{p.Nsec, nostrPrivateKey, Nsec, EncodingBech32, risk.Critical},
			{p.Npub, nostrPublicKey, Npub, EncodingBech32, risk.Medium},
			{p.Note, nostrNote, Note, EncodingBech32, risk.Low},
			{p.Nevent, nostrEvent, Nevent, EncodingBech32, risk.Low},
			{p.Nprofile, nostrPublicKey, Nprofile, EncodingBech32, risk.Medium},
			{p.Nrelay, nostrRelay, Nrelay, EncodingBech32, risk.Low},
			{p.Naddr, nostrEvent, Naddr, EncodingBech32, risk.Low},
			{p.RelayURL, nostrRelay, WebsocketURL, "", risk.Low},
		},
		knownRelays: patterns.GetKnownRelays(),
	}
}

// Detect scans text for Nostr content. The domain risk only grows during a pass.
func (d *NostrDetector) Detect(text string) NostrFindings {
	var f NostrFindings
	if text == "" {
		return f
	}

	lower := strings.ToLower(text)
	tokens := common.Tokens(text)
	for _, raw := range tokens {
		token := common.StripToken(raw, common.NostrTokenCutset)
		if d.classifyToken(&f, token) {
			continue
		}
		if d.patterns.NIP05.MatchString(token) && d.looksLikeNIP05(token, lower) {
			f.NIP05IDs = append(f.NIP05IDs, Entity{Value: token, Type: NIP05})
		}
	}

	// Bare hex keys are public or private only by the words around them
	for _, token := range tokens {
		if !d.patterns.HexKey.MatchString(token) {
			continue
		}
		switch {
		case containsAny(lower, patterns.GetNostrPrivateHints()):
			f.PrivateKeys = append(f.PrivateKeys, Entity{Value: token, Type: HexPrivate, Encoding: EncodingHex})
			f.Risk = risk.Critical
		case containsAny(lower, patterns.GetNostrPublicHints()):
			f.PublicKeys = append(f.PublicKeys, Entity{Value: token, Type: HexPublic, Encoding: EncodingHex})
			f.Risk = risk.Max(f.Risk, risk.Medium)
		}
	}

	d.detectRawEvent(&f, text)
	return f
}

func (d *NostrDetector) classifyToken(f *NostrFindings, token string) bool {
	for _, rule := range d.rules {
		if !rule.pattern.MatchString(token) {
			continue
		}
		e := Entity{Value: token, Type: rule.kind, Encoding: rule.encoding}
		if rule.encoding == EncodingBech32 {
			_, _, err := bech32.DecodeNoLimit(token)
			e.Verified = err == nil
		}
		switch rule.category {
		case nostrPrivateKey:
			f.PrivateKeys = append(f.PrivateKeys, e)
		case nostrPublicKey:
			f.PublicKeys = append(f.PublicKeys, e)
		case nostrNote:
			f.Notes = append(f.Notes, e)
		case nostrEvent:
			f.Events = append(f.Events, e)
		case nostrRelay:
			f.Relays = append(f.Relays, e)
		}
		f.Risk = risk.Max(f.Risk, rule.raise)
		return true
	}
	return false
}

// looksLikeNIP05 separates NIP-05 identifiers from ordinary email addresses
func (d *NostrDetector) looksLikeNIP05(token, lowerText string) bool {
	for _, relay := range d.knownRelays {
		if strings.Contains(token, relay) {
			return true
		}
	}
	return strings.Contains(lowerText, "nostr")
}

// detectRawEvent uses substring checks only; the text is never parsed as JSON
func (d *NostrDetector) detectRawEvent(f *NostrFindings, text string) {
	if !strings.Contains(text, `"kind":`) || !strings.Contains(text, `"pubkey":`) {
		return
	}

	f.RawEvents = append(f.RawEvents, Entity{
		Type:           JSONEvent,
		ContentPreview: common.Truncate(text, rawEventPreviewLen, rawEventPreviewLen),
	})

	switch {
	case d.patterns.ZapRequest.MatchString(text):
		f.Zaps = append(f.Zaps, Entity{Type: ZapRequest, Kind: 9734})
		f.Risk = risk.Max(f.Risk, risk.Medium)
	case d.patterns.ZapReceipt.MatchString(text):
		f.Zaps = append(f.Zaps, Entity{Type: ZapReceipt, Kind: 9735})
	}

	if strings.Contains(text, `"tags":`) && (strings.Contains(text, `"s"`) || strings.Contains(text, "nsec")) {
		f.Risk = risk.Critical
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// ValidateKey checks a Nostr key or identifier. Bech32 forms only have their
// data part checked against the bech32 alphabet. It returns the key type and
// its encoding.
func (d *NostrDetector) ValidateKey(key string) (bool, string, Encoding) {
	p := d.patterns
	checks := []struct {
		pattern *regexp.Regexp
		kind    EntityType
	}{
		{p.Npub, Npub}, {p.Nsec, Nsec}, {p.Note, Note}, {p.Nevent, Nevent},
		{p.Nprofile, Nprofile}, {p.Nrelay, Nrelay}, {p.Naddr, Naddr},
	}
	for _, c := range checks {
		if c.pattern.MatchString(key) {
			return validNostrBech32(key), string(c.kind), EncodingBech32
		}
	}
	if p.HexKey.MatchString(key) {
		return true, "hex_key", EncodingHex
	}
	return false, "", ""
}

func validNostrBech32(data string) bool {
	if len(data) < 8 {
		return false
	}
	sep := strings.LastIndex(data, "1")
	if sep == -1 {
		return false
	}
	for _, c := range data[sep+1:] {
		if !strings.ContainsRune(patterns.Bech32Alphabet, c) {
			return false
		}
	}
	return true
}

// NostrRiskScore returns the 0-100 score for a Nostr content kind
func NostrRiskScore(kind string) int {
	switch kind {
	case "nsec", "hex_private":
		return 100
	case "npub", "hex_public":
		return 20
	case "nprofile":
		return 25
	case "note", "nip05":
		return 10
	case "nevent", "naddr", "zap_receipt":
		return 15
	case "relay_ws":
		return 5
	case "zap_request":
		return 30
	case "json_event":
		return 25
	default:
		return 0
	}
}

// NostrIcon returns the glyph shown for a Nostr content kind
func NostrIcon(kind string) string {
	switch kind {
	case "nsec", "hex_private":
		return "🔑"
	case "npub", "hex_public", "nprofile":
		return "👤"
	case "note":
		return "📝"
	case "nevent":
		return "📅"
	case "naddr":
		return "🏷️"
	case "relay_ws":
		return "🔗"
	case "nip05":
		return "🆔"
	case "zap_request", "zap_receipt":
		return "⚡"
	case "json_event":
		return "📋"
	default:
		return "🟣"
	}
}

// NostrDisplay renders a Nostr value for display without exposing private keys
func NostrDisplay(value, kind string) string {
	switch kind {
	case "nsec", "hex_private":
		return "***NOSTR PRIVATE KEY HIDDEN***"
	case "npub", "nprofile", "note", "nevent", "naddr":
		if common.RuneLen(value) > 16 {
			return common.Abbreviate(value, 8, 6)
		}
	case "websocket_url":
		_, rest, found := strings.Cut(value, "://")
		if !found {
			return common.Truncate(value, 30, 30)
		}
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		return "wss://" + rest
	}
	return value
}

var eventKindNames = map[int]string{
	0:     "profile_metadata",
	1:     "text_note",
	2:     "recommend_relay",
	3:     "contact_list",
	4:     "encrypted_dm",
	5:     "event_deletion",
	6:     "repost",
	7:     "reaction",
	9734:  "zap_request",
	9735:  "zap_receipt",
	10002: "relay_list",
	30023: "long_form_content",
}

// EventKindName returns the name of a Nostr event kind, or "" when unknown
func EventKindName(kind int) string {
	return eventKindNames[kind]
}
