package security

import (
	"github.com/grendel/noprints/pkg/common"
	"github.com/grendel/noprints/pkg/crypto"
	"github.com/grendel/noprints/pkg/matcher"
)

const (
	previewLimit = 50
	previewKeep  = 47
)

// DisplayText renders text for a history list. Blurred verdicts get a
// category specific redaction; everything else is truncated to 50 runes.
func DisplayText(text string, v *Verdict) string {
	if v == nil || !v.ShouldBlur {
		return common.Truncate(text, previewLimit, previewKeep)
	}

	switch {
	case len(v.Nostr.PrivateKeys) > 0:
		return "🔑 Nostr Private Key (hidden)"
	case len(v.Bitcoin.PrivateKeys) > 0:
		return "🔑 Bitcoin Private Key (hidden)"
	case len(v.Bitcoin.SeedPhrases) > 0:
		return "🌱 Seed Phrase (hidden)"
	case len(v.Passwords) > 0:
		return "🔒 Password (hidden)"
	case len(v.CreditCards) > 0:
		return "💳 Card ending in " + matcher.LastFour(v.CreditCards[0].Masked)
	case len(v.Nostr.PublicKeys) > 0:
		key := v.Nostr.PublicKeys[0]
		switch key.Type {
		case crypto.Npub:
			return "👤 npub1..." + common.Tail(key.Value, 6)
		case crypto.Nprofile:
			return "👤 nprofile1..." + common.Tail(key.Value, 6)
		default:
			return "👤 " + common.Abbreviate(key.Value, 8, 6)
		}
	case len(v.Bitcoin.Addresses) > 0:
		return "₿ " + common.Abbreviate(v.Bitcoin.Addresses[0].Value, 6, 4)
	case common.RuneLen(text) > 12:
		return common.Abbreviate(text, 4, 4)
	}
	return "***hidden***"
}

// Icon picks the glyph shown next to a history item
func Icon(v *Verdict) string {
	if v == nil {
		return "📋"
	}
	switch {
	case len(v.Bitcoin.PrivateKeys) > 0 || len(v.Nostr.PrivateKeys) > 0:
		return "🔑"
	case len(v.Bitcoin.SeedPhrases) > 0:
		return "🌱"
	case len(v.Bitcoin.Addresses) > 0:
		return "₿"
	case len(v.Bitcoin.Lightning) > 0:
		return "⚡"
	case len(v.Passwords) > 0:
		return "🔒"
	case len(v.CreditCards) > 0:
		return "💳"
	case len(v.APIKeys) > 0:
		return "🔐"
	}
	return "📋"
}
