// Package security classifies clipboard text for sensitive content and turns
// the findings into a single risk verdict
package security

import (
	"fmt"
	"strings"

	"github.com/grendel/noprints/pkg/common"
	"github.com/grendel/noprints/pkg/crypto"
	"github.com/grendel/noprints/pkg/matcher"
	"github.com/grendel/noprints/pkg/patterns"
	"github.com/grendel/noprints/pkg/risk"
)

// Warnings attached to verdicts
const (
	WarnPrivateKeyOrSeed = "⚠️ CRITICAL: Private key or seed phrase detected!"
	WarnExtendedPrivate  = "⚠️ Extended private key detected!"
	WarnNostrPrivateKey  = "⚠️ CRITICAL: Nostr private key detected!"
	WarnPassword         = "Password detected"
	WarnCreditCard       = "Credit card detected"
	WarnAPIKey           = "API key detected"
	WarnJWT              = "JWT token detected"
	WarnSSHKey           = "⚠️ SSH private key detected!"
)

// excludedAppExpiry is the expiry forced on anything copied from an excluded app
const excludedAppExpiry = 30

// Classifier runs every detector over a text and aggregates their proposals
type Classifier struct {
	bitcoin      *crypto.BitcoinDetector
	nostr        *crypto.NostrDetector
	matcher      *matcher.PatternMatcher
	excludedApps []string
}

// NewClassifier creates a classifier. extraExcluded names are added to the
// built-in list of excluded applications.
func NewClassifier(extraExcluded ...string) *Classifier {
	apps := patterns.GetExcludedApps()
	for _, name := range extraExcluded {
		if name = strings.TrimSpace(name); name != "" {
			apps = append(apps, name)
		}
	}
	return &Classifier{
		bitcoin:      crypto.NewBitcoinDetector(),
		nostr:        crypto.NewNostrDetector(),
		matcher:      matcher.NewPatternMatcher(),
		excludedApps: apps,
	}
}

// Bitcoin returns the classifier's Bitcoin detector
func (c *Classifier) Bitcoin() *crypto.BitcoinDetector { return c.bitcoin }

// Nostr returns the classifier's Nostr detector
func (c *Classifier) Nostr() *crypto.NostrDetector { return c.nostr }

// IsExcludedApp reports whether sourceApp contains an excluded application name
func (c *Classifier) IsExcludedApp(sourceApp string) bool {
	if sourceApp == "" {
		return false
	}
	for _, app := range c.excludedApps {
		if strings.Contains(sourceApp, app) {
			return true
		}
	}
	return false
}

// Analyze classifies text copied from sourceApp. It never fails: empty text
// yields a zero verdict with low risk.
func (c *Classifier) Analyze(text, sourceApp string) Verdict {
	var v Verdict
	if text == "" {
		return v
	}

	if c.IsExcludedApp(sourceApp) {
		v.propose(proposal{
			level:   risk.Low,
			expire:  excludedAppExpiry,
			warning: fmt.Sprintf("Content from excluded app: %s", sourceApp),
		})
	}

	v.Bitcoin = c.bitcoin.Detect(text)
	v.Nostr = c.nostr.Detect(text)
	v.RiskLevel = risk.Max(v.RiskLevel, v.Bitcoin.Risk, v.Nostr.Risk)

	if p, ok := bitcoinProposal(v.Bitcoin); ok {
		v.propose(p)
	}
	if p, ok := nostrProposal(v.Nostr); ok {
		v.propose(p)
	}

	if v.Passwords = c.matcher.Passwords(text); len(v.Passwords) > 0 {
		v.propose(proposal{level: risk.High, score: 80, expire: 60, blur: true, warning: WarnPassword})
	}

	v.CreditCards = c.matcher.CreditCards(text)
	for range v.CreditCards {
		v.propose(proposal{level: risk.High, score: 85, expire: 30, blur: true, warning: WarnCreditCard})
	}

	if v.APIKeys = c.matcher.APIKeys(text); len(v.APIKeys) > 0 {
		v.propose(proposal{level: risk.High, score: 75, expire: 120, warning: WarnAPIKey})
	}

	if jwts := c.matcher.JWTs(text); len(jwts) > 0 {
		v.OtherSensitive = append(v.OtherSensitive, jwts...)
		v.propose(proposal{level: risk.Medium, score: 50, expire: 300, warning: WarnJWT})
	}

	if keys := c.matcher.SSHKeys(text); len(keys) > 0 {
		v.OtherSensitive = append(v.OtherSensitive, keys...)
		v.propose(proposal{level: risk.Critical, score: 100, expire: 10, blur: true, warning: WarnSSHKey})
	}

	for _, e := range crypto.DetectEthereumAddresses(text) {
		v.OtherSensitive = append(v.OtherSensitive, matcher.Finding{
			Type:     matcher.EthereumAddress,
			Masked:   common.Abbreviate(e.Value, 6, 4),
			Verified: e.Verified,
		})
	}

	return v
}

// bitcoinProposal applies the Bitcoin rule table; the first matching row wins
func bitcoinProposal(f crypto.BitcoinFindings) (proposal, bool) {
	switch {
	case len(f.PrivateKeys) > 0 || len(f.SeedPhrases) > 0:
		return proposal{level: risk.Critical, score: 100, expire: 10, blur: true, warning: WarnPrivateKeyOrSeed}, true
	case f.HasXprv():
		return proposal{level: risk.Critical, score: 95, expire: 15, blur: true, warning: WarnExtendedPrivate}, true
	case len(f.ExtendedKeys) > 0:
		return proposal{level: risk.High, score: 60, expire: 30}, true
	case len(f.Addresses) > 0:
		return proposal{level: risk.Medium, score: 30, expire: 30, blur: true}, true
	case len(f.Lightning) > 0:
		return proposal{level: risk.Medium, score: 25, expire: 60}, true
	}
	return proposal{}, false
}

// nostrProposal applies the Nostr rule table; the first matching row wins
func nostrProposal(f crypto.NostrFindings) (proposal, bool) {
	switch {
	case len(f.PrivateKeys) > 0:
		return proposal{level: risk.Critical, score: 100, expire: 10, blur: true, warning: WarnNostrPrivateKey}, true
	case len(f.PublicKeys) > 0:
		return proposal{level: risk.Medium, score: 25, expire: 60, blur: true}, true
	case len(f.RawEvents) > 0:
		return proposal{level: risk.Medium, score: 30, expire: 120}, true
	}
	return proposal{}, false
}
