package security

import (
	"github.com/grendel/noprints/pkg/crypto"
	"github.com/grendel/noprints/pkg/matcher"
	"github.com/grendel/noprints/pkg/risk"
)

// Verdict is the aggregated classification of one piece of text
type Verdict struct {
	RiskLevel     risk.Level `json:"risk_level"`
	RiskScore     int        `json:"risk_score"`
	ShouldExpire  bool       `json:"should_expire"`
	ExpireSeconds int        `json:"expire_seconds,omitempty"`
	ShouldBlur    bool       `json:"should_blur"`
	Warnings      []string   `json:"warnings"`

	Bitcoin        crypto.BitcoinFindings `json:"bitcoin"`
	Nostr          crypto.NostrFindings   `json:"nostr"`
	Passwords      []matcher.Finding      `json:"passwords"`
	CreditCards    []matcher.Finding      `json:"credit_cards"`
	APIKeys        []matcher.Finding      `json:"api_keys"`
	OtherSensitive []matcher.Finding      `json:"other_sensitive"`
}

// proposal is what a single check asks of the verdict
type proposal struct {
	level   risk.Level
	score   int
	expire  int // seconds; 0 requests no expiry
	blur    bool
	warning string
}

// propose folds p into the verdict: level and score take the maximum, expiry
// the minimum over checks that asked for one, blur is sticky.
func (v *Verdict) propose(p proposal) {
	v.RiskLevel = risk.Max(v.RiskLevel, p.level)
	if p.score > v.RiskScore {
		v.RiskScore = p.score
	}
	if p.expire > 0 {
		if !v.ShouldExpire || p.expire < v.ExpireSeconds {
			v.ExpireSeconds = p.expire
		}
		v.ShouldExpire = true
	}
	v.ShouldBlur = v.ShouldBlur || p.blur
	if p.warning != "" {
		v.Warnings = append(v.Warnings, p.warning)
	}
}

// IsSensitive reports whether the verdict is high or critical
func (v *Verdict) IsSensitive() bool {
	return v.RiskLevel.AtLeast(risk.High)
}

// HasBitcoin reports whether any Bitcoin entity was found
func (v *Verdict) HasBitcoin() bool {
	return v.Bitcoin.Any()
}

// HasNostr reports whether any Nostr entity was found
func (v *Verdict) HasNostr() bool {
	return v.Nostr.Any()
}
