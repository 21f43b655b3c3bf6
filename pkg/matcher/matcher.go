package matcher

import (
	"strings"
	"unicode"

	"github.com/grendel/noprints/pkg/patterns"
	"golang.org/x/crypto/ssh"
)

// MatchType identifies the kind of generic secret a Finding describes
type MatchType string

const (
	Password   MatchType = "password"
	CreditCard MatchType = "credit_card"
	APIKey     MatchType = "api_key"
	JWTToken   MatchType = "jwt_token"
	SSHKey     MatchType = "ssh_key"

	// EthereumAddress findings are informational and never raise risk
	EthereumAddress MatchType = "ethereum_address"
)

// Finding is a single generic secret detected in text. The secret itself is
// never stored; cards keep only a mask and SSH public keys a fingerprint.
type Finding struct {
	Type        MatchType `json:"type"`
	Masked      string    `json:"masked,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Verified    bool      `json:"verified,omitempty"`
}

// PatternMatcher matches generic secrets: passwords, payment cards, API keys,
// JWTs and SSH keys
type PatternMatcher struct {
	patterns *patterns.SecretPatterns
}

// NewPatternMatcher creates a new pattern matcher
func NewPatternMatcher() *PatternMatcher {
	return &PatternMatcher{patterns: patterns.GetSecretPatterns()}
}

// Passwords reports a password at most once: either the whole text is a
// complex password, or it contains a password assignment
func (pm *PatternMatcher) Passwords(text string) []Finding {
	if pm.isComplexPassword(text) || pm.patterns.PasswordContext.MatchString(text) {
		return []Finding{{Type: Password}}
	}
	return nil
}

// isComplexPassword requires 8+ characters from the password charset with at
// least one upper, lower, digit and symbol
func (pm *PatternMatcher) isComplexPassword(text string) bool {
	if !pm.patterns.PasswordCharset.MatchString(text) {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(patterns.PasswordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// CreditCards returns every Luhn-valid card number in text, once per number
func (pm *PatternMatcher) CreditCards(text string) []Finding {
	var out []Finding
	seen := make(map[string]struct{})
	for _, re := range pm.patterns.CreditCard {
		for _, match := range re.FindAllString(text, -1) {
			digits := digitsOnly(match)
			if len(digits) < 13 || len(digits) > 19 || !LuhnValid(digits) {
				continue
			}
			if _, dup := seen[digits]; dup {
				continue
			}
			seen[digits] = struct{}{}
			out = append(out, Finding{Type: CreditCard, Masked: MaskCard(digits)})
		}
	}
	return out
}

// APIKeys reports an API key at most once
func (pm *PatternMatcher) APIKeys(text string) []Finding {
	for _, re := range pm.patterns.APIKey {
		if re.MatchString(text) {
			return []Finding{{Type: APIKey}}
		}
	}
	return nil
}

// JWTs reports a JSON Web Token at most once
func (pm *PatternMatcher) JWTs(text string) []Finding {
	if pm.patterns.JWT.MatchString(text) {
		return []Finding{{Type: JWTToken}}
	}
	return nil
}

// SSHKeys reports SSH key material at most once. A private key header wins;
// otherwise an authorized-keys style public key line is fingerprinted when it parses.
func (pm *PatternMatcher) SSHKeys(text string) []Finding {
	if pm.patterns.SSHPrivateKey.MatchString(text) {
		return []Finding{{Type: SSHKey}}
	}
	if !pm.patterns.SSHPublicKey.MatchString(text) {
		return nil
	}
	f := Finding{Type: SSHKey}
	for _, line := range strings.Split(text, "\n") {
		if !pm.patterns.SSHPublicKey.MatchString(line) {
			continue
		}
		if pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(strings.TrimSpace(line))); err == nil {
			f.Fingerprint = ssh.FingerprintSHA256(pub)
			break
		}
	}
	return []Finding{f}
}
