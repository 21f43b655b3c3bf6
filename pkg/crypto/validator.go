package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/grendel/noprints/pkg/common"
	"github.com/tyler-smith/go-bip39"
)

// Seed phrase heuristic thresholds
const (
	minSeedWordLen   = 3
	minSeedWordCount = 10
)

// ErrInvalidMnemonic is returned when a phrase is not a valid BIP39 mnemonic
var ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")

// IsSeedPhraseCandidate reports whether the words look like a 12 or 24 word
// seed phrase: at least 10 of them alphabetic and 3 or more characters long.
// The words are not checked against the BIP39 wordlist.
func IsSeedPhraseCandidate(words []string) bool {
	if len(words) != 12 && len(words) != 24 {
		return false
	}
	count := 0
	for _, w := range words {
		if common.RuneLen(w) >= minSeedWordLen && common.IsAlpha(w) {
			count++
		}
	}
	return count >= minSeedWordCount
}

// seedPhraseEntity builds a seed phrase entity from whitespace tokens when they qualify
func seedPhraseEntity(tokens []string) (Entity, bool) {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = common.StripToken(strings.ToLower(t), common.BitcoinTokenCutset)
	}
	if !IsSeedPhraseCandidate(words) {
		return Entity{}, false
	}
	phrase := strings.Join(words, " ")
	return Entity{
		Value:     phrase,
		Type:      SeedPhrase,
		WordCount: len(words),
		Verified:  bip39.IsMnemonicValid(phrase),
	}, true
}

// ValidateBIP39SeedPhrase validates a phrase against the BIP39 wordlist and checksum
func ValidateBIP39SeedPhrase(phrase string) (bool, error) {
	cleanPhrase := strings.Join(strings.Fields(strings.ToLower(phrase)), " ")

	words := strings.Fields(cleanPhrase)
	switch len(words) {
	case 12, 15, 18, 21, 24:
	default:
		return false, fmt.Errorf("%w: must be 12, 15, 18, 21, or 24 words", ErrInvalidMnemonic)
	}

	if !bip39.IsMnemonicValid(cleanPhrase) {
		return false, fmt.Errorf("%w: contains invalid words or checksum error", ErrInvalidMnemonic)
	}
	return true, nil
}
