// Package sanitize removes hidden Unicode from clipboard text
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// hiddenRanges are the invisible formatting, direction and replacement
// characters stripped from text. Inclusive bounds.
var hiddenRanges = [][2]rune{
	{0x200B, 0x200F}, // zero width space/joiners, LRM, RLM
	{0x202A, 0x202E}, // bidi embeddings and overrides
	{0x2060, 0x2064}, // word joiner, invisible operators
	{0x2066, 0x2069}, // bidi isolates
	{0xFEFF, 0xFEFF}, // BOM
	{0xFFFC, 0xFFFD}, // object replacement, replacement char
	{0x0000, 0x0008},
	{0x000B, 0x000C},
	{0x000E, 0x001F},
	{0x007F, 0x007F},
}

// IsHidden reports whether r is removed by CleanText.
// TAB, LF and CR are not hidden.
func IsHidden(r rune) bool {
	for _, rg := range hiddenRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// CleanText normalizes text to NFC, drops hidden characters, collapses runs of
// horizontal whitespace to a single space and right-trims every line.
// Newlines are kept so multi-line pastes keep their line structure.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)
	text = strings.Map(func(r rune) rune {
		if IsHidden(r) {
			return -1
		}
		return r
	}, text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(collapseSpace(line), unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

func collapseSpace(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	inSpace := false
	for _, r := range line {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Changed reports whether CleanText would alter text
func Changed(text string) bool {
	return CleanText(text) != text
}
