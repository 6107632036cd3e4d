// Package textnorm cleans extracted or transcribed text: canonical Unicode
// composition, script-aware character filtering, and whitespace hygiene.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Script blocks retained by the filter. The deployment targets Hindi,
// Marathi (Devanagari), Punjabi (Gurmukhi) and Odia (Oriya) alongside
// Latin text.
var retainedScripts = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0900, Hi: 0x097F, Stride: 1}, // Devanagari
		{Lo: 0x0A00, Hi: 0x0A7F, Stride: 1}, // Gurmukhi
		{Lo: 0x0B00, Hi: 0x0B7F, Stride: 1}, // Oriya
	},
}

const retainedPunct = ".,!?()[]\"'-"

// Normalize runs the full cleanup pipeline: NFC composition, script-aware
// character filter, line trimming with blank-line removal, and collapse of
// space runs. The filter runs before the whitespace collapse so that
// Normalize(Normalize(x)) == Normalize(x) for all inputs.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = filterRunes(s)

	lines := make([]string, 0, strings.Count(s, "\n")+1)
	for _, line := range strings.Split(s, "\n") {
		line = collapseSpaces(strings.TrimSpace(line))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// filterRunes keeps Latin letters, digits, the retained Indic script blocks,
// the punctuation allow-list, and whitespace. Everything else, including
// control characters, is dropped. Newlines survive so line structure is
// decided by the caller stage, not here.
func filterRunes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == ' ' || r == '\t':
			b.WriteRune(r)
		case r == '\r':
			b.WriteRune('\n')
		case r >= '0' && r <= '9' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) && unicode.Is(unicode.Latin, r):
			b.WriteRune(r)
		case unicode.Is(retainedScripts, r):
			b.WriteRune(r)
		case strings.ContainsRune(retainedPunct, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// NonWhitespaceLen counts runes that are not Unicode whitespace. Used for
// retention-ratio checks against destructive transformations.
func NonWhitespaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
