package textnorm

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse spaces", "hello   world", "hello world"},
		{"tabs to single space", "a\t\tb", "a b"},
		{"trim lines drop blanks", "  one  \n\n\n  two  ", "one\ntwo"},
		{"crlf", "one\r\ntwo", "one\ntwo"},
		{"empty", "", ""},
		{"only whitespace", "  \n\t \n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeScriptFilter(t *testing.T) {
	// Devanagari text with danda and double danda survives.
	in := "नमस्ते दुनिया। स्वागत है॥"
	if got := Normalize(in); got != in {
		t.Errorf("Normalize(%q) = %q, want unchanged", in, got)
	}

	// Control characters and emoji are stripped; latin and punctuation stay.
	if got := Normalize("he\x01llo ☃ world!"); got != "hello world!" {
		t.Errorf("got %q, want %q", got, "hello world!")
	}

	// Allow-listed punctuation survives, other symbols do not.
	if got := Normalize(`a.b,c!d?e(f)g[h]"i"-j © ® €`); got != `a.b,c!d?e(f)g[h]"i"-j` {
		t.Errorf("punctuation filter got %q", got)
	}

	// Accented Latin letters are Latin letters; none are stripped.
	in = "café naïve résumé Zürich señor"
	if got := Normalize(in); got != in {
		t.Errorf("Normalize(%q) = %q, want unchanged", in, got)
	}

	// Cyrillic is outside the retained scripts.
	if got := Normalize("привет hello"); got != "hello" {
		t.Errorf("non-retained script got %q", got)
	}
}

func TestNormalizeComposition(t *testing.T) {
	// "é" as e + combining acute composes to the single code point.
	if got := Normalize("café"); got != "café" {
		t.Errorf("NFC composition got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	samples := []string{
		"",
		"plain text",
		"  messy\t\ttext \n\n with  gaps ",
		"नमस्ते   दुनिया।\n\nदूसरा  अनुच्छेद",
		"mixed हिंदी and English, with (brackets) [and] \"quotes\"",
		"ctrl\x00chars\x1fand  odd spaces",
		"café au lait",
	}
	for _, s := range samples {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", s, once, twice)
		}
	}
}

func TestNonWhitespaceLen(t *testing.T) {
	if got := NonWhitespaceLen("a b\tc\nद"); got != 4 {
		t.Errorf("NonWhitespaceLen = %d, want 4", got)
	}
	if got := NonWhitespaceLen("   "); got != 0 {
		t.Errorf("NonWhitespaceLen(spaces) = %d, want 0", got)
	}
}
