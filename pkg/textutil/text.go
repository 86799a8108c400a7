// Package textutil contains best-effort sanitisers for text coming from
// ASR providers, LLMs and other sources that occasionally produce broken
// encodings or stray control characters. Every function is total: it never
// returns an error and degrades to the unmodified input when a repair step
// fails, logging the failure instead.
package textutil

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Matches C0 control characters excluding TAB, LF and CR, plus DEL and the
// C1 range. These are the characters that break JSON parsers and terminals
// while carrying no information worth keeping.
var problematicControlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f\x{80}-\x{9f}]`)

// Runes that almost never appear in legitimate text but are typical for
// UTF-8 read as a single-byte encoding.
var mojibakeMarkers = []string{"Ã", "Â", "â€", "â„", "ï¿½"}

func sample(s string) string {
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// FixTextEncodingAndNormalise repairs the common UTF-8-read-as-latin-1
// mojibake class and normalises the result to NFC.
func FixTextEncodingAndNormalise(text string) string {
	current := repairMojibake(text)

	if !norm.NFC.IsNormalString(current) {
		normalised := norm.NFC.String(current)
		slog.Debug("text normalised to NFC",
			"before", sample(current),
			"after", sample(normalised))
		current = normalised
	}

	return current
}

// repairMojibake re-encodes the text as windows-1252 bytes and checks
// whether those bytes form valid UTF-8. If they do, the text was almost
// certainly double-encoded and the re-decoded form is returned.
func repairMojibake(text string) string {
	suspicious := false
	for _, marker := range mojibakeMarkers {
		if strings.Contains(text, marker) {
			suspicious = true
			break
		}
	}
	if !suspicious {
		return text
	}

	raw, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		// Contains runes outside windows-1252, so it cannot be a
		// plain double-encoding. Leave it alone.
		slog.Debug("skipping mojibake repair", "text", sample(text), "error", err)
		return text
	}

	if !utf8.ValidString(raw) || raw == text {
		return text
	}

	slog.Debug("repaired double-encoded text",
		"before", sample(text),
		"after", sample(raw))
	return raw
}

// RemoveProblematicControlChars strips control characters from the text
// while preserving TAB, LF and CR.
func RemoveProblematicControlChars(text string) string {
	sanitised := problematicControlChars.ReplaceAllString(text, "")
	if sanitised != text {
		slog.Debug("removed problematic control characters",
			"before", sample(text),
			"after", sample(sanitised))
	}
	return sanitised
}

// EnsureJSONParsable makes a string containing JSON parseable again. Valid
// input is returned unchanged; otherwise control characters are stripped
// and raw newlines collapsed to spaces, which covers the usual ways LLM
// output breaks json.Unmarshal.
func EnsureJSONParsable(text string) string {
	if json.Valid([]byte(text)) {
		return text
	}

	sanitised := RemoveProblematicControlChars(text)
	sanitised = strings.ReplaceAll(sanitised, "\n", " ")
	sanitised = strings.ReplaceAll(sanitised, "\r", " ")

	if sanitised != text {
		slog.Info("JSON sanitisation applied to malformed JSON",
			"before", sample(text),
			"after", sample(sanitised))
	}

	return sanitised
}

// TransliterateAndForceASCII converts the text to 7-bit ASCII. Diacritics
// are folded, known symbols transliterated and everything else dropped.
func TransliterateAndForceASCII(text string) string {
	current := unidecode.Unidecode(text)
	if current != text {
		slog.Debug("text transliterated",
			"before", sample(text),
			"after", sample(current))
	}

	current = RemoveProblematicControlChars(current)

	var b strings.Builder
	b.Grow(len(current))
	for _, r := range current {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	ascii := b.String()
	if ascii != current {
		slog.Debug("non-ASCII characters dropped",
			"before", sample(current),
			"after", sample(ascii))
	}

	return ascii
}
