// Package textnorm canonicalizes bilingual (Arabic/English) merchant text
// so it can be compared reliably.
//
// Receipt text arrives from OCR/vision extraction in unpredictable shape:
// full-width compatibility forms, mixed case, Arabic-Indic punctuation,
// and variant Arabic letter forms of the same word. Both normalizers are
// pure functions: identical input always yields identical output.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// arabicFold maps variant Arabic letter forms onto one canonical form per
// letter: hamza-bearing alef forms, ta marbuta, alef maksura, and
// hamza-bearing waw/ya.
var arabicFold = strings.NewReplacer(
	"أ", "ا", // أ -> ا
	"إ", "ا", // إ -> ا
	"آ", "ا", // آ -> ا
	"ة", "ه", // ة -> ه
	"ى", "ي", // ى -> ي
	"ؤ", "و", // ؤ -> و
	"ئ", "ي", // ئ -> ي
)

var (
	// Runs outside the allowed alphabet (word characters plus the Arabic
	// block U+0600..U+06FF) collapse to a single space.
	nonAlphabet = regexp.MustCompile(`[^0-9A-Za-z_\x{0600}-\x{06FF}]+`)
	nonWord     = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	spaces      = regexp.MustCompile(`\s+`)
)

// stripMarks decomposes to NFKD and removes combining marks, folding
// accented Latin letters onto their base form.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a string for Arabic-aware comparison. It applies
// NFKC, lowercases, replaces any run of characters outside the allowed
// alphabet with a single space, unifies variant Arabic letter forms, then
// collapses whitespace and trims. Empty input returns "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = nonAlphabet.ReplaceAllString(s, " ")
	s = arabicFold.Replace(s)
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeFolded canonicalizes a string for diacritic-folded comparison.
// Unlike Normalize it strips combining marks entirely, so "Café" and
// "cafe" compare equal, as do Arabic words with and without harakat.
// Letters of any script survive. Used by the exact-match name index.
func NormalizeFolded(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = nonWord.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
