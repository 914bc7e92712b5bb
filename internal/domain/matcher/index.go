package matcher

import (
	"github.com/khatib49/Scan-ocr/internal/domain/textnorm"
)

// NameIndex maps a normalized alias to its profile for O(1) exact-match
// lookup. Built once per catalog snapshot; when two profiles claim the
// same alias the later one wins, matching catalog-file precedence.
type NameIndex map[string]*Profile

// BuildNameIndex derives the alias index from a profile list. Aliases
// are normalized with the folded normalizer, so lookups are case and
// diacritic insensitive and Arabic aliases index as written.
func BuildNameIndex(profiles []*Profile) NameIndex {
	idx := make(NameIndex)
	for _, p := range profiles {
		for _, name := range p.Names() {
			if nn := textnorm.NormalizeFolded(name); nn != "" {
				idx[nn] = p
			}
		}
	}
	return idx
}

// Lookup resolves a merchant guess against the index. Matched iff the
// normalized guess is a non-empty key present in the index. This path
// trades recall (no fuzziness) for precision and speed.
func (idx NameIndex) Lookup(merchantGuess string) MatchResult {
	ng := textnorm.NormalizeFolded(merchantGuess)
	if ng == "" {
		return NoMatch()
	}
	p, ok := idx[ng]
	if !ok {
		return NoMatch()
	}
	return MatchResult{Matched: true, Profile: p, Hints: p.Hints()}
}
