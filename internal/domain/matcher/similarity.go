package matcher

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/khatib49/Scan-ocr/internal/domain/textnorm"
)

// Scoring weights and threshold for similarity-ranked matching. The name
// carries most of the signal; addresses on receipts are short and noisy.
const (
	merchantWeight = 0.7
	addressWeight  = 0.3
	scoreThreshold = 55
)

// bestScore returns the highest partial-ratio score (0-100) of the
// normalized query against any of the candidate keywords. An empty query
// or empty candidate list scores zero.
func bestScore(candidates []string, query string) int {
	if query == "" {
		return 0
	}
	best := 0
	for _, c := range candidates {
		nc := textnorm.Normalize(c)
		if nc == "" {
			continue
		}
		if s := fuzzy.PartialRatio(nc, query); s > best {
			best = s
		}
	}
	return best
}

// FindBestProfile scans the catalog for the profile whose keywords best
// match the merchant and address guesses. Scores combine as
// 0.7*merchant + 0.3*address; the best profile is returned only when its
// combined score reaches the threshold, since no match is safer than a
// wrong match. Ties keep the first profile in catalog order. Returns nil
// when both guesses normalize to empty.
func FindBestProfile(profiles []*Profile, merchantGuess, addressGuess string) *Profile {
	m := textnorm.Normalize(merchantGuess)
	a := textnorm.Normalize(addressGuess)
	if m == "" && a == "" {
		return nil
	}

	var best *Profile
	bestTotal := 0.0
	for _, p := range profiles {
		ms := bestScore(p.MerchantNameKeyword, m)
		as := bestScore(p.MerchantAddressKeyword, a)
		total := float64(ms)*merchantWeight + float64(as)*addressWeight
		if total > bestTotal {
			bestTotal = total
			best = p
		}
	}

	if bestTotal < scoreThreshold {
		return nil
	}
	return best
}
