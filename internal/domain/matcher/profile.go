// Package matcher finds the venue profile behind a noisy merchant guess.
//
// Two strategies are supported and selected by configuration:
//
//   - similarity: scan the whole catalog with partial-ratio fuzzy
//     scoring, weighted 70/30 between merchant name and address
//   - indexed: O(1) exact lookup of the normalized guess in a
//     precomputed alias index
//
// Example usage:
//
//	catalog, err := matcher.LoadCatalog("venue_profiles.json")
//	strategy := matcher.NewSimilarityStrategy(store)
//	result := strategy.Match("Roberto Coin", "Olaya St, Riyadh")
package matcher

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Keywords is a merchant-name or address keyword set. Catalog files may
// declare a single keyword string or a list of aliases; both unmarshal
// into the same type.
type Keywords []string

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (k *Keywords) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*k = Keywords{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("keyword must be string or string array: %w", err)
	}
	out := make(Keywords, 0, len(many))
	for _, s := range many {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	*k = out
	return nil
}

// Profile is one catalog entry describing a known venue: its expected
// name/address keywords, an optional spending range in SAR, and per-venue
// extraction hints (label names, date formats, language) forwarded to the
// vision model. Profiles are immutable once loaded.
type Profile struct {
	MerchantNameKeyword    Keywords          `json:"MerchantName_Keyword,omitempty"`
	MerchantAddressKeyword Keywords          `json:"MerchantAddress_Keyword,omitempty"`
	TenantName             Keywords          `json:"TenantName,omitempty"`
	Brand                  Keywords          `json:"Brand,omitempty"`
	Aliases                Keywords          `json:"Aliases,omitempty"`
	SpendingRangeSAR       string            `json:"Spending Range (SAR),omitempty"`
	ExtractionHints        map[string]string `json:"ExtractionHints,omitempty"`
}

// SpendingRange is a numeric low/high bound in the local currency.
type SpendingRange struct {
	Low  float64
	High float64
}

// splitAliases splits a single keyword string that packs several aliases
// separated by |, comma or slash.
var splitAliases = regexp.MustCompile(`[|,/]`)

// rangeSep normalizes the en-dash some catalog files use as range separator.
var rangeSep = strings.NewReplacer("–", "-")

// Names returns every name-ish alias declared on the profile, across all
// keyword fields, with packed "a|b/c" strings split apart.
func (p *Profile) Names() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ks := range [][]string{p.MerchantNameKeyword, p.TenantName, p.Brand, p.Aliases} {
		for _, k := range ks {
			for _, part := range splitAliases.Split(k, -1) {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if _, dup := seen[part]; dup {
					continue
				}
				seen[part] = struct{}{}
				out = append(out, part)
			}
		}
	}
	return out
}

// Range parses the profile's spending range declaration. Returns nil when
// no range is declared or it does not parse; a bad range in the catalog
// should disable the range check, not fail matching.
func (p *Profile) Range() *SpendingRange {
	s := strings.TrimSpace(rangeSep.Replace(p.SpendingRangeSAR))
	if s == "" {
		return nil
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return nil
	}
	low, err1 := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(parts[0], ",", "")), 64)
	high, err2 := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(parts[1], ",", "")), 64)
	if err1 != nil || err2 != nil || low > high {
		return nil
	}
	return &SpendingRange{Low: low, High: high}
}

// Hints returns the profile's extraction hints, never nil.
func (p *Profile) Hints() map[string]string {
	if p.ExtractionHints == nil {
		return map[string]string{}
	}
	return p.ExtractionHints
}

// MatchResult is the outcome of a venue lookup. Transient, one per
// request, never persisted by the matcher itself.
type MatchResult struct {
	Matched bool              `json:"matched"`
	Profile *Profile          `json:"profile"`
	Hints   map[string]string `json:"hints"`
}

// NoMatch is the canonical unmatched result.
func NoMatch() MatchResult {
	return MatchResult{Matched: false, Profile: nil, Hints: map[string]string{}}
}
