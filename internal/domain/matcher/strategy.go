package matcher

// Strategy resolves a merchant/address guess to a venue profile. Callers
// stay strategy-agnostic; the concrete variant is picked by config.
type Strategy interface {
	Match(merchantGuess, addressGuess string) MatchResult
}

// Strategy names accepted in configuration.
const (
	StrategySimilarity = "similarity"
	StrategyIndexed    = "indexed"
)

// SimilarityStrategy ranks the whole catalog by fuzzy partial-ratio
// score. Higher recall, O(catalog) per request.
type SimilarityStrategy struct {
	store *Store
}

// NewSimilarityStrategy creates a similarity-ranked strategy over the store.
func NewSimilarityStrategy(store *Store) *SimilarityStrategy {
	return &SimilarityStrategy{store: store}
}

// Match implements Strategy.
func (s *SimilarityStrategy) Match(merchantGuess, addressGuess string) MatchResult {
	p := FindBestProfile(s.store.Snapshot().Profiles, merchantGuess, addressGuess)
	if p == nil {
		return NoMatch()
	}
	return MatchResult{Matched: true, Profile: p, Hints: p.Hints()}
}

// IndexedStrategy does an exact lookup in the precomputed alias index.
// O(1) per request; the address guess is ignored.
type IndexedStrategy struct {
	store *Store
}

// NewIndexedStrategy creates an indexed-exact strategy over the store.
func NewIndexedStrategy(store *Store) *IndexedStrategy {
	return &IndexedStrategy{store: store}
}

// Match implements Strategy.
func (s *IndexedStrategy) Match(merchantGuess, _ string) MatchResult {
	return s.store.Snapshot().Index().Lookup(merchantGuess)
}

// ForName returns the strategy registered under the given config name,
// defaulting to similarity ranking.
func ForName(name string, store *Store) Strategy {
	if name == StrategyIndexed {
		return NewIndexedStrategy(store)
	}
	return NewSimilarityStrategy(store)
}
