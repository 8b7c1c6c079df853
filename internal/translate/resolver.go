// Package translate turns free text into ordered sign-language video URLs.
//
// Resolution is a three-tier fallback per token: whole-word match, then
// number match, then per-character fingerspelling from the alphabet mapping.
// Tokens that match no tier contribute nothing to the output.
package translate

import (
	"strings"
	"sync/atomic"
	"unicode"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"github.com/17nithinnayak/SignBridgeBackend/internal/metrics"
	"github.com/17nithinnayak/SignBridgeBackend/internal/vocab"
)

// Tier identifies which mapping resolved a token.
type Tier int

const (
	TierWord Tier = iota
	TierNumber
	TierSpelled
	TierMiss
)

func (t Tier) String() string {
	switch t {
	case TierWord:
		return "word"
	case TierNumber:
		return "number"
	case TierSpelled:
		return "spelled"
	default:
		return "miss"
	}
}

// NormalizeToken lowercases a token and trims punctuation from both ends.
// Interior punctuation stays so contractions and decimals survive intact.
func NormalizeToken(raw string) string {
	return strings.TrimFunc(strings.ToLower(raw), unicode.IsPunct)
}

// Resolver maps a single token to video URLs. Spelled-out expansions are
// memoized in an ARC cache since out-of-vocabulary tokens (names, slang)
// repeat heavily in live caption traffic.
type Resolver struct {
	store *vocab.Store
	cache *lru.ARCCache
	log   zerolog.Logger

	tiers       [4]atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// Stats is a point-in-time snapshot of resolution outcomes since start.
type Stats struct {
	Word        int64 `json:"word"`
	Number      int64 `json:"number"`
	Spelled     int64 `json:"spelled"`
	Miss        int64 `json:"miss"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	CacheLen    int   `json:"cache_entries"`
}

// NewResolver builds a Resolver over the given store. cacheSize <= 0
// disables the spelling cache.
func NewResolver(store *vocab.Store, cacheSize int, log zerolog.Logger) (*Resolver, error) {
	r := &Resolver{
		store: store,
		log:   log.With().Str("component", "resolver").Logger(),
	}
	if cacheSize > 0 {
		cache, err := lru.NewARC(cacheSize)
		if err != nil {
			return nil, err
		}
		r.cache = cache
	}
	return r, nil
}

// CacheLen reports how many spelled expansions are currently cached.
func (r *Resolver) CacheLen() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}

// Stats returns resolution counters for the stats endpoint.
func (r *Resolver) Stats() Stats {
	return Stats{
		Word:        r.tiers[TierWord].Load(),
		Number:      r.tiers[TierNumber].Load(),
		Spelled:     r.tiers[TierSpelled].Load(),
		Miss:        r.tiers[TierMiss].Load(),
		CacheHits:   r.cacheHits.Load(),
		CacheMisses: r.cacheMisses.Load(),
		CacheLen:    r.CacheLen(),
	}
}

// ResolveToken resolves one whitespace-delimited token. The returned tier
// reports which mapping produced the URLs; TierMiss means nothing matched
// and the url slice is empty.
func (r *Resolver) ResolveToken(raw string) ([]string, Tier) {
	urls, tier := r.resolve(NormalizeToken(raw))
	r.tiers[tier].Add(1)
	metrics.TokensResolved.WithLabelValues(tier.String()).Inc()
	return urls, tier
}

func (r *Resolver) resolve(token string) ([]string, Tier) {
	if token == "" {
		return nil, TierMiss
	}
	if url, ok := r.store.LookupWord(token); ok {
		return []string{url}, TierWord
	}
	if url, ok := r.store.LookupNumber(token); ok {
		return []string{url}, TierNumber
	}
	if urls := r.spell(token); len(urls) > 0 {
		return urls, TierSpelled
	}
	return nil, TierMiss
}

// spell expands a token character by character against the alphabet mapping.
// Characters with no mapping are skipped. Empty expansions are cached too,
// so repeated unmappable tokens stay cheap.
func (r *Resolver) spell(token string) []string {
	if r.cache != nil {
		if cached, ok := r.cache.Get(token); ok {
			r.cacheHits.Add(1)
			metrics.SpellCacheHits.Inc()
			return cached.([]string)
		}
		r.cacheMisses.Add(1)
		metrics.SpellCacheMisses.Inc()
	}

	var urls []string
	skipped := 0
	for _, ch := range token {
		if url, ok := r.store.LookupChar(ch); ok {
			urls = append(urls, url)
		} else {
			skipped++
		}
	}
	if skipped > 0 {
		r.log.Debug().
			Str("token", token).
			Int("skipped_chars", skipped).
			Msg("characters missing from alphabet mapping")
	}

	if r.cache != nil {
		r.cache.Add(token, urls)
	}
	return urls
}
