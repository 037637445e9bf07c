package services

import (
	"os"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultNearDuplicateThreshold is the score at or above which a non-exact
// match is treated as a near-duplicate of an existing record. Tunable, not
// an invariant; deployments override it via FUZZY_NEAR_DUP_THRESHOLD.
const DefaultNearDuplicateThreshold = 0.82

type MatchClass int

const (
	MatchNone MatchClass = iota
	MatchExact
	MatchNearDuplicate
)

func (c MatchClass) String() string {
	switch c {
	case MatchExact:
		return "exact"
	case MatchNearDuplicate:
		return "near-duplicate"
	default:
		return "none"
	}
}

// MatchResult pairs a candidate key with its best-scoring existing record.
type MatchResult struct {
	Class  MatchClass
	Record *IndexedRecord
	Score  float64
}

// MatcherConfig carries the tunables of the fuzzy matcher.
type MatcherConfig struct {
	NearDuplicateThreshold float64
}

// MatcherConfigFromEnv reads the threshold override, falling back to the
// default for absent or unparseable values.
func MatcherConfigFromEnv() MatcherConfig {
	cfg := MatcherConfig{NearDuplicateThreshold: DefaultNearDuplicateThreshold}
	if raw := os.Getenv("FUZZY_NEAR_DUP_THRESHOLD"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 && v <= 1 {
			cfg.NearDuplicateThreshold = v
		}
	}
	return cfg
}

// FuzzyMatcher scores candidate natural keys against an index snapshot. All
// scoring is deterministic: no randomness, no locale-dependent collation,
// ties broken by key order.
type FuzzyMatcher struct {
	cfg MatcherConfig
}

func NewFuzzyMatcher(cfg MatcherConfig) *FuzzyMatcher {
	return &FuzzyMatcher{cfg: cfg}
}

// BestMatch returns the best-scoring existing record for a raw natural key.
// Exact equality after normalization always scores 1.0 and classifies as
// MatchExact, regardless of threshold tuning.
func (m *FuzzyMatcher) BestMatch(rawKey string, idx *MasterDataIndex) MatchResult {
	key := NormalizeKey(rawKey)
	if key == "" {
		return MatchResult{Class: MatchNone}
	}

	if rec := idx.Lookup(key); rec != nil {
		return MatchResult{Class: MatchExact, Record: rec, Score: 1.0}
	}

	best := MatchResult{Class: MatchNone}
	for _, rec := range idx.Candidates(key) {
		score := Similarity(key, rec.Key)
		if score > best.Score || (score == best.Score && best.Record != nil && rec.Key < best.Record.Key) {
			best.Record = rec
			best.Score = score
		}
	}

	if best.Record != nil && best.Score >= m.cfg.NearDuplicateThreshold {
		best.Class = MatchNearDuplicate
		return best
	}
	return MatchResult{Class: MatchNone, Record: best.Record, Score: best.Score}
}

// Similarity blends normalized Levenshtein distance with token-set overlap
// on two already-normalized keys. Single-token keys (registrations) score on
// edit distance alone: token overlap would sink every near-miss to zero.
// Result is in [0,1]; 1.0 iff equal.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dist := fuzzy.LevenshteinDistance(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	editRatio := 1.0 - float64(dist)/float64(maxLen)
	if editRatio < 0 {
		editRatio = 0
	}

	if len(strings.Fields(a)) < 2 || len(strings.Fields(b)) < 2 {
		return editRatio
	}
	return 0.6*editRatio + 0.4*tokenOverlap(a, b)
}

// tokenOverlap is the Jaccard index of the two keys' token sets.
func tokenOverlap(a, b string) float64 {
	setA := map[string]bool{}
	for _, t := range strings.Fields(a) {
		setA[t] = true
	}
	setB := map[string]bool{}
	for _, t := range strings.Fields(b) {
		setB[t] = true
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}
