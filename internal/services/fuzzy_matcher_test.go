package services

import (
	"testing"

	"infinite-experiment/quartermaster/internal/constants"
)

func indexFromKeys(keys ...string) *MasterDataIndex {
	records := make([]*IndexedRecord, 0, len(keys))
	for _, k := range keys {
		records = append(records, &IndexedRecord{
			ID:     k,
			Key:    NormalizeKey(k),
			RawKey: k,
			Fields: map[string]string{},
		})
	}
	return newIndex(constants.EntityAircraft, records)
}

func TestFuzzyMatcher_ExactMatchAlwaysExact(t *testing.T) {
	matcher := NewFuzzyMatcher(MatcherConfig{NearDuplicateThreshold: 0.5})
	idx := indexFromKeys("N12345")

	// Case and whitespace variants are still exact, never fuzzy, no matter
	// how aggressive the threshold is.
	for _, key := range []string{"N12345", "n12345", "  N12345  "} {
		res := matcher.BestMatch(key, idx)
		if res.Class != MatchExact {
			t.Errorf("Key %q: expected exact match, got %s", key, res.Class)
		}
		if res.Score != 1.0 {
			t.Errorf("Key %q: expected score 1.0, got %f", key, res.Score)
		}
	}
}

func TestFuzzyMatcher_TypoIsNearDuplicate(t *testing.T) {
	matcher := NewFuzzyMatcher(MatcherConfig{NearDuplicateThreshold: DefaultNearDuplicateThreshold})
	idx := indexFromKeys("N12345")

	res := matcher.BestMatch("N12346", idx)
	if res.Class != MatchNearDuplicate {
		t.Fatalf("Expected near-duplicate for a one-character typo, got %s (score %f)", res.Class, res.Score)
	}
	if res.Record == nil || res.Record.RawKey != "N12345" {
		t.Error("Expected the typo to pair with the existing registration")
	}
}

func TestFuzzyMatcher_UnrelatedKeyIsNovel(t *testing.T) {
	matcher := NewFuzzyMatcher(MatcherConfig{NearDuplicateThreshold: DefaultNearDuplicateThreshold})
	idx := indexFromKeys("N12345", "G-ABCD")

	res := matcher.BestMatch("ZK-NZE", idx)
	if res.Class != MatchNone {
		t.Errorf("Expected novel classification, got %s (score %f)", res.Class, res.Score)
	}
}

func TestFuzzyMatcher_Deterministic(t *testing.T) {
	matcher := NewFuzzyMatcher(MatcherConfig{NearDuplicateThreshold: DefaultNearDuplicateThreshold})
	idx := indexFromKeys("Air Canada", "Air Caraibes", "AirCo")

	first := matcher.BestMatch("Air Canda", idx)
	for i := 0; i < 10; i++ {
		again := matcher.BestMatch("Air Canda", idx)
		if again.Class != first.Class || again.Score != first.Score || again.Record.Key != first.Record.Key {
			t.Fatalf("Non-deterministic match: run %d got %+v, first was %+v", i, again, first)
		}
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"n12345", "n12345"},
		{"n12345", "n12346"},
		{"air canada", "air caraibes"},
		{"a", "completely different airline name"},
		{"", "x"},
	}

	for _, c := range cases {
		score := Similarity(c.a, c.b)
		if score < 0 || score > 1 {
			t.Errorf("Similarity(%q, %q) = %f out of [0,1]", c.a, c.b, score)
		}
		if c.a == c.b && score != 1.0 {
			t.Errorf("Similarity(%q, %q) = %f, equal strings must score 1.0", c.a, c.b, score)
		}
		if c.a != c.b && score == 1.0 {
			t.Errorf("Similarity(%q, %q) = 1.0 for unequal strings", c.a, c.b)
		}
	}
}

func TestSimilarity_MultiTokenBlend(t *testing.T) {
	// Shared tokens lift multi-token keys above pure edit distance.
	withOverlap := Similarity("blue jet cargo", "blue jet charter")
	withoutOverlap := Similarity("blue jet cargo", "red star charter")

	if withOverlap <= withoutOverlap {
		t.Errorf("Expected token overlap to raise the score: %f <= %f", withOverlap, withoutOverlap)
	}
}
