package services

import (
	"context"
	"sort"
	"strings"

	"infinite-experiment/quartermaster/internal/constants"
	"infinite-experiment/quartermaster/internal/db/repositories"
)

// IndexedRecord is the snapshot view of one stored master record used
// during reconciliation.
type IndexedRecord struct {
	ID     string
	Key    string // normalized natural key
	RawKey string
	Fields map[string]string
	Source constants.RecordSource
}

// MasterDataIndex is a read-only snapshot of the active records of one
// kind, keyed by normalized natural key. A fresh index is built for every
// validate/commit run; it is never mutated mid-run and never cached across
// runs, so a correctness-critical comparison can never see stale data.
type MasterDataIndex struct {
	entity   constants.EntityKind
	byKey    map[string]*IndexedRecord
	prefixes map[string][]*IndexedRecord
	keys     []string
}

// Lookup returns the record with the exact normalized key, or nil
func (idx *MasterDataIndex) Lookup(normalizedKey string) *IndexedRecord {
	return idx.byKey[normalizedKey]
}

// Candidates returns the records sharing a key or token prefix with the
// given normalized key, in deterministic order. Bucketing by first-3-rune
// prefixes bounds the number of similarity comparisons per candidate row.
func (idx *MasterDataIndex) Candidates(normalizedKey string) []*IndexedRecord {
	seen := map[string]bool{}
	var out []*IndexedRecord
	for _, bucket := range prefixBuckets(normalizedKey) {
		for _, rec := range idx.prefixes[bucket] {
			if seen[rec.Key] {
				continue
			}
			seen[rec.Key] = true
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len returns the number of indexed records
func (idx *MasterDataIndex) Len() int {
	return len(idx.byKey)
}

// Keys returns every indexed normalized key in sorted order
func (idx *MasterDataIndex) Keys() []string {
	return idx.keys
}

func newIndex(entity constants.EntityKind, records []*IndexedRecord) *MasterDataIndex {
	idx := &MasterDataIndex{
		entity:   entity,
		byKey:    make(map[string]*IndexedRecord, len(records)),
		prefixes: map[string][]*IndexedRecord{},
	}
	for _, rec := range records {
		if rec.Key == "" {
			continue
		}
		idx.byKey[rec.Key] = rec
		for _, bucket := range prefixBuckets(rec.Key) {
			idx.prefixes[bucket] = append(idx.prefixes[bucket], rec)
		}
	}
	idx.keys = make([]string, 0, len(idx.byKey))
	for k := range idx.byKey {
		idx.keys = append(idx.keys, k)
	}
	sort.Strings(idx.keys)
	return idx
}

// prefixBuckets returns the bucket ids a key belongs to: the first 3 runes
// of the whole key plus of each token.
func prefixBuckets(key string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		runes := []rune(s)
		if len(runes) > 3 {
			runes = runes[:3]
		}
		b := string(runes)
		if b != "" && !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	add(key)
	for _, token := range strings.Fields(key) {
		add(token)
	}
	return out
}

// MasterDataIndexBuilder builds per-run snapshots from the live tables.
type MasterDataIndexBuilder struct {
	aircraftRepo *repositories.AircraftRepository
	customerRepo *repositories.CustomerRepository
}

func NewMasterDataIndexBuilder(aircraftRepo *repositories.AircraftRepository, customerRepo *repositories.CustomerRepository) *MasterDataIndexBuilder {
	return &MasterDataIndexBuilder{
		aircraftRepo: aircraftRepo,
		customerRepo: customerRepo,
	}
}

// Build creates the snapshot for one entity kind
func (b *MasterDataIndexBuilder) Build(ctx context.Context, entity constants.EntityKind) (*MasterDataIndex, error) {
	switch entity {
	case constants.EntityCustomers:
		return b.buildCustomers(ctx)
	default:
		return b.buildAircraft(ctx)
	}
}

func (b *MasterDataIndexBuilder) buildAircraft(ctx context.Context) (*MasterDataIndex, error) {
	rows, err := b.aircraftRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*IndexedRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &IndexedRecord{
			ID:     row.ID,
			Key:    NormalizeKey(row.Registration),
			RawKey: row.Registration,
			Source: row.Source,
			Fields: map[string]string{
				FieldRawType:    strings.TrimSpace(row.RawType),
				"canonicalType": row.CanonicalType,
				FieldOperator:   NormalizeKey(row.OperatorName),
			},
		})
	}
	return newIndex(constants.EntityAircraft, records), nil
}

func (b *MasterDataIndexBuilder) buildCustomers(ctx context.Context) (*MasterDataIndex, error) {
	rows, err := b.customerRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*IndexedRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &IndexedRecord{
			ID:     row.ID,
			Key:    NormalizeKey(row.Name),
			RawKey: row.Name,
			Source: row.Source,
			Fields: map[string]string{
				FieldDisplayName: strings.TrimSpace(row.DisplayName),
				FieldColor:       strings.ToLower(strings.TrimSpace(row.Color)),
			},
		})
	}
	return newIndex(constants.EntityCustomers, records), nil
}
