package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"infinite-experiment/quartermaster/internal/common"
	"infinite-experiment/quartermaster/internal/constants"
	"infinite-experiment/quartermaster/internal/db/repositories"
	"infinite-experiment/quartermaster/internal/metrics"
	gormModels "infinite-experiment/quartermaster/internal/models/gorm"

	"golang.org/x/sync/singleflight"
)

const typeNormTTL = 24 * time.Hour

// NormalizeResult is the outcome of one raw type lookup. When no active
// pattern matches, Canonical carries the normalized raw string unchanged and
// UsedFallback is set so callers can surface the row as unmapped.
type NormalizeResult struct {
	Canonical      string
	MatchedPattern string
	UsedFallback   bool
}

// TypeNormalizer maps free-text equipment type strings onto canonical fleet
// type codes via the ordered mapping table.
//
// Two layers of process-wide state: the loaded mapping set (invalidated as a
// whole unit, never incrementally) and a per-raw-string memo in the shared
// cache. InvalidateCache drops both; once it returns, no later Normalize
// call can observe the pre-invalidation table.
type TypeNormalizer struct {
	repo    *repositories.TypeMappingRepository
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry

	group singleflight.Group

	mu         sync.RWMutex
	mappings   []gormModels.AircraftTypeMapping
	loaded     bool
	generation uint64
}

func NewTypeNormalizer(repo *repositories.TypeMappingRepository, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) *TypeNormalizer {
	return &TypeNormalizer{
		repo:    repo,
		cache:   cache,
		metrics: metricsReg,
	}
}

// Normalize resolves a raw type string to its canonical code. The raw string
// is trimmed and case-folded before lookup, so "B737-800 wl" and
// " b737-800 WL " resolve identically.
func (n *TypeNormalizer) Normalize(ctx context.Context, raw string) (NormalizeResult, error) {
	normalized := NormalizeKey(raw)
	if normalized == "" {
		return NormalizeResult{Canonical: "", UsedFallback: true}, nil
	}

	cacheKey := string(constants.CachePrefixTypeNorm) + normalized
	if val, found := n.cache.Get(cacheKey); found {
		if res, ok := val.(NormalizeResult); ok {
			n.countCache(true)
			return res, nil
		}
	}
	n.countCache(false)

	mappings, gen, err := n.loadMappings(ctx)
	if err != nil {
		return NormalizeResult{}, err
	}

	res := NormalizeResult{Canonical: normalized, UsedFallback: true}
	for _, m := range mappings {
		if matchPattern(m.Pattern, normalized) {
			res = NormalizeResult{
				Canonical:      m.CanonicalType,
				MatchedPattern: m.Pattern,
			}
			break
		}
	}

	// Memoize only if no invalidation happened since the mapping set was
	// read, otherwise a stale pair could outlive InvalidateCache.
	n.mu.RLock()
	if n.generation == gen {
		n.cache.Set(cacheKey, res, typeNormTTL)
	}
	n.mu.RUnlock()

	return res, nil
}

// InvalidateCache drops the loaded mapping set and every memoized lookup as
// one unit. Administrative mutations to the mapping table must call this
// before the change is considered applied.
func (n *TypeNormalizer) InvalidateCache() {
	n.mu.Lock()
	n.loaded = false
	n.mappings = nil
	n.generation++
	n.mu.Unlock()

	n.cache.Flush()
}

// loadMappings returns the active mapping set in evaluation order along with
// the generation it belongs to. Concurrent cold-cache callers share one
// repository query; the singleflight key carries the generation so a caller
// arriving after an invalidation never joins a pre-invalidation load.
func (n *TypeNormalizer) loadMappings(ctx context.Context) ([]gormModels.AircraftTypeMapping, uint64, error) {
	n.mu.RLock()
	if n.loaded {
		m, g := n.mappings, n.generation
		n.mu.RUnlock()
		return m, g, nil
	}
	gen := n.generation
	n.mu.RUnlock()

	key := fmt.Sprintf("type_mappings_g%d", gen)
	v, err, _ := n.group.Do(key, func() (interface{}, error) {
		rows, err := n.repo.GetAllActive(ctx)
		if err != nil {
			return nil, err
		}

		n.mu.Lock()
		if n.generation == gen {
			n.mappings = rows
			n.loaded = true
		}
		n.mu.Unlock()

		return rows, nil
	})
	if err != nil {
		return nil, gen, fmt.Errorf("failed to load type mappings: %w", err)
	}

	return v.([]gormModels.AircraftTypeMapping), gen, nil
}

func (n *TypeNormalizer) countCache(hit bool) {
	if n.metrics == nil {
		return
	}
	if hit {
		n.metrics.CacheHitsTotal.WithLabelValues(string(constants.CachePrefixTypeNorm)).Inc()
	} else {
		n.metrics.CacheMissesTotal.WithLabelValues(string(constants.CachePrefixTypeNorm)).Inc()
	}
}

// matchPattern evaluates one mapping pattern against a normalized raw
// string. Plain patterns match as case-insensitive substrings; '*' acts as a
// wildcard run, anchoring the match at either end when absent there.
func matchPattern(pattern, value string) bool {
	p := NormalizeKey(pattern)
	if p == "" {
		return false
	}

	if !strings.Contains(p, "*") {
		return strings.Contains(value, p)
	}

	parts := strings.Split(p, "*")

	if first := parts[0]; first != "" {
		if !strings.HasPrefix(value, first) {
			return false
		}
		value = value[len(first):]
	}
	parts = parts[1:]

	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == len(parts)-1 {
			return strings.HasSuffix(value, part)
		}
		idx := strings.Index(value, part)
		if idx < 0 {
			return false
		}
		value = value[idx+len(part):]
	}
	return true
}
