// Package cache stores BM25 rankings in Redis so repeated runs over the
// same index and topics skip scoring.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/redis"
)

const keyPrefix = "bm25:"

// Store is the byte-level key/value API; *pkgredis.Client implements it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key identifies a ranking. Fingerprint pins the index file, so entries
// never need invalidating: a rebuilt index gets new keys.
type Key struct {
	Fingerprint string
	Params      ranker.Params
	Tokens      []string
	Limit       int
}

type RankingCache struct {
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(store Store, ttl time.Duration, m *metrics.Metrics) *RankingCache {
	if m == nil {
		m = metrics.New()
	}
	return &RankingCache{
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "ranking-cache"),
	}
}

// Get returns a cached ranking. Store errors other than a miss are logged
// and treated as a miss.
func (c *RankingCache) Get(ctx context.Context, key Key) ([]ranker.ScoredDoc, bool) {
	k := buildKey(key)
	data, err := c.store.Get(ctx, k)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", k, "error", err)
		}
		c.miss()
		return nil, false
	}
	var docs []ranker.ScoredDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		c.logger.Error("cache unmarshal failed", "key", k, "error", err)
		c.miss()
		return nil, false
	}
	c.hits.Add(1)
	c.metrics.RankingCacheHits.Inc()
	c.logger.Debug("cache hit", "key", k, "results", len(docs))
	return docs, true
}

func (c *RankingCache) Set(ctx context.Context, key Key, docs []ranker.ScoredDoc) {
	k := buildKey(key)
	data, err := json.Marshal(docs)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", k, "error", err)
		return
	}
	if err := c.store.Set(ctx, k, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", k, "error", err)
	}
}

// GetOrCompute returns the cached ranking for key or computes and stores
// it. The bool reports a cache hit.
func (c *RankingCache) GetOrCompute(
	ctx context.Context,
	key Key,
	computeFn func() ([]ranker.ScoredDoc, error),
) ([]ranker.ScoredDoc, bool, error) {
	if docs, ok := c.Get(ctx, key); ok {
		return docs, true, nil
	}
	val, err, _ := c.group.Do(buildKey(key), func() (interface{}, error) {
		docs, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, key, docs)
		return docs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]ranker.ScoredDoc), false, nil
}

func (c *RankingCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *RankingCache) miss() {
	c.misses.Add(1)
	c.metrics.RankingCacheMisses.Inc()
}

// buildKey hashes the ranking inputs. Token order does not affect BM25
// scores, so tokens are sorted first.
func buildKey(key Key) string {
	tokens := append([]string(nil), key.Tokens...)
	sort.Strings(tokens)
	raw := fmt.Sprintf("%s|k1=%g|b=%g|k2=%g|limit=%d|%s",
		key.Fingerprint, key.Params.K1, key.Params.B, key.Params.K2, key.Limit,
		strings.Join(tokens, "\x1f"))
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
