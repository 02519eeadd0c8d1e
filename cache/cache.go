// Package cache implements the Cache Layer: in-memory maps from word to
// decoded posting, populated as query batches fault in the shards they
// need. Two interchangeable policies are provided:
//
//   - BatchCache: a plain map cleared at batch boundaries.
//   - PrefixLRU: a bounded least-recently-used cache keyed by shard
//     prefix, evicting whole shards.
//
// Both satisfy WordCache[V], so callers (morph.Store, lexindex.Store) are
// agnostic to which policy backs a given store.
package cache

// WordCache is the single contract the evaluators rely on: Get returns the
// decoded value if cached, otherwise ok is false and it is treated as an
// empty posting.
type WordCache[V any] interface {
	// LoadShard makes a freshly-decoded shard's entries available through
	// Get. words, when non-nil, restricts what a batch-scoped cache
	// retains; a prefix-LRU cache ignores it and keeps the whole shard.
	LoadShard(prefix string, shard map[string]V, words map[string]struct{})
	Get(word string) (V, bool)
	// Clear resets the cache. A batch-scoped cache empties itself; a
	// prefix-LRU cache is a no-op (capacity bounds it already).
	Clear()
}

// BatchCache is a plain map populated by LoadShard and emptied by Clear at
// the end of each query batch.
type BatchCache[V any] struct {
	data map[string]V
}

// NewBatchCache returns an empty batch-scoped cache.
func NewBatchCache[V any]() *BatchCache[V] {
	return &BatchCache[V]{data: make(map[string]V)}
}

// LoadShard copies the intersection of shard's keys and words into the
// cache. If words is nil, the whole shard is retained.
func (c *BatchCache[V]) LoadShard(_ string, shard map[string]V, words map[string]struct{}) {
	if words == nil {
		for k, v := range shard {
			c.data[k] = v
		}
		return
	}
	for w := range words {
		if v, ok := shard[w]; ok {
			c.data[w] = v
		}
	}
}

// Get returns the cached value for word, if any.
func (c *BatchCache[V]) Get(word string) (V, bool) {
	v, ok := c.data[word]
	return v, ok
}

// Clear empties the cache, ready for the next batch.
func (c *BatchCache[V]) Clear() {
	c.data = make(map[string]V)
}
