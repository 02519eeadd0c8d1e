package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pbnjay/memory"
)

// Default prefix-LRU capacities (20 index shards, 90 morphology shards),
// used when the caller doesn't want memory-aware sizing.
const (
	DefaultIndexCapacity = 20
	DefaultMorphCapacity = 90
)

// lowMemoryThreshold is the point below which we shrink the default
// capacities, tuning them off github.com/pbnjay/memory.TotalMemory() rather
// than hardcoding a single constant regardless of host size.
const lowMemoryThreshold = 512 * 1024 * 1024 // 512MiB

// SizedIndexCapacity returns DefaultIndexCapacity, halved on a
// memory-constrained host.
func SizedIndexCapacity() int {
	return sizedCapacity(DefaultIndexCapacity)
}

// SizedMorphCapacity returns DefaultMorphCapacity, halved on a
// memory-constrained host.
func SizedMorphCapacity() int {
	return sizedCapacity(DefaultMorphCapacity)
}

func sizedCapacity(def int) int {
	total := memory.TotalMemory()
	if total != 0 && total < lowMemoryThreshold {
		half := def / 2
		if half < 1 {
			half = 1
		}
		return half
	}
	return def
}

// PrefixLRU is the bounded least-recently-used cache policy: it holds at
// most `capacity` decoded shards, keyed by the shard's prefix, evicting the
// least-recently-used prefix when capacity is exceeded.
type PrefixLRU[V any] struct {
	shards *lru.Cache[string, map[string]V]
	prefix int
}

// NewPrefixLRU builds a prefix-keyed LRU cache with the given capacity and
// prefix length (used to derive a word's shard key in Get).
func NewPrefixLRU[V any](capacity, prefixLen int) *PrefixLRU[V] {
	if capacity < 1 {
		capacity = 1
	}
	c, _ := lru.New[string, map[string]V](capacity)
	return &PrefixLRU[V]{shards: c, prefix: prefixLen}
}

// LoadShard installs (or replaces) the decoded shard for prefix. words is
// ignored: a prefix-LRU cache always retains the whole shard, evicting
// other prefixes instead of individual words.
func (c *PrefixLRU[V]) LoadShard(prefix string, shard map[string]V, _ map[string]struct{}) {
	c.shards.Add(prefix, shard)
}

// Get looks up word's shard by its prefix, then the word within it. The
// prefix is the first c.prefix characters, sliced by rune rather than byte
// since Polish diacritics are multi-byte in UTF-8.
func (c *PrefixLRU[V]) Get(word string) (V, bool) {
	var zero V
	prefix := word
	if runes := []rune(word); len(runes) > c.prefix {
		prefix = string(runes[:c.prefix])
	}
	shard, ok := c.shards.Get(prefix)
	if !ok {
		return zero, false
	}
	v, ok := shard[word]
	return v, ok
}

// Clear is a no-op: capacity already bounds a prefix-LRU cache, and this
// policy doesn't require a batch-boundary reset the way the batch cache
// does.
func (c *PrefixLRU[V]) Clear() {}
