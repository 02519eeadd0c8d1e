// Package morph implements the Morphology Store: a persistent,
// prefix-sharded dictionary mapping a surface word form to its ordered
// base forms (lemmas).
package morph

import (
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alistra/boolsearch/boolerr"
	"github.com/alistra/boolsearch/cache"
	"github.com/alistra/boolsearch/codec"
)

var lowerCaser = cases.Lower(language.Polish)

// FoldCase lowercases a surface word the way both the builder and the
// query evaluator normalize it before a morphology lookup, using
// Unicode-correct case folding rather than strings.ToLower alone.
func FoldCase(word string) string {
	return lowerCaser.String(word)
}

// Store is a query-time view over the on-disk morphology shards. It can
// either fault shards in on demand through a cache.WordCache (the batch
// mode used by the query engine), or hold the whole dictionary in memory
// (the build-time mode used by the indexer, which keeps the whole
// dictionary resident for the single construction pass rather than
// faulting it in by shard).
type Store struct {
	dir        string
	prefixLen  int
	compressed bool

	cache cache.WordCache[[]string]
	full  map[string][]string
}

// Open returns a Store that faults shards in on demand via c as query
// batches name the prefixes they need (see LoadPrefix).
func Open(dir string, prefixLen int, compressed bool, c cache.WordCache[[]string]) *Store {
	return &Store{dir: dir, prefixLen: prefixLen, compressed: compressed, cache: c}
}

// OpenFull loads the entire dictionary into memory up front, for use
// during index construction where the whole corpus is normalized against
// it in one pass.
func OpenFull(full map[string][]string) *Store {
	return &Store{full: full}
}

// Prefix returns the shard prefix for a surface form: the first prefixLen
// characters, or the whole form if shorter. Sliced by rune,
// not byte, since Polish diacritics are multi-byte in UTF-8.
func (s *Store) Prefix(surface string) string {
	runes := []rune(surface)
	if len(runes) <= s.prefixLen {
		return surface
	}
	return string(runes[:s.prefixLen])
}

// LoadPrefix decodes the shard for prefix (if present) and feeds it to the
// store's cache, restricted to words. A missing shard is silently treated
// as empty.
func (s *Store) LoadPrefix(prefix string, words map[string]struct{}) error {
	if s.full != nil || len(words) == 0 {
		return nil
	}
	path := filepath.Join(s.dir, prefix)
	shard, err := codec.ReadMorphologyShard(path, s.compressed)
	if err != nil {
		if boolerr.Is(err, boolerr.KindMissingShard) {
			return nil
		}
		return err
	}
	s.cache.LoadShard(prefix, shard, words)
	return nil
}

// Lookup returns the base forms recorded for surface, and whether an
// entry existed at all (as opposed to surface having zero legal bases,
// which the caller distinguishes by consulting the original entry).
func (s *Store) Lookup(surface string) ([]string, bool) {
	if s.full != nil {
		bases, ok := s.full[surface]
		return bases, ok
	}
	return s.cache.Get(surface)
}

// Clear resets the store's cache between query batches.
func (s *Store) Clear() {
	if s.cache != nil {
		s.cache.Clear()
	}
}
