// Package lexindex implements the Index Store: the on-disk prefix-sharded
// inverted index (positional and non-positional companion shards) plus the
// document title table.
package lexindex

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alistra/boolsearch/boolerr"
	"github.com/alistra/boolsearch/cache"
	"github.com/alistra/boolsearch/codec"
)

const (
	titlesFile          = "TITLES"
	compressedFile      = "COMPRESSED"
	prefixLenFile       = "PREFIX_LENGTH"
	morphDir            = "morfologik"
	nonPositionalSuffix = ".nopos"
)

// Store is the query-time view over an index directory
// laid out as follows:
//
//	TITLES               ordered title sequence
//	COMPRESSED           marker file, present iff the index is gzip+gap coded
//	PREFIX_LENGTH        text file holding the shard prefix length
//	<prefix>             positional postings for words sharing prefix
//	<prefix>.nopos       the non-positional companion shard
//	morfologik/<prefix>  morphology shard
type Store struct {
	Dir        string
	Compressed bool
	PrefixLen  int
	Titles     []string

	positional    cache.WordCache[codec.Posting]
	nonPositional cache.WordCache[codec.NonPositional]
}

// Open reads an index directory's side files and title table, wiring the
// given cache policies for the two posting shard families.
func Open(dir string, positional cache.WordCache[codec.Posting], nonPositional cache.WordCache[codec.NonPositional]) (*Store, error) {
	compressed := codec.Exists(filepath.Join(dir, compressedFile))

	prefixLen, err := readPrefixLength(filepath.Join(dir, prefixLenFile))
	if err != nil {
		return nil, err
	}

	titles, err := codec.ReadTitles(filepath.Join(dir, titlesFile), compressed)
	if err != nil {
		// Unlike posting shards, TITLES is mandatory: a missing file is an
		// I/O failure here, while a corrupt one keeps its CodecError kind.
		if boolerr.Is(err, boolerr.KindMissingShard) {
			return nil, boolerr.Wrap(boolerr.KindIOError, err, "read titles")
		}
		return nil, err
	}

	return &Store{
		Dir:           dir,
		Compressed:    compressed,
		PrefixLen:     prefixLen,
		Titles:        titles,
		positional:    positional,
		nonPositional: nonPositional,
	}, nil
}

func readPrefixLength(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, boolerr.Wrap(boolerr.KindIOError, err, "read prefix length")
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, boolerr.Wrap(boolerr.KindIOError, err, "parse prefix length")
	}
	return n, nil
}

// Prefix returns the shard prefix for a base form: the first PrefixLen
// characters, or the whole form if shorter. Sliced by rune, not byte,
// since Polish diacritics are multi-byte in UTF-8.
func (s *Store) Prefix(baseForm string) string {
	runes := []rune(baseForm)
	if len(runes) <= s.PrefixLen {
		return baseForm
	}
	return string(runes[:s.PrefixLen])
}

// LoadPositionalPrefix decodes and caches the positional shard for prefix,
// restricted to words. A missing shard is treated as empty.
func (s *Store) LoadPositionalPrefix(prefix string, words map[string]struct{}) error {
	if len(words) == 0 {
		return nil
	}
	path := filepath.Join(s.Dir, prefix)
	shard, err := codec.ReadPositionalShard(path, s.Compressed)
	if err != nil {
		if boolerr.Is(err, boolerr.KindMissingShard) {
			return nil
		}
		return err
	}
	s.positional.LoadShard(prefix, shard, words)
	return nil
}

// LoadNonPositionalPrefix decodes and caches the non-positional companion
// shard for prefix, restricted to words.
func (s *Store) LoadNonPositionalPrefix(prefix string, words map[string]struct{}) error {
	if len(words) == 0 {
		return nil
	}
	path := filepath.Join(s.Dir, prefix+nonPositionalSuffix)
	shard, err := codec.ReadNonPositionalShard(path, s.Compressed)
	if err != nil {
		if boolerr.Is(err, boolerr.KindMissingShard) {
			return nil
		}
		return err
	}
	s.nonPositional.LoadShard(prefix, shard, words)
	return nil
}

// GetPositional returns the cached positional posting for a base form.
func (s *Store) GetPositional(baseForm string) (codec.Posting, bool) {
	return s.positional.Get(baseForm)
}

// GetNonPositional returns the cached non-positional posting for a base
// form.
func (s *Store) GetNonPositional(baseForm string) (codec.NonPositional, bool) {
	return s.nonPositional.Get(baseForm)
}

// Title returns the document title for the 1-based docID, or an
// OutOfRange error if docID falls outside the loaded title table.
// Document ids are 1-based throughout the index, matching the order
// titles were appended during the build.
func (s *Store) Title(docID int32) (string, error) {
	if docID < 1 || int(docID) > len(s.Titles) {
		return "", boolerr.New(boolerr.KindOutOfRange, "document id %d out of range [1,%d]", docID, len(s.Titles))
	}
	return s.Titles[docID-1], nil
}

// DocumentCount returns the number of documents recorded in the title table.
func (s *Store) DocumentCount() int {
	return len(s.Titles)
}

// Clear resets both posting caches between query batches.
func (s *Store) Clear() {
	s.positional.Clear()
	s.nonPositional.Clear()
}

// MorphologyDir returns the directory holding the morphology shards
// associated with this index.
func (s *Store) MorphologyDir() string {
	return filepath.Join(s.Dir, morphDir)
}
