package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alistra/boolsearch/cache"
	"github.com/alistra/boolsearch/codec"
	"github.com/alistra/boolsearch/lexindex"
	"github.com/alistra/boolsearch/morph"
	"github.com/alistra/boolsearch/query"
)

// buildTestIndex lays out a small fixed corpus: foo/bar/baz/alone postings
// over ten documents, with no morphology entries (every surface word
// normalizes to itself).
func buildTestIndex(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	titles := []string{
		"Apple", "Banana", "Cherry", "Date", "Elderberry",
		"Fig", "Grape", "Honeydew", "Indian Fig", "Jackfruit",
	}
	require.NoError(t, codec.WriteTitles(filepath.Join(dir, "TITLES"), titles, false))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PREFIX_LENGTH"), []byte("3"), 0o644))

	positional := func(docs ...int32) codec.Posting {
		p := make(codec.Posting, len(docs))
		for i, d := range docs {
			p[i] = codec.DocPositions{DocID: d, Positions: []int32{1}}
		}
		return p
	}

	words := map[string]codec.Posting{
		"foo":   positional(1, 2, 3, 4, 5),
		"bar":   positional(2, 3, 7, 8, 9),
		"baz":   positional(1, 2, 7),
		"alone": positional(6, 10),
	}

	byPrefix := make(map[string]map[string]codec.Posting)
	for word, posting := range words {
		prefix := word
		if len(prefix) > 3 {
			prefix = prefix[:3]
		}
		if byPrefix[prefix] == nil {
			byPrefix[prefix] = make(map[string]codec.Posting)
		}
		byPrefix[prefix][word] = posting
	}

	for prefix, shard := range byPrefix {
		require.NoError(t, codec.WritePositionalShard(filepath.Join(dir, prefix), shard, false))
		nopos := make(map[string]codec.NonPositional, len(shard))
		for word, posting := range shard {
			nopos[word] = posting.DocIDs()
		}
		require.NoError(t, codec.WriteNonPositionalShard(filepath.Join(dir, prefix+".nopos"), nopos, false))
	}

	return dir
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := buildTestIndex(t)

	idx, err := lexindex.Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.NoError(t, err)

	m := morph.Open(idx.MorphologyDir(), idx.PrefixLen, idx.Compressed, cache.NewBatchCache[[]string]())
	return New(m, idx)
}

func searchOne(t *testing.T, e *Engine, raw string) []string {
	t.Helper()
	q, err := query.Parse(raw)
	require.NoError(t, err)
	results, err := e.Search([]*query.Query{q})
	require.NoError(t, err)
	require.Len(t, results, 1)
	return results[0].Titles
}

func TestSearchSingleTerm(t *testing.T) {
	e := newTestEngine(t)
	titles := searchOne(t, e, "foo")
	require.Equal(t, []string{"Apple", "Banana", "Cherry", "Date", "Elderberry"}, titles)
}

func TestSearchNegation(t *testing.T) {
	e := newTestEngine(t)
	titles := searchOne(t, e, "~foo")
	require.Equal(t, []string{"Fig", "Grape", "Honeydew", "Indian Fig", "Jackfruit"}, titles)
}

func TestSearchPlainAnd(t *testing.T) {
	e := newTestEngine(t)
	titles := searchOne(t, e, "foo bar baz")
	require.Equal(t, []string{"Banana"}, titles)
}

func TestSearchPlainOr(t *testing.T) {
	e := newTestEngine(t)
	titles := searchOne(t, e, "foo|alone")
	require.Equal(t, []string{"Apple", "Banana", "Cherry", "Date", "Elderberry", "Fig", "Jackfruit"}, titles)
}

func TestSearchEmptyIntersection(t *testing.T) {
	e := newTestEngine(t)
	titles := searchOne(t, e, "bar|~baz foo|baz alone")
	require.Empty(t, titles)
}

func TestSearchBatchClearsCacheBetweenCalls(t *testing.T) {
	e := newTestEngine(t)
	first := searchOne(t, e, "foo")
	require.NotEmpty(t, first)

	// A second, unrelated batch must not see stale cached postings or an
	// empty title table left over from the first call's cleanup.
	second := searchOne(t, e, "alone")
	require.Equal(t, []string{"Fig", "Jackfruit"}, second)
}

// TestSearchPhrase exercises adjacency over a two-document corpus,
// `##TITLE## X\nthe quick brown fox\n##TITLE## Y\nquick fox`:
// "quick fox" matches only Y (adjacent there); "quick brown fox" matches
// only X.
func TestSearchPhrase(t *testing.T) {
	dir := t.TempDir()
	titles := []string{"X", "Y"}
	require.NoError(t, codec.WriteTitles(filepath.Join(dir, "TITLES"), titles, false))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PREFIX_LENGTH"), []byte("3"), 0o644))

	// X: the(1) quick(2) brown(3) fox(4)
	// Y: quick(1) fox(2)
	quick := codec.Posting{{DocID: 1, Positions: []int32{2}}, {DocID: 2, Positions: []int32{1}}}
	brown := codec.Posting{{DocID: 1, Positions: []int32{3}}}
	fox := codec.Posting{{DocID: 1, Positions: []int32{4}}, {DocID: 2, Positions: []int32{2}}}

	require.NoError(t, codec.WritePositionalShard(filepath.Join(dir, "qui"), map[string]codec.Posting{"quick": quick}, false))
	require.NoError(t, codec.WritePositionalShard(filepath.Join(dir, "bro"), map[string]codec.Posting{"brown": brown}, false))
	require.NoError(t, codec.WritePositionalShard(filepath.Join(dir, "fox"), map[string]codec.Posting{"fox": fox}, false))
	require.NoError(t, codec.WriteNonPositionalShard(filepath.Join(dir, "qui.nopos"), map[string]codec.NonPositional{"quick": quick.DocIDs()}, false))
	require.NoError(t, codec.WriteNonPositionalShard(filepath.Join(dir, "bro.nopos"), map[string]codec.NonPositional{"brown": brown.DocIDs()}, false))
	require.NoError(t, codec.WriteNonPositionalShard(filepath.Join(dir, "fox.nopos"), map[string]codec.NonPositional{"fox": fox.DocIDs()}, false))

	idx, err := lexindex.Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.NoError(t, err)
	m := morph.Open(idx.MorphologyDir(), idx.PrefixLen, idx.Compressed, cache.NewBatchCache[[]string]())
	e := New(m, idx)

	require.Equal(t, []string{"Y"}, searchOne(t, e, `"quick fox"`))
	require.Equal(t, []string{"X"}, searchOne(t, e, `"quick brown fox"`))
}

// TestSearchNormalizesThroughMorphology verifies the normalisation chain:
// an inflected surface word resolves through its morphology shard to base
// forms, and the term's result is the union of every base's posting.
func TestSearchNormalizesThroughMorphology(t *testing.T) {
	dir := t.TempDir()
	titles := []string{"X", "Y", "Z"}
	require.NoError(t, codec.WriteTitles(filepath.Join(dir, "TITLES"), titles, false))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PREFIX_LENGTH"), []byte("3"), 0o644))

	// "zamkowi" lemmatizes to both "zamek" and "zamkowy"; the term's docs
	// are the union of the two bases' postings.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "morfologik"), 0o755))
	require.NoError(t, codec.WriteMorphologyShard(
		filepath.Join(dir, "morfologik", "zam"),
		map[string][]string{"zamkowi": {"zamek", "zamkowy"}}, false))

	zamek := codec.Posting{{DocID: 1, Positions: []int32{1}}}
	zamkowy := codec.Posting{{DocID: 3, Positions: []int32{2}}}
	shard := map[string]codec.Posting{"zamek": zamek, "zamkowy": zamkowy}
	require.NoError(t, codec.WritePositionalShard(filepath.Join(dir, "zam"), shard, false))
	require.NoError(t, codec.WriteNonPositionalShard(filepath.Join(dir, "zam.nopos"),
		map[string]codec.NonPositional{"zamek": zamek.DocIDs(), "zamkowy": zamkowy.DocIDs()}, false))

	idx, err := lexindex.Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.NoError(t, err)
	m := morph.Open(idx.MorphologyDir(), idx.PrefixLen, idx.Compressed, cache.NewBatchCache[[]string]())
	e := New(m, idx)

	require.Equal(t, []string{"X", "Z"}, searchOne(t, e, "zamkowi"))
}

// TestSearchStemmed verifies that against an index whose base forms were
// stemmed at build time, query terms are reduced through the same stemmer
// before lookup, or every posting would be missed.
func TestSearchStemmed(t *testing.T) {
	dir := t.TempDir()
	titles := []string{"X"}
	require.NoError(t, codec.WriteTitles(filepath.Join(dir, "TITLES"), titles, false))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PREFIX_LENGTH"), []byte("3"), 0o644))

	// A stemmed build indexes "running" under its stem "run".
	run := codec.Posting{{DocID: 1, Positions: []int32{1}}}
	require.NoError(t, codec.WritePositionalShard(filepath.Join(dir, "run"), map[string]codec.Posting{"run": run}, false))
	require.NoError(t, codec.WriteNonPositionalShard(filepath.Join(dir, "run.nopos"), map[string]codec.NonPositional{"run": run.DocIDs()}, false))

	idx, err := lexindex.Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.NoError(t, err)
	m := morph.Open(idx.MorphologyDir(), idx.PrefixLen, idx.Compressed, cache.NewBatchCache[[]string]())
	e := New(m, idx)
	e.Stemmed = true

	require.Equal(t, []string{"X"}, searchOne(t, e, "running"))
}

// TestSearchPhraseIgnoresNegation: a "~" inside a phrase term is stripped
// and ignored, never treated as an unmatched term.
func TestSearchPhraseIgnoresNegation(t *testing.T) {
	dir := t.TempDir()
	titles := []string{"X"}
	require.NoError(t, codec.WriteTitles(filepath.Join(dir, "TITLES"), titles, false))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PREFIX_LENGTH"), []byte("3"), 0o644))

	// X: quick(1) fox(2)
	quick := codec.Posting{{DocID: 1, Positions: []int32{1}}}
	fox := codec.Posting{{DocID: 1, Positions: []int32{2}}}

	require.NoError(t, codec.WritePositionalShard(filepath.Join(dir, "qui"), map[string]codec.Posting{"quick": quick}, false))
	require.NoError(t, codec.WritePositionalShard(filepath.Join(dir, "fox"), map[string]codec.Posting{"fox": fox}, false))
	require.NoError(t, codec.WriteNonPositionalShard(filepath.Join(dir, "qui.nopos"), map[string]codec.NonPositional{"quick": quick.DocIDs()}, false))
	require.NoError(t, codec.WriteNonPositionalShard(filepath.Join(dir, "fox.nopos"), map[string]codec.NonPositional{"fox": fox.DocIDs()}, false))

	idx, err := lexindex.Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.NoError(t, err)
	m := morph.Open(idx.MorphologyDir(), idx.PrefixLen, idx.Compressed, cache.NewBatchCache[[]string]())
	e := New(m, idx)

	require.Equal(t, []string{"X"}, searchOne(t, e, `"quick ~fox"`))
}
