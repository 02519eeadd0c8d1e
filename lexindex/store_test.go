package lexindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alistra/boolsearch/boolerr"
	"github.com/alistra/boolsearch/cache"
	"github.com/alistra/boolsearch/codec"
)

func newTestIndex(t *testing.T, compressed bool) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, prefixLenFile), []byte("3"), 0o644))
	if compressed {
		require.NoError(t, os.WriteFile(filepath.Join(dir, compressedFile), nil, 0o644))
	}
	titles := []string{"Apple", "Banana", "Cherry", "Date"}
	require.NoError(t, codec.WriteTitles(filepath.Join(dir, titlesFile), titles, compressed))

	positional := map[string]codec.Posting{
		"foo": {{DocID: 1, Positions: []int32{1}}, {DocID: 2, Positions: []int32{3}}},
	}
	require.NoError(t, codec.WritePositionalShard(filepath.Join(dir, "foo"), positional, compressed))

	nonpos := map[string]codec.NonPositional{"foo": {1, 2}}
	require.NoError(t, codec.WriteNonPositionalShard(filepath.Join(dir, "foo"+nonPositionalSuffix), nonpos, compressed))

	return dir
}

func TestOpenReadsSideFilesAndTitles(t *testing.T) {
	dir := newTestIndex(t, false)
	s, err := Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.NoError(t, err)

	require.False(t, s.Compressed)
	require.Equal(t, 3, s.PrefixLen)
	require.Equal(t, []string{"Apple", "Banana", "Cherry", "Date"}, s.Titles)
	require.Equal(t, 4, s.DocumentCount())
}

func TestOpenDetectsCompression(t *testing.T) {
	dir := newTestIndex(t, true)
	s, err := Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.NoError(t, err)
	require.True(t, s.Compressed)
}

func TestTitleIsOneBasedAndBoundsChecked(t *testing.T) {
	dir := newTestIndex(t, false)
	s, err := Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.NoError(t, err)

	title, err := s.Title(1)
	require.NoError(t, err)
	require.Equal(t, "Apple", title)

	_, err = s.Title(0)
	require.True(t, boolerr.Is(err, boolerr.KindOutOfRange))

	_, err = s.Title(5)
	require.True(t, boolerr.Is(err, boolerr.KindOutOfRange))
}

func TestOpenCorruptTitlesIsCodecError(t *testing.T) {
	dir := newTestIndex(t, false)
	path := filepath.Join(dir, titlesFile)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[0] ^= 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.True(t, boolerr.Is(err, boolerr.KindCodecError))
}

func TestOpenMissingTitlesIsIOError(t *testing.T) {
	dir := newTestIndex(t, false)
	require.NoError(t, os.Remove(filepath.Join(dir, titlesFile)))

	_, err := Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.True(t, boolerr.Is(err, boolerr.KindIOError))
}

// TestPrefixIsRuneAware verifies the shard prefix is cut by character
// count, not byte count: "ząb" is 3 runes but 4 bytes since ą is 2-byte
// UTF-8, so with PrefixLen=3 it must come back whole.
func TestPrefixIsRuneAware(t *testing.T) {
	s := &Store{PrefixLen: 3}
	require.Equal(t, "ząb", s.Prefix("ząb"))
	require.Equal(t, "ząb", s.Prefix("ząbki"))
}

func TestLoadAndGetPostings(t *testing.T) {
	dir := newTestIndex(t, false)
	s, err := Open(dir, cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional]())
	require.NoError(t, err)

	require.NoError(t, s.LoadPositionalPrefix("foo", map[string]struct{}{"foo": {}}))
	require.NoError(t, s.LoadNonPositionalPrefix("foo", map[string]struct{}{"foo": {}}))

	posting, ok := s.GetPositional("foo")
	require.True(t, ok)
	require.Len(t, posting, 2)

	docs, ok := s.GetNonPositional("foo")
	require.True(t, ok)
	require.Equal(t, codec.NonPositional{1, 2}, docs)
}
