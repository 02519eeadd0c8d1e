// Shard construction from sorted intermediate files: the sort has already
// grouped every key's occurrences together (and, by extension, every
// prefix's keys together), so a single streaming pass can accumulate one
// prefix's dictionary at a time and flush it the moment the prefix changes.
package build

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alistra/boolsearch/boolerr"
	"github.com/alistra/boolsearch/codec"
)

// prefixOf returns the shard prefix for key: its first prefixLen
// characters, or the whole key if shorter. Sliced by rune, not
// byte, since Polish diacritics are multi-byte in UTF-8.
func prefixOf(key string, prefixLen int) string {
	runes := []rune(key)
	if len(runes) <= prefixLen {
		return key
	}
	return string(runes[:prefixLen])
}

// BuildMorphologyShards streams a sorted morphology file ("surface base1
// base2 ..." per line, sorted by surface) into prefix-sharded dictionary
// files under outDir.
func BuildMorphologyShards(sortedPath, outDir string, prefixLen int, compressed bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "create %s", outDir)
	}

	f, err := os.Open(sortedPath)
	if err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "open %s", sortedPath)
	}
	defer f.Close()

	current := map[string][]string{}
	prefix := ""

	flush := func() error {
		if prefix == "" || len(current) == 0 {
			return nil
		}
		if err := codec.WriteMorphologyShard(filepath.Join(outDir, prefix), current, compressed); err != nil {
			return err
		}
		current = map[string][]string{}
		return nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), " ")
		if len(fields) == 0 || fields[0] == "" {
			continue
		}
		key := fields[0]
		p := prefixOf(key, prefixLen)
		if p != prefix {
			if err := flush(); err != nil {
				return err
			}
			prefix = p
		}
		current[key] = fields[1:]
	}
	if err := scanner.Err(); err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "scan %s", sortedPath)
	}
	return flush()
}

// BuildIndexShards streams a sorted index intermediate file ("base docID
// position" per line, sorted by base) into prefix-sharded positional and
// non-positional companion files under outDir.
func BuildIndexShards(sortedPath, outDir string, prefixLen int, compressed bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "create %s", outDir)
	}

	f, err := os.Open(sortedPath)
	if err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "open %s", sortedPath)
	}
	defer f.Close()

	current := map[string]codec.Posting{}
	prefix := ""

	flush := func() error {
		if prefix == "" || len(current) == 0 {
			return nil
		}
		if err := codec.WritePositionalShard(filepath.Join(outDir, prefix), current, compressed); err != nil {
			return err
		}
		nopos := make(map[string]codec.NonPositional, len(current))
		for k, v := range current {
			nopos[k] = v.DocIDs()
		}
		if err := codec.WriteNonPositionalShard(filepath.Join(outDir, prefix+nonPositionalSuffix), nopos, compressed); err != nil {
			return err
		}
		current = map[string]codec.Posting{}
		return nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.SplitN(strings.TrimRight(line, "\r\n"), " ", 3)
		if len(fields) != 3 {
			continue
		}
		base := fields[0]
		docID, err := strconv.Atoi(fields[1])
		if err != nil {
			return boolerr.Wrap(boolerr.KindIOError, err, "parse doc id in %q", line)
		}
		pos, err := strconv.Atoi(fields[2])
		if err != nil {
			return boolerr.Wrap(boolerr.KindIOError, err, "parse position in %q", line)
		}

		p := prefixOf(base, prefixLen)
		if p != prefix {
			if err := flush(); err != nil {
				return err
			}
			prefix = p
		}

		posting := current[base]
		if n := len(posting); n > 0 && posting[n-1].DocID == int32(docID) {
			// Duplicate (doc_id, position) tuples are idempotent: the sort
			// groups them adjacently, so a simple last-position check is
			// enough to suppress the repeat.
			positions := posting[n-1].Positions
			if m := len(positions); m == 0 || positions[m-1] != int32(pos) {
				posting[n-1].Positions = append(positions, int32(pos))
			}
		} else {
			posting = append(posting, codec.DocPositions{DocID: int32(docID), Positions: []int32{int32(pos)}})
		}
		current[base] = posting
	}
	if err := scanner.Err(); err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "scan %s", sortedPath)
	}
	return flush()
}

const nonPositionalSuffix = ".nopos"

// WriteIntermediateLine writes one "base docID position" record to w, the
// unsorted precursor to BuildIndexShards' input.
func WriteIntermediateLine(w io.Writer, base string, docID, position int) error {
	_, err := io.WriteString(w, base+" "+strconv.Itoa(docID)+" "+strconv.Itoa(position)+"\n")
	return err
}
