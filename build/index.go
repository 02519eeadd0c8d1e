// Package build implements the Index Builder: turning a tokenised corpus
// and a morphology source into a complete on-disk index directory.
package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/alistra/boolsearch/boolerr"
	"github.com/alistra/boolsearch/codec"
	"github.com/alistra/boolsearch/morph"
)

const (
	compressedFile = "COMPRESSED"
	prefixLenFile  = "PREFIX_LENGTH"
	titlesFile     = "TITLES"
	buildInfoFile  = "BUILD_INFO"
	morphDir       = "morfologik"
)

// Options configures one index build.
type Options struct {
	IndexDir   string
	PrefixLen  int
	Compressed bool
	Stemmed    bool
	Debug      bool
	KeepTemp   bool // keep intermediate files instead of deleting them (debug aid)
}

// progress prints a colorized status line when Debug is set.
func (o Options) progress(format string, args ...any) {
	if !o.Debug {
		return
	}
	color.Yellow(format, args...)
}

// BuildIndex runs the full pipeline: normalize the morphology source into
// sharded dictionaries, scan the corpus into a sorted intermediate file,
// shard it into positional/non-positional postings, and write the titles
// and side files that make the directory openable by lexindex.Open.
func BuildIndex(o Options, corpusPath, morphologyPath string) error {
	if err := os.MkdirAll(o.IndexDir, 0o755); err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "create index dir %s", o.IndexDir)
	}

	if err := writeSideFiles(o); err != nil {
		return err
	}

	o.progress("initializing morphology")
	morphology, err := loadMorphologySource(morphologyPath)
	if err != nil {
		return err
	}

	o.progress("sorting morphology")
	morphSortedPath := filepath.Join(os.TempDir(), "boolsearch-morph-sorted-"+uuid.NewString())
	if err := SortFile(morphologyPath, morphSortedPath); err != nil {
		return err
	}
	if !o.KeepTemp {
		defer os.Remove(morphSortedPath)
	}

	o.progress("generating morphology index")
	if err := BuildMorphologyShards(morphSortedPath, filepath.Join(o.IndexDir, morphDir), o.PrefixLen, o.Compressed); err != nil {
		return err
	}

	o.progress("gathering document data")
	wordsPath := filepath.Join(os.TempDir(), "boolsearch-words-"+uuid.NewString())
	titles, err := scanAndNormalize(o, corpusPath, wordsPath, morphology)
	if err != nil {
		return err
	}
	if !o.KeepTemp {
		defer os.Remove(wordsPath)
	}

	o.progress("dumping document titles")
	if err := codec.WriteTitles(filepath.Join(o.IndexDir, titlesFile), titles, o.Compressed); err != nil {
		return err
	}

	o.progress("sorting document data")
	wordsSortedPath := filepath.Join(os.TempDir(), "boolsearch-words-sorted-"+uuid.NewString())
	if err := SortFile(wordsPath, wordsSortedPath); err != nil {
		return err
	}
	if !o.KeepTemp {
		defer os.Remove(wordsSortedPath)
	}

	o.progress("generating index")
	if err := BuildIndexShards(wordsSortedPath, o.IndexDir, o.PrefixLen, o.Compressed); err != nil {
		return err
	}

	return writeBuildInfo(o, len(titles))
}

func loadMorphologySource(path string) (*morph.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, boolerr.Wrap(boolerr.KindIOError, err, "open morphology source %s", path)
	}
	defer f.Close()
	full, err := LoadMorphologyFull(f)
	if err != nil {
		return nil, err
	}
	return morph.OpenFull(full), nil
}

// scanAndNormalize walks the corpus, lemmatizing (and optionally stemming)
// every word, and writes the unsorted "base docID position" intermediate
// file that BuildIndexShards later consumes once sorted. Lookups go through
// the same morph.Store type the query engine normalizes with, here in its
// whole-dictionary-resident mode.
func scanAndNormalize(o Options, corpusPath, outPath string, morphology *morph.Store) ([]string, error) {
	in, err := os.Open(corpusPath)
	if err != nil {
		return nil, boolerr.Wrap(boolerr.KindIOError, err, "open corpus %s", corpusPath)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return nil, boolerr.Wrap(boolerr.KindIOError, err, "create %s", outPath)
	}
	defer out.Close()

	var titles []string
	docCount := 0

	err = ScanCorpus(in, func(doc Document) error {
		docCount++
		if o.Debug && docCount%1000 == 0 {
			o.progress("%d documents indexed", docCount)
		}
		titles = append(titles, doc.Title)

		for wordPos, word := range doc.Words {
			folded := FoldCase(word)
			bases, ok := morphology.Lookup(folded)
			if !ok {
				bases = []string{folded}
			}
			for _, base := range bases {
				if o.Stemmed {
					base = Stem(base)
				}
				if !LegalBaseForm(base) {
					continue
				}
				if err := WriteIntermediateLine(out, base, docCount, wordPos+1); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, boolerr.Wrap(boolerr.KindIOError, err, "scan corpus %s", corpusPath)
	}
	return titles, nil
}

// writeSideFiles writes (or removes) the COMPRESSED marker and writes the
// PREFIX_LENGTH file before any shard is generated.
func writeSideFiles(o Options) error {
	compFlag := filepath.Join(o.IndexDir, compressedFile)
	if o.Compressed {
		f, err := os.Create(compFlag)
		if err != nil {
			return boolerr.Wrap(boolerr.KindIOError, err, "write %s", compFlag)
		}
		f.Close()
	} else if codec.Exists(compFlag) {
		if err := os.Remove(compFlag); err != nil {
			return boolerr.Wrap(boolerr.KindIOError, err, "remove %s", compFlag)
		}
	}

	plFile := filepath.Join(o.IndexDir, prefixLenFile)
	if err := os.WriteFile(plFile, []byte(strconv.Itoa(o.PrefixLen)), 0o644); err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "write %s", plFile)
	}
	return nil
}

// writeBuildInfo stamps a run identifier and basic stats into BUILD_INFO so
// repeated builds of the same corpus are distinguishable in logs.
func writeBuildInfo(o Options, documentCount int) error {
	path := filepath.Join(o.IndexDir, buildInfoFile)
	f, err := os.Create(path)
	if err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "write %s", path)
	}
	defer f.Close()

	_, err = io.WriteString(f, fmt.Sprintf(
		"run=%s\ndocuments=%d\nprefix_len=%d\ncompressed=%t\nstemmed=%t\n",
		uuid.NewString(), documentCount, o.PrefixLen, o.Compressed, o.Stemmed,
	))
	return err
}
