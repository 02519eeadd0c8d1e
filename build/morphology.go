package build

import (
	"bufio"
	"io"
	"strings"

	"github.com/alistra/boolsearch/boolerr"
)

// MorphologyEntry is one line of the morphology source: a surface form and
// its ordered base forms, "surface base1 base2 ...".
type MorphologyEntry struct {
	Surface string
	Bases   []string
}

// ScanMorphology reads the morphology source file line by line.
func ScanMorphology(r io.Reader, onEntry func(MorphologyEntry) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), " ")
		if len(fields) == 0 || fields[0] == "" {
			continue
		}
		if err := onEntry(MorphologyEntry{Surface: fields[0], Bases: fields[1:]}); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// LoadMorphologyFull reads the whole morphology source into memory, for the
// indexer's own normalization pass during a build, which keeps the whole
// table resident while generating the corpus's index intermediate file.
func LoadMorphologyFull(r io.Reader) (map[string][]string, error) {
	out := make(map[string][]string)
	err := ScanMorphology(r, func(e MorphologyEntry) error {
		out[e.Surface] = e.Bases
		return nil
	})
	if err != nil {
		return nil, boolerr.Wrap(boolerr.KindIOError, err, "load morphology source")
	}
	return out, nil
}
