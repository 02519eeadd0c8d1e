package build

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/alistra/boolsearch/morph"
)

const titleMarker = "##TITLE##"

var (
	wordRegexp        = regexp.MustCompile(`[0-9a-zA-ZęóąśłżźćńĘÓĄŚŁŻŹĆŃ_]+`)
	illegalBaseRegexp = regexp.MustCompile(`[^0-9a-zęóąśłżźćń]`)
)

// Document is one parsed corpus document: its title line and the raw word
// tokens that followed it, in order.
type Document struct {
	Title string
	Words []string
}

// ScanCorpus reads a corpus file where a line starting with "##TITLE## "
// begins a new document, and every run of word characters on subsequent
// lines is a token of that document.
func ScanCorpus(r io.Reader, onDocument func(Document) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var current Document
	started := false

	flush := func() error {
		if !started {
			return nil
		}
		return onDocument(current)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, titleMarker) {
			if err := flush(); err != nil {
				return err
			}
			current = Document{Title: strings.TrimSpace(line[len(titleMarker):])}
			started = true
			continue
		}
		if !started {
			continue
		}
		current.Words = append(current.Words, wordRegexp.FindAllString(line, -1)...)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return flush()
}

// FoldCase lowercases a surface word before morphology lookup, the same way
// the query engine folds case at search time (Unicode-correct Polish case
// folding, rather than strings.ToLower alone).
func FoldCase(word string) string {
	return morph.FoldCase(word)
}

// LegalBaseForm reports whether a normalized base form may be indexed: it
// must contain only digits and the lowercase Polish word-character set.
func LegalBaseForm(base string) bool {
	return !illegalBaseRegexp.MatchString(base)
}
