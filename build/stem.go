package build

import "github.com/alistra/boolsearch/morph"

// Stem reduces a lemma to its stem when stemming is enabled. It is applied
// strictly after lemmatisation, never in its place: the morphology store
// still records the full lemma, only the indexed base form is shortened.
func Stem(lemma string) string {
	return morph.Stem(lemma)
}
