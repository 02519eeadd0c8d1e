package morph

import "github.com/surgebase/porter2"

// Stem reduces a base form to its stem. Stemming is applied strictly after
// lemmatisation, never in its place, and must run identically at build time
// and at query time: a stemmed index is only searchable when query terms go
// through the same reduction.
func Stem(base string) string {
	return porter2.Stem(base)
}
