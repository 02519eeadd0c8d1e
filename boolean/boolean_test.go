package boolean

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Corpus fixture: 10 documents, four indexed words.
var (
	foo            = []int32{1, 2, 3, 4, 5}
	bar            = []int32{2, 3, 7, 8, 9}
	baz            = []int32{1, 2, 7}
	alone          = []int32{6, 10}
	docCount int32 = 10
)

func TestSingle(t *testing.T) {
	require.Equal(t, foo, Resolve(Of(foo), docCount))
}

func TestSingleNegation(t *testing.T) {
	r := Of(foo)
	r.Negated = true
	require.Equal(t, []int32{6, 7, 8, 9, 10}, Resolve(r, docCount))
}

func TestPlainAnd(t *testing.T) {
	res := And(And(Of(foo), Of(bar)), Of(baz))
	require.Equal(t, []int32{2}, Resolve(res, docCount))
}

func TestPlainAndNegation(t *testing.T) {
	negBar := Of(bar)
	negBar.Negated = true
	res := And(And(Of(foo), negBar), Of(baz))
	require.Equal(t, []int32{1}, Resolve(res, docCount))
}

func TestPlainAndNegation2(t *testing.T) {
	negFoo := Of(foo)
	negFoo.Negated = true
	negBar := Of(bar)
	negBar.Negated = true
	res := And(negFoo, negBar)
	require.Equal(t, []int32{6, 10}, Resolve(res, docCount))
}

func TestPlainOr(t *testing.T) {
	res := Or(Of(foo), Of(alone))
	require.Equal(t, []int32{1, 2, 3, 4, 5, 6, 10}, Resolve(res, docCount))
}

func TestPlainOrNegation(t *testing.T) {
	negFoo := Of(foo)
	negFoo.Negated = true
	res := Or(negFoo, Of(bar))
	require.Equal(t, []int32{2, 3, 6, 7, 8, 9, 10}, Resolve(res, docCount))
}

func TestPlainOrNegation2(t *testing.T) {
	negFoo := Of(foo)
	negFoo.Negated = true
	negAlone := Of(alone)
	negAlone.Negated = true
	res := Or(negFoo, negAlone)
	require.Equal(t, []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Resolve(res, docCount))
}

func TestEmptyIntersection(t *testing.T) {
	// bar|~baz foo|baz alone
	negBaz := Of(baz)
	negBaz.Negated = true
	clause1 := Or(Of(bar), negBaz)
	clause2 := Or(Of(foo), Of(baz))
	clause3 := Of(alone)

	res := And(And(clause1, clause2), clause3)
	require.Equal(t, []int32{}, Resolve(res, docCount))
}

func TestOrMergeDedups(t *testing.T) {
	require.Equal(t, []int32{1, 2, 3}, OrMerge([]int32{1, 2}, []int32{2, 3}))
}

func TestSubtractFromUniverse(t *testing.T) {
	require.Equal(t, []int32{1, 3, 5}, SubtractFromUniverse(5, []int32{2, 4}))
}
