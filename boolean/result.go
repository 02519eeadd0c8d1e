// Package boolean implements the Boolean Evaluator's algebra: SearchResult
// values and the deferred-complement merges (Or, And, Resolve) over them, so
// that a negated clause never materialises the (potentially huge)
// complement of its postings until the very end. The CNF fold that applies
// them clause by clause is in package engine.
package boolean

// SearchResult pairs a sorted, duplicate-free document id list with a flag
// recording whether it should be read as its own complement. Deferring the
// complement lets every intermediate merge stay O(m+n) against the small
// concrete lists actually stored on disk, rather than against the universe.
type SearchResult struct {
	Docs    []int32
	Negated bool
}

// Of wraps a concrete, non-negated posting.
func Of(docs []int32) SearchResult {
	return SearchResult{Docs: docs}
}

// OrMerge merges two sorted, duplicate-free document lists in O(m+n),
// producing their union.
func OrMerge(a, b []int32) []int32 {
	out := make([]int32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// AndMerge intersects two sorted, duplicate-free document lists in O(m+n).
func AndMerge(a, b []int32) []int32 {
	out := make([]int32, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// Subtract returns a \ b (documents in a that are not in b) in O(m+n).
func Subtract(a, b []int32) []int32 {
	out := make([]int32, 0, len(a))
	i, j := 0, 0
	for i < len(a) {
		if j >= len(b) || a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else if a[i] > b[j] {
			j++
		} else {
			i++
			j++
		}
	}
	return out
}

// SubtractFromUniverse returns the complement of docs within [1, count],
// i.e. the documents NOT present in the (sorted, duplicate-free) docs list.
func SubtractFromUniverse(count int32, docs []int32) []int32 {
	out := make([]int32, 0, int(count)-len(docs))
	start := int32(1)
	for _, n := range docs {
		for i := start; i < n; i++ {
			out = append(out, i)
		}
		start = n + 1
	}
	for i := start; i <= count; i++ {
		out = append(out, i)
	}
	return out
}

// Or applies the six-identity OR algebra to two possibly-negated results in
// O(m+n), never eagerly expanding a complement:
//
//	 x |  y  =  x ∪ y
//	~x |  y  = ~(x \ y)
//	 x | ~y  = ~(y \ x)
//	~x | ~y  = ~(x ∩ y)
func Or(a, b SearchResult) SearchResult {
	switch {
	case a.Negated && b.Negated:
		return SearchResult{Docs: AndMerge(a.Docs, b.Docs), Negated: true}
	case a.Negated:
		return SearchResult{Docs: Subtract(a.Docs, b.Docs), Negated: true}
	case b.Negated:
		return SearchResult{Docs: Subtract(b.Docs, a.Docs), Negated: true}
	default:
		return SearchResult{Docs: OrMerge(a.Docs, b.Docs)}
	}
}

// And applies the six-identity AND algebra to two possibly-negated results
// in O(m+n):
//
//	 x &  y  =  x ∩ y
//	~x &  y  =  y \ x
//	 x & ~y  =  x \ y
//	~x & ~y  = ~(x ∪ y)
func And(a, b SearchResult) SearchResult {
	switch {
	case a.Negated && b.Negated:
		return SearchResult{Docs: OrMerge(a.Docs, b.Docs), Negated: true}
	case a.Negated:
		return SearchResult{Docs: Subtract(b.Docs, a.Docs)}
	case b.Negated:
		return SearchResult{Docs: Subtract(a.Docs, b.Docs)}
	default:
		return SearchResult{Docs: AndMerge(a.Docs, b.Docs)}
	}
}

// Resolve collapses a (possibly still negated) top-level result against the
// total document count, materialising the complement only at this final
// step.
func Resolve(r SearchResult, documentCount int32) []int32 {
	if r.Negated {
		return SubtractFromUniverse(documentCount, r.Docs)
	}
	return r.Docs
}
