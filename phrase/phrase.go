// Package phrase implements the Phrase Evaluator: exact phrase matching
// over positional postings via a k-way, position-aligned sorted merge.
package phrase

import "github.com/alistra/boolsearch/codec"

// MergeBases OR-unions the positional postings of several base forms of
// the same surface word (one word can normalize to more than one lemma),
// combining position lists for documents the bases share.
func MergeBases(bases ...codec.Posting) codec.Posting {
	if len(bases) == 0 {
		return nil
	}
	res := bases[0]
	for _, b := range bases[1:] {
		res = mergeBasesPair(res, b)
	}
	return res
}

func mergeBasesPair(a, b codec.Posting) codec.Posting {
	out := make(codec.Posting, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].DocID < b[j].DocID:
			out = append(out, a[i])
			i++
		case a[i].DocID > b[j].DocID:
			out = append(out, b[j])
			j++
		default:
			out = append(out, codec.DocPositions{
				DocID:     a[i].DocID,
				Positions: orMergePositions(a[i].Positions, b[j].Positions),
			})
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func orMergePositions(a, b []int32) []int32 {
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

// Adjacent merges two adjacent phrase terms: term1 immediately followed by
// term2. It keeps only documents where some position p in a is
// immediately followed by p+1 in b, recording that second position
// as the match's anchor. The result is itself a valid positional posting,
// so chaining Adjacent left-to-right across a phrase's terms collapses the
// k-way alignment to repeated 2-way merges.
func Adjacent(a, b codec.Posting) codec.Posting {
	out := make(codec.Posting, 0)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].DocID < b[j].DocID:
			i++
		case a[i].DocID > b[j].DocID:
			j++
		default:
			if positions := adjacentPositions(a[i].Positions, b[j].Positions); len(positions) > 0 {
				out = append(out, codec.DocPositions{DocID: a[i].DocID, Positions: positions})
			}
			i++
			j++
		}
	}
	return out
}

func adjacentPositions(a, b []int32) []int32 {
	var out []int32
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i]+1 < b[j]:
			i++
		case a[i]+1 > b[j]:
			j++
		default:
			out = append(out, b[j])
			i++
			j++
		}
	}
	return out
}

// Evaluate runs the full phrase algorithm over a sequence of per-term
// postings (each already OR-unioned across that term's base forms via
// MergeBases), returning the matching document ids.
func Evaluate(terms []codec.Posting) []int32 {
	if len(terms) == 0 {
		return nil
	}
	res := terms[0]
	for _, t := range terms[1:] {
		res = Adjacent(res, t)
	}
	out := make([]int32, len(res))
	for i, e := range res {
		out[i] = e.DocID
	}
	return out
}
