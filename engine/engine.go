// Package engine orchestrates batch search: given a set of parsed queries,
// it figures out which morphology and posting shards the batch needs,
// loads exactly those, normalizes every surface word, evaluates each query,
// and resolves document ids to titles.
package engine

import (
	"sort"
	"strings"

	"github.com/alistra/boolsearch/boolean"
	"github.com/alistra/boolsearch/codec"
	"github.com/alistra/boolsearch/lexindex"
	"github.com/alistra/boolsearch/morph"
	"github.com/alistra/boolsearch/phrase"
	"github.com/alistra/boolsearch/query"
)

// Engine ties a morphology store and an index store together to answer a
// batch of queries.
type Engine struct {
	Morph *morph.Store
	Index *lexindex.Store

	// Stemmed must match the flag the index was built with: a stemmed
	// index stores reduced base forms, so query terms have to go through
	// the same reduction after lemmatisation or every lookup misses.
	Stemmed bool
}

// New builds an Engine over an already-open morphology and index store.
func New(m *morph.Store, idx *lexindex.Store) *Engine {
	return &Engine{Morph: m, Index: idx}
}

// Result is one query's resolved hits, in the order the collection
// primitives produced them.
type Result struct {
	Query  *query.Query
	Titles []string
}

// Search evaluates a batch of queries, loading only the shards the batch
// actually references, and clears both stores' caches before returning so
// the next batch starts cold.
func (e *Engine) Search(queries []*query.Query) ([]Result, error) {
	defer e.Morph.Clear()
	defer e.Index.Clear()

	cnfWords, phraseWords := collectByPrefix(e.Morph.Prefix, queries)

	if err := e.loadMorphology(cnfWords); err != nil {
		return nil, err
	}
	if err := e.loadMorphology(phraseWords); err != nil {
		return nil, err
	}

	normCNF := e.normalize(cnfWords)
	normPhrase := e.normalize(phraseWords)

	normCNFByPrefix := byPrefix(e.Index.Prefix, normCNF)
	normPhraseByPrefix := byPrefix(e.Index.Prefix, normPhrase)

	for prefix, words := range normCNFByPrefix {
		if err := e.Index.LoadNonPositionalPrefix(prefix, words); err != nil {
			return nil, err
		}
	}
	for prefix, words := range normPhraseByPrefix {
		if err := e.Index.LoadPositionalPrefix(prefix, words); err != nil {
			return nil, err
		}
	}

	results := make([]Result, len(queries))
	for i, q := range queries {
		docs, err := e.evaluate(q)
		if err != nil {
			return nil, err
		}
		titles := make([]string, len(docs))
		for j, doc := range docs {
			t, err := e.Index.Title(doc)
			if err != nil {
				return nil, err
			}
			titles[j] = t
		}
		results[i] = Result{Query: q, Titles: titles}
	}
	return results, nil
}

// collectByPrefix gathers every surface word referenced across queries,
// split by query kind and grouped by morphology shard prefix (the mirror
// of get_words_from_queries).
func collectByPrefix(prefixOf func(string) string, queries []*query.Query) (cnf, phrase map[string]map[string]struct{}) {
	cnf = make(map[string]map[string]struct{})
	phrase = make(map[string]map[string]struct{})
	for _, q := range queries {
		target := cnf
		if q.Kind == query.KindPhrase {
			target = phrase
		}
		for _, raw := range q.Words() {
			w := morph.FoldCase(raw)
			p := prefixOf(w)
			if target[p] == nil {
				target[p] = make(map[string]struct{})
			}
			target[p][w] = struct{}{}
		}
	}
	return cnf, phrase
}

func (e *Engine) loadMorphology(byPrefix map[string]map[string]struct{}) error {
	for prefix, words := range byPrefix {
		if err := e.Morph.LoadPrefix(prefix, words); err != nil {
			return err
		}
	}
	return nil
}

// baseForms resolves a folded surface word to the base forms actually
// indexed for it: the morphology lookup with a surface-form fallback,
// reduced by the stemmer when the index was built stemmed.
func (e *Engine) baseForms(word string) []string {
	bases, ok := e.Morph.Lookup(word)
	if !ok {
		bases = []string{word}
	}
	if !e.Stemmed {
		return bases
	}
	stemmed := make([]string, len(bases))
	for i, b := range bases {
		stemmed[i] = morph.Stem(b)
	}
	return stemmed
}

// normalize resolves every collected surface word to its base forms,
// falling back to the surface word itself when it has no morphology entry.
func (e *Engine) normalize(byPrefix map[string]map[string]struct{}) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, words := range byPrefix {
		for w := range words {
			for _, b := range e.baseForms(w) {
				if _, dup := seen[b]; dup {
					continue
				}
				seen[b] = struct{}{}
				out = append(out, b)
			}
		}
	}
	return out
}

func byPrefix(prefixOf func(string) string, words []string) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for _, w := range words {
		p := prefixOf(w)
		if out[p] == nil {
			out[p] = make(map[string]struct{})
		}
		out[p][w] = struct{}{}
	}
	return out
}

func (e *Engine) evaluate(q *query.Query) ([]int32, error) {
	switch q.Kind {
	case query.KindCNF:
		return e.evaluateCNF(q)
	case query.KindPhrase:
		return e.evaluatePhrase(q)
	default:
		return nil, nil
	}
}

func (e *Engine) evaluateCNF(q *query.Query) ([]int32, error) {
	if len(q.Clauses) == 0 {
		return nil, nil
	}
	clauseResults := make([]boolean.SearchResult, len(q.Clauses))
	for i, clause := range q.Clauses {
		clauseResults[i] = e.evaluateClause(clause)
	}
	// Evaluate smallest results first, matching search_cnf's sort-by-length
	// optimisation: AND quickly collapses to a small running intersection.
	sort.Slice(clauseResults, func(i, j int) bool {
		return len(clauseResults[i].Docs) < len(clauseResults[j].Docs)
	})

	res := clauseResults[0]
	for _, c := range clauseResults[1:] {
		res = boolean.And(res, c)
	}
	return boolean.Resolve(res, int32(e.Index.DocumentCount())), nil
}

func (e *Engine) evaluateClause(clause []string) boolean.SearchResult {
	termResults := make([]boolean.SearchResult, len(clause))
	for i, term := range clause {
		termResults[i] = e.evaluateTerm(term)
	}
	res := termResults[0]
	for _, t := range termResults[1:] {
		res = boolean.Or(res, t)
	}
	return res
}

func (e *Engine) evaluateTerm(term string) boolean.SearchResult {
	negated := false
	word := term
	if len(term) > 0 && term[0] == '~' {
		negated = true
		word = term[1:]
	}
	word = morph.FoldCase(word)

	res := boolean.SearchResult{}
	for i, base := range e.baseForms(word) {
		docs, _ := e.Index.GetNonPositional(base)
		if i == 0 {
			res = boolean.Of([]int32(docs))
			continue
		}
		res = boolean.Or(res, boolean.Of([]int32(docs)))
	}
	res.Negated = negated
	return res
}

func (e *Engine) evaluatePhrase(q *query.Query) ([]int32, error) {
	termPostings := make([]codec.Posting, len(q.Terms))
	for i, rawTerm := range q.Terms {
		// Negation inside a phrase is ignored: strip any leading "~" the
		// same way query.Query.Words() does, so the shards loaded for this
		// term and the key looked up here agree.
		term := morph.FoldCase(strings.TrimPrefix(rawTerm, "~"))
		bases := e.baseForms(term)
		postings := make([]codec.Posting, len(bases))
		for j, base := range bases {
			p, _ := e.Index.GetPositional(base)
			postings[j] = p
		}
		termPostings[i] = phrase.MergeBases(postings...)
	}
	return phrase.Evaluate(termPostings), nil
}
