// Package query implements the Query Parser: turning a raw query line into
// either a CNF clause list or a phrase term list.
package query

import (
	"regexp"
	"strings"

	"github.com/alistra/boolsearch/boolerr"
)

// Kind distinguishes the two query shapes a raw line can take.
type Kind int

const (
	KindCNF Kind = iota
	KindPhrase
)

// Query is the parsed form of one query line: either a CNF clause list
// (Clauses, each clause a slice of OR'd terms) or a phrase term list
// (Terms), never both.
type Query struct {
	Kind    Kind
	Clauses [][]string
	Terms   []string
}

// illegalCNFChar accepts both letter cases: every term is lower-cased
// (morph.FoldCase) before lookup, so rejecting uppercase here would refuse
// queries that normalise to perfectly legal words.
var illegalCNFChar = regexp.MustCompile(`[^0-9a-zA-ZęóąśłżźćńĘÓĄŚŁŻŹĆŃ~]`)

// Parse dispatches on the raw query's surrounding quotes: a line that
// starts and ends with `"` is a phrase query, everything else is parsed as
// CNF.
func Parse(raw string) (*Query, error) {
	if raw == "" {
		return nil, boolerr.New(boolerr.KindEmptyQuery, "empty query")
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return parsePhrase(raw)
	}
	return parseCNF(raw)
}

func parsePhrase(raw string) (*Query, error) {
	inner := raw[1 : len(raw)-1]
	if inner == "" {
		return nil, boolerr.New(boolerr.KindEmptyQuery, "empty phrase")
	}
	terms := strings.Split(inner, " ")
	for _, term := range terms {
		if strings.TrimPrefix(term, "~") == "" {
			return nil, boolerr.New(boolerr.KindParseError, "empty term in phrase %s", raw)
		}
	}
	return &Query{Kind: KindPhrase, Terms: terms}, nil
}

func parseCNF(raw string) (*Query, error) {
	var clauses [][]string
	for _, piece := range strings.Split(raw, " ") {
		if piece == "" {
			continue
		}
		clause := strings.Split(piece, "|")
		for _, term := range clause {
			word := term
			if strings.HasPrefix(word, "~") {
				word = word[1:]
			}
			if word == "" || illegalCNFChar.MatchString(word) {
				return nil, boolerr.New(boolerr.KindParseError, "illegal term %q", term)
			}
		}
		clauses = append(clauses, clause)
	}
	// A non-empty raw string that happens to yield no clauses (e.g. all
	// whitespace) is NOT an EmptyQuery: it produces an empty clause list,
	// which the evaluator treats as the empty result.
	return &Query{Kind: KindCNF, Clauses: clauses}, nil
}

// Words yields every distinct surface word referenced by the query, with
// any leading `~` negation marker stripped.
func (q *Query) Words() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(term string) {
		word := strings.TrimPrefix(term, "~")
		if _, ok := seen[word]; ok {
			return
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	switch q.Kind {
	case KindCNF:
		for _, clause := range q.Clauses {
			for _, term := range clause {
				add(term)
			}
		}
	case KindPhrase:
		for _, term := range q.Terms {
			add(term)
		}
	}
	return out
}

// String renders the query back to its canonical textual form.
func (q *Query) String() string {
	switch q.Kind {
	case KindCNF:
		clauses := make([]string, len(q.Clauses))
		for i, c := range q.Clauses {
			clauses[i] = strings.Join(c, "|")
		}
		return strings.Join(clauses, " ")
	case KindPhrase:
		return `"` + strings.Join(q.Terms, " ") + `"`
	default:
		return ""
	}
}
