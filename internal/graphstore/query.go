package graphstore

import (
	"fmt"

	"github.com/knowledgehooks/khook/internal/rdf"
)

// Binding is one SELECT result row: a mapping from variable name
// (without the leading '?') to the RDF term bound to it.
type Binding map[string]rdf.Term

// QueryResult is either an ASK boolean or a SELECT bindings sequence
// (spec §3). CONSTRUCT results are exposed separately via
// Store.Construct since they are graphs, not bindings.
type QueryResult struct {
	IsBoolean bool
	Boolean   bool
	Vars      []string
	Bindings  []Binding
}

// Query runs a SPARQL ASK or SELECT query against the store. query is
// pure over the triple set (spec §3 invariant): two stores with equal
// triple sets return equal results for equal queries, modulo binding
// order (unless the query specifies ORDER BY).
func (s *Store) Query(queryText string) (QueryResult, error) {
	q, err := parseQuery(queryText)
	if err != nil {
		return QueryResult{}, fmt.Errorf("parse query: %w", err)
	}

	switch q.kind {
	case KindASK:
		bindings := evaluateGroup(q.where, s, []binding{{}})
		return QueryResult{IsBoolean: true, Boolean: len(bindings) > 0}, nil
	case KindSELECT:
		bindings := evaluateGroup(q.where, s, []binding{{}})
		vars := q.selectVars
		if len(vars) == 0 {
			vars = collectVars(q.where)
		}
		orderBindings(bindings, q.orderBy)
		result := QueryResult{Vars: vars, Bindings: make([]Binding, 0, len(bindings))}
		for _, b := range bindings {
			row := make(Binding, len(vars))
			for _, v := range vars {
				if term, ok := b[v]; ok {
					row[v] = term
				}
			}
			result.Bindings = append(result.Bindings, row)
		}
		return result, nil
	case KindCONSTRUCT:
		return QueryResult{}, fmt.Errorf("CONSTRUCT queries must be run via Store.Construct")
	default:
		return QueryResult{}, fmt.Errorf("unsupported query kind")
	}
}

// Construct runs a SPARQL CONSTRUCT query and returns the resulting
// sub-graph as a fresh, independent Store (spec §3 Construct
// predicate / §4.3).
func (s *Store) Construct(queryText string) (*Store, error) {
	q, err := parseQuery(queryText)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	if q.kind != KindCONSTRUCT {
		return nil, fmt.Errorf("query is not a CONSTRUCT query")
	}
	bindings := evaluateGroup(q.where, s, []binding{{}})
	triples := constructTriples(q.constructTmpl, bindings)
	return FromTriples(triples), nil
}
