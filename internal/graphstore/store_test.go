package graphstore

import (
	"testing"

	"github.com/knowledgehooks/khook/internal/rdf"
	"github.com/stretchr/testify/require"
)

func itemTriple(subj string) rdf.Triple {
	return rdf.Triple{
		Subject:   rdf.NewIRI(subj),
		Predicate: rdf.NewIRI(rdf.RDFType),
		Object:    rdf.NewIRI("http://example.org/gv#Item"),
	}
}

func TestStoreAddRemoveIdempotent(t *testing.T) {
	s := New()
	t1 := itemTriple("http://example.org/a")

	s.Add(t1)
	s.Add(t1)
	require.Equal(t, 1, s.Size())

	s.Remove(t1)
	s.Remove(t1)
	require.Equal(t, 0, s.Size())
}

func TestStoreSnapshotIsolated(t *testing.T) {
	s := New()
	s.Add(itemTriple("http://example.org/a"))

	snap := s.Snapshot()
	s.Add(itemTriple("http://example.org/b"))

	require.Equal(t, 1, snap.Size())
	require.Equal(t, 2, s.Size())
}

func TestAskQuery(t *testing.T) {
	s := New()
	s.Add(itemTriple("http://example.org/a"))

	res, err := s.Query(`ASK WHERE { ?x <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/gv#Item> }`)
	require.NoError(t, err)
	require.True(t, res.IsBoolean)
	require.True(t, res.Boolean)
}

func TestSelectQueryBindingsOrderIndependent(t *testing.T) {
	s1 := New()
	s1.Add(itemTriple("http://example.org/a"))
	s1.Add(itemTriple("http://example.org/b"))

	s2 := New()
	s2.Add(itemTriple("http://example.org/b"))
	s2.Add(itemTriple("http://example.org/a"))

	q := `SELECT ?x WHERE { ?x <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/gv#Item> }`
	r1, err := s1.Query(q)
	require.NoError(t, err)
	r2, err := s2.Query(q)
	require.NoError(t, err)

	require.ElementsMatch(t, canonRows(r1), canonRows(r2))
}

func canonRows(r QueryResult) [][]byte {
	out := make([][]byte, 0, len(r.Bindings))
	for _, b := range r.Bindings {
		out = append(out, Canonicalize(QueryResult{Bindings: []Binding{b}}))
	}
	return out
}

func TestConstructNonEmpty(t *testing.T) {
	s := New()
	s.Add(itemTriple("http://example.org/a"))

	sub, err := s.Construct(`CONSTRUCT { ?x <http://example.org/gv#seen> <http://example.org/gv#true> } WHERE { ?x <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/gv#Item> }`)
	require.NoError(t, err)
	require.Equal(t, 1, sub.Size())
}

func TestOptionalAndUnion(t *testing.T) {
	s := New()
	s.Add(rdf.Triple{Subject: rdf.NewIRI("http://ex/a"), Predicate: rdf.NewIRI(rdf.RDFType), Object: rdf.NewIRI("http://ex/A")})
	s.Add(rdf.Triple{Subject: rdf.NewIRI("http://ex/b"), Predicate: rdf.NewIRI(rdf.RDFType), Object: rdf.NewIRI("http://ex/B")})

	q := `SELECT ?x WHERE { { ?x <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://ex/A> } UNION { ?x <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://ex/B> } }`
	res, err := s.Query(q)
	require.NoError(t, err)
	require.Len(t, res.Bindings, 2)
}

func TestFilterThresholdComparison(t *testing.T) {
	s := New()
	s.Add(rdf.Triple{
		Subject:   rdf.NewIRI("http://ex/count"),
		Predicate: rdf.NewIRI("http://ex/value"),
		Object:    rdf.NewLiteral("10", "http://www.w3.org/2001/XMLSchema#integer", ""),
	})

	res, err := s.Query(`SELECT ?c WHERE { ?s <http://ex/value> ?c FILTER(?c >= 10) }`)
	require.NoError(t, err)
	require.Len(t, res.Bindings, 1)
	require.Equal(t, "10", res.Bindings[0]["c"].Value)
}
