package predicate

import (
	"testing"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/graphstore"
	"github.com/knowledgehooks/khook/internal/rdf"
	"github.com/stretchr/testify/require"
)

func overdueTriple(id string) rdf.Triple {
	return rdf.Triple{
		Subject:   rdf.NewIRI("http://ex/" + id),
		Predicate: rdf.NewIRI(rdf.RDFType),
		Object:    rdf.NewIRI("http://ex/Overdue"),
	}
}

func countTriple(n int) rdf.Triple {
	return rdf.Triple{
		Subject:   rdf.NewIRI("http://ex/counter"),
		Predicate: rdf.NewIRI("http://ex/count"),
		Object:    rdf.NewLiteral(itoa(n), "http://www.w3.org/2001/XMLSchema#integer", ""),
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestSelectThresholdBoundary(t *testing.T) {
	cases := []struct {
		n        int
		op       hook.ThresholdOp
		t        float64
		expected bool
	}{
		{5, hook.OpGT, 5, false},
		{6, hook.OpGT, 5, true},
		{5, hook.OpGE, 5, true},
		{4, hook.OpGE, 5, false},
	}

	for _, tc := range cases {
		store := graphstore.New()
		store.Add(countTriple(tc.n))

		p := &hook.SelectThresholdPredicate{
			Query:     `SELECT ?c WHERE { ?s <http://ex/count> ?c }`,
			Variable:  "c",
			Op:        tc.op,
			Threshold: tc.t,
		}
		res, err := evaluateSelectThreshold("h1", p, store)
		require.NoError(t, err)
		require.Equal(t, tc.expected, res.Fired, "n=%d op=%s threshold=%v", tc.n, tc.op, tc.t)
	}
}

func TestSelectThresholdEmptyResultIsZero(t *testing.T) {
	store := graphstore.New()
	p := &hook.SelectThresholdPredicate{
		Query:     `SELECT ?c WHERE { ?s <http://ex/count> ?c }`,
		Variable:  "c",
		Op:        hook.OpEQ,
		Threshold: 0,
	}
	res, err := evaluateSelectThreshold("h1", p, store)
	require.NoError(t, err)
	require.True(t, res.Fired)
}

func TestResultDeltaFiresWhenPreviousAbsent(t *testing.T) {
	current := graphstore.New()
	current.Add(overdueTriple("a"))

	pred := &hook.ResultDeltaPredicate{Query: `SELECT ?x WHERE { ?x a <http://ex/Overdue> }`}
	res, err := evaluateResultDelta("h1", pred, current, nil)
	require.NoError(t, err)
	require.True(t, res.Fired)
}

func TestResultDeltaStableAcrossRowOrder(t *testing.T) {
	current := graphstore.New()
	current.Add(overdueTriple("a"))
	current.Add(overdueTriple("b"))

	previous := graphstore.New()
	previous.Add(overdueTriple("b"))
	previous.Add(overdueTriple("a"))

	pred := &hook.ResultDeltaPredicate{Query: `SELECT ?x WHERE { ?x a <http://ex/Overdue> }`}
	res, err := evaluateResultDelta("h1", pred, current, previous)
	require.NoError(t, err)
	require.False(t, res.Fired)
}

func TestResultDeltaFiresOnChange(t *testing.T) {
	current := graphstore.New()
	current.Add(overdueTriple("a"))
	current.Add(overdueTriple("b"))

	previous := graphstore.New()
	previous.Add(overdueTriple("a"))

	pred := &hook.ResultDeltaPredicate{Query: `SELECT ?x WHERE { ?x a <http://ex/Overdue> }`}
	res, err := evaluateResultDelta("h1", pred, current, previous)
	require.NoError(t, err)
	require.True(t, res.Fired)
}

func TestAskPredicateFires(t *testing.T) {
	current := graphstore.New()
	current.Add(overdueTriple("a"))

	res, err := Evaluate("h1", hook.Predicate{
		Kind: hook.PredicateAsk,
		Ask:  &hook.AskPredicate{Query: `ASK WHERE { ?x a <http://ex/Overdue> }`},
	}, current, nil)
	require.NoError(t, err)
	require.True(t, res.Fired)
}

func TestSHACLFiresOnMinCountViolation(t *testing.T) {
	current := graphstore.New()
	current.Add(rdf.Triple{
		Subject:   rdf.NewIRI("http://ex/item1"),
		Predicate: rdf.NewIRI(rdf.RDFType),
		Object:    rdf.NewIRI("http://ex/Item"),
	})

	shapesDoc := `
<http://ex/ItemShape> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/ns/shacl#NodeShape> ;
  <http://www.w3.org/ns/shacl#targetClass> <http://ex/Item> ;
  <http://www.w3.org/ns/shacl#property> [
    <http://www.w3.org/ns/shacl#path> <http://ex/label> ;
    <http://www.w3.org/ns/shacl#minCount> "1"
  ] .
`
	res, err := Evaluate("h1", hook.Predicate{
		Kind:  hook.PredicateSHACL,
		SHACL: &hook.SHACLPredicate{ShapesDoc: shapesDoc},
	}, current, nil)
	require.NoError(t, err)
	require.True(t, res.Fired)
}
