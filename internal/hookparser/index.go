package hookparser

import (
	"sort"

	"github.com/knowledgehooks/khook/internal/rdf"
)

// index is a fast lookup over a triple set, built once per parse and
// used for every structural walk (class membership, property access,
// collection traversal) instead of re-scanning the whole store.
type index struct {
	bySubjPred map[string][]rdf.Term // subject|predicate -> objects, in insertion order
	byType     map[string][]rdf.Term // class IRI -> subjects, sorted lexicographically
}

func buildIndex(triples []rdf.Triple) *index {
	ix := &index{
		bySubjPred: make(map[string][]rdf.Term),
		byType:     make(map[string][]rdf.Term),
	}
	for _, t := range triples {
		key := t.Subject.Value + "\x00" + t.Predicate.Value
		ix.bySubjPred[key] = append(ix.bySubjPred[key], t.Object)
		if t.Predicate.Value == rdf.RDFType {
			ix.byType[t.Object.Value] = append(ix.byType[t.Object.Value], t.Subject)
		}
	}
	for k := range ix.byType {
		sort.Slice(ix.byType[k], func(i, j int) bool { return ix.byType[k][i].Value < ix.byType[k][j].Value })
	}
	return ix
}

// subjectsOfType returns every subject with rdf:type == class, in
// ascending IRI order (spec §4.8 step 1: lexicographic hook ordering).
func (ix *index) subjectsOfType(class string) []rdf.Term {
	return ix.byType[class]
}

// typeOf returns the first rdf:type object recognised among the
// caller-supplied candidate classes, or "" if none match.
func (ix *index) typeOf(subject rdf.Term, candidates ...string) string {
	key := subject.Value + "\x00" + rdf.RDFType
	objs := ix.bySubjPred[key]
	for _, want := range candidates {
		for _, o := range objs {
			if o.Value == want {
				return want
			}
		}
	}
	return ""
}

// one returns the single object bound to subject/predicate, if any.
func (ix *index) one(subject rdf.Term, predicate string) (rdf.Term, bool) {
	objs := ix.bySubjPred[subject.Value+"\x00"+predicate]
	if len(objs) == 0 {
		return rdf.Term{}, false
	}
	return objs[0], true
}

// all returns every object bound to subject/predicate.
func (ix *index) all(subject rdf.Term, predicate string) []rdf.Term {
	return ix.bySubjPred[subject.Value+"\x00"+predicate]
}

// collection walks an rdf:first/rdf:rest chain starting at head and
// returns the ordered list of items. A malformed chain (cycle, or a
// rdf:rest that isn't itself a list node) stops at the point of
// breakage and returns what was collected so far plus an error.
func (ix *index) collection(head rdf.Term) ([]rdf.Term, error) {
	var items []rdf.Term
	seen := map[string]bool{}
	cur := head
	for cur.Value != rdf.RDFNil {
		if seen[cur.Value] {
			return items, errCycle(cur.Value)
		}
		seen[cur.Value] = true
		first, ok := ix.one(cur, rdf.RDFFirst)
		if !ok {
			return items, errBrokenCollection(cur.Value)
		}
		items = append(items, first)
		rest, ok := ix.one(cur, rdf.RDFRest)
		if !ok {
			return items, errBrokenCollection(cur.Value)
		}
		cur = rest
	}
	return items, nil
}
