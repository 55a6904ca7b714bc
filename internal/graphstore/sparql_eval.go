package graphstore

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/knowledgehooks/khook/internal/rdf"
)

// binding is one row of variable→term assignments.
type binding map[string]rdf.Term

func (b binding) clone() binding {
	out := make(binding, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// sortedTriples returns the store's triples in a stable, deterministic
// order so that repeated evaluation of the same triple set always
// visits patterns identically (spec §8 idempotence / §3 purity
// invariant).
func sortedTriples(s *Store) []rdf.Triple {
	all := s.All()
	sort.Slice(all, func(i, j int) bool { return all[i].Key() < all[j].Key() })
	return all
}

func evaluateGroup(group groupGraphPattern, store *Store, seed []binding) []binding {
	bindings := seed
	for _, el := range group.elements {
		switch e := el.(type) {
		case triplePatternElement:
			bindings = joinPattern(bindings, e.pattern, store)
		case filterElement:
			bindings = filterBindings(bindings, e.expr)
		case optionalElement:
			bindings = leftJoin(bindings, e.group, store)
		case unionElement:
			bindings = unionJoin(bindings, e.left, e.right, store)
		}
	}
	return bindings
}

func joinPattern(bindings []binding, pattern triplePattern, store *Store) []binding {
	var out []binding
	triples := sortedTriples(store)
	for _, b := range bindings {
		for _, t := range triples {
			nb, ok := matchTriple(pattern, t, b)
			if ok {
				out = append(out, nb)
			}
		}
	}
	return out
}

func matchTriple(pattern triplePattern, t rdf.Triple, b binding) (binding, bool) {
	nb := b.clone()
	if !matchTerm(pattern.subject, t.Subject, nb) {
		return nil, false
	}
	if !matchTerm(pattern.predicate, t.Predicate, nb) {
		return nil, false
	}
	if !matchTerm(pattern.object, t.Object, nb) {
		return nil, false
	}
	return nb, true
}

func matchTerm(pt patternTerm, actual rdf.Term, b binding) bool {
	if !pt.isVar {
		return pt.term.Equal(actual)
	}
	if existing, bound := b[pt.name]; bound {
		return existing.Equal(actual)
	}
	b[pt.name] = actual
	return true
}

func leftJoin(bindings []binding, optGroup groupGraphPattern, store *Store) []binding {
	var out []binding
	for _, b := range bindings {
		sub := evaluateGroup(optGroup, store, []binding{b})
		if len(sub) == 0 {
			out = append(out, b)
			continue
		}
		out = append(out, sub...)
	}
	return out
}

func unionJoin(bindings []binding, left, right groupGraphPattern, store *Store) []binding {
	var out []binding
	for _, b := range bindings {
		out = append(out, evaluateGroup(left, store, []binding{b})...)
		out = append(out, evaluateGroup(right, store, []binding{b})...)
	}
	return out
}

func filterBindings(bindings []binding, expr filterExpr) []binding {
	var out []binding
	for _, b := range bindings {
		if evalFilter(expr, b) {
			out = append(out, b)
		}
	}
	return out
}

func evalFilter(expr filterExpr, b binding) bool {
	lv, lok := resolveOperand(expr.left, b)
	rv, rok := resolveOperand(expr.right, b)
	if !lok || !rok {
		return false
	}
	lf, lIsNum := asFloat(lv)
	rf, rIsNum := asFloat(rv)
	if lIsNum && rIsNum {
		switch expr.op {
		case opLT:
			return lf < rf
		case opLE:
			return lf <= rf
		case opGT:
			return lf > rf
		case opGE:
			return lf >= rf
		case opEQ:
			return lf == rf
		case opNE:
			return lf != rf
		}
	}
	switch expr.op {
	case opEQ:
		return lv.Equal(rv)
	case opNE:
		return !lv.Equal(rv)
	case opLT:
		return lv.Value < rv.Value
	case opLE:
		return lv.Value <= rv.Value
	case opGT:
		return lv.Value > rv.Value
	case opGE:
		return lv.Value >= rv.Value
	}
	return false
}

func resolveOperand(op filterOperand, b binding) (rdf.Term, bool) {
	if op.isVar {
		v, ok := b[op.varName]
		return v, ok
	}
	return op.literal, true
}

func asFloat(t rdf.Term) (float64, bool) {
	if t.Kind != rdf.Literal {
		return 0, false
	}
	f, err := strconv.ParseFloat(t.Value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func collectVars(group groupGraphPattern) []string {
	seen := map[string]bool{}
	var order []string
	var walk func(g groupGraphPattern)
	add := func(pt patternTerm) {
		if pt.isVar && !seen[pt.name] {
			seen[pt.name] = true
			order = append(order, pt.name)
		}
	}
	walk = func(g groupGraphPattern) {
		for _, el := range g.elements {
			switch e := el.(type) {
			case triplePatternElement:
				add(e.pattern.subject)
				add(e.pattern.predicate)
				add(e.pattern.object)
			case optionalElement:
				walk(e.group)
			case unionElement:
				walk(e.left)
				walk(e.right)
			}
		}
	}
	walk(group)
	sort.Strings(order)
	return order
}

func orderBindings(bindings []binding, orderBy []string) {
	if len(orderBy) == 0 {
		return
	}
	sort.SliceStable(bindings, func(i, j int) bool {
		for _, v := range orderBy {
			a, aok := bindings[i][v]
			bb, bok := bindings[j][v]
			if !aok && !bok {
				continue
			}
			if !aok {
				return true
			}
			if !bok {
				return false
			}
			if af, aIsNum := asFloat(a); aIsNum {
				if bf, bIsNum := asFloat(bb); bIsNum {
					if af != bf {
						return af < bf
					}
					continue
				}
			}
			if a.Value != bb.Value {
				return a.Value < bb.Value
			}
		}
		return false
	})
}

func constructTriples(tmpl []triplePattern, bindings []binding) []rdf.Triple {
	var out []rdf.Triple
	for i, b := range bindings {
		for _, tp := range tmpl {
			s, sok := resolveConstructTerm(tp.subject, b, i)
			p, pok := resolveConstructTerm(tp.predicate, b, i)
			o, ook := resolveConstructTerm(tp.object, b, i)
			if !sok || !pok || !ook {
				continue
			}
			out = append(out, rdf.Triple{Subject: s, Predicate: p, Object: o})
		}
	}
	return out
}

func resolveConstructTerm(pt patternTerm, b binding, row int) (rdf.Term, bool) {
	if !pt.isVar {
		return pt.term, true
	}
	if v, ok := b[pt.name]; ok {
		return v, true
	}
	if pt.name == "" {
		return rdf.Term{}, false
	}
	// Unbound template variable: materialise a row-scoped blank node so
	// repeated CONSTRUCT template blanks don't collapse across rows.
	return rdf.NewBlankNode(fmt.Sprintf("%s_%d", pt.name, row)), true
}
