package predicate

import (
	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/graphstore"
	"github.com/knowledgehooks/khook/internal/rdf"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// Minimal SHACL-like constraint vocabulary (spec §3 SHACL predicate:
// "fired iff any sh:ValidationResult exists"; shapesDoc's exact
// grammar is left to the engine). Shapes are themselves Turtle:
// a sh:NodeShape has sh:targetClass and one or more sh:property
// blocks, each an sh:path with optional sh:minCount/sh:maxCount.
const (
	shNS          = "http://www.w3.org/ns/shacl#"
	shNodeShape   = shNS + "NodeShape"
	shTargetClass = shNS + "targetClass"
	shProperty    = shNS + "property"
	shPath        = shNS + "path"
	shMinCount    = shNS + "minCount"
	shMaxCount    = shNS + "maxCount"
)

// evaluateSHACL parses ShapesDoc as Turtle, validates every instance
// of each shape's target class in current against its property
// constraints, and fires iff any violation was found.
func evaluateSHACL(hookID hook.HookID, p *hook.SHACLPredicate, current *graphstore.Store) (Result, error) {
	shapeTriples, err := rdf.DecodeTurtle(p.ShapesDoc)
	if err != nil {
		return Result{}, khookerrors.NewPredicateFailure(string(hookID), err)
	}
	shapeStore := graphstore.FromTriples(shapeTriples)

	violations := 0
	shapes := findNodeShapes(shapeStore)
	for _, sh := range shapes {
		targets := instancesOfClass(current, sh.targetClass)
		for _, node := range targets {
			for _, pc := range sh.properties {
				count := countPropertyValues(current, node, pc.path)
				if pc.minCount > 0 && count < pc.minCount {
					violations++
				}
				if pc.maxCount > 0 && count > pc.maxCount {
					violations++
				}
			}
		}
	}

	return Result{Fired: violations > 0}, nil
}

type propertyConstraint struct {
	path     string
	minCount int
	maxCount int
}

type nodeShape struct {
	targetClass string
	properties  []propertyConstraint
}

func findNodeShapes(shapeStore *graphstore.Store) []nodeShape {
	triples := shapeStore.All()

	byPred := func(subj rdf.Term, pred string) []rdf.Term {
		var out []rdf.Term
		for _, t := range triples {
			if t.Subject.Equal(subj) && t.Predicate.Value == pred {
				out = append(out, t.Object)
			}
		}
		return out
	}

	var shapeNodes []rdf.Term
	for _, t := range triples {
		if t.Predicate.Value == rdf.RDFType && t.Object.Value == shNodeShape {
			shapeNodes = append(shapeNodes, t.Subject)
		}
	}

	var shapes []nodeShape
	for _, sn := range shapeNodes {
		tc := byPred(sn, shTargetClass)
		if len(tc) == 0 {
			continue
		}
		sh := nodeShape{targetClass: tc[0].Value}
		for _, propNode := range byPred(sn, shProperty) {
			pc := propertyConstraint{}
			if paths := byPred(propNode, shPath); len(paths) > 0 {
				pc.path = paths[0].Value
			}
			if mins := byPred(propNode, shMinCount); len(mins) > 0 {
				pc.minCount = atoiOrZero(mins[0].Value)
			}
			if maxs := byPred(propNode, shMaxCount); len(maxs) > 0 {
				pc.maxCount = atoiOrZero(maxs[0].Value)
			}
			sh.properties = append(sh.properties, pc)
		}
		shapes = append(shapes, sh)
	}
	return shapes
}

func instancesOfClass(store *graphstore.Store, class string) []rdf.Term {
	var out []rdf.Term
	for _, t := range store.All() {
		if t.Predicate.Value == rdf.RDFType && t.Object.Value == class {
			out = append(out, t.Subject)
		}
	}
	return out
}

func countPropertyValues(store *graphstore.Store, node rdf.Term, path string) int {
	count := 0
	for _, t := range store.All() {
		if t.Subject.Equal(node) && t.Predicate.Value == path {
			count++
		}
	}
	return count
}

func atoiOrZero(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
