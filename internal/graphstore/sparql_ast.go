package graphstore

import "github.com/knowledgehooks/khook/internal/rdf"

// QueryKind tags the three query forms the evaluator supports (spec
// §3: ASK/SELECT are the Graph Store contract; CONSTRUCT is required
// by the Construct predicate and step kind).
type QueryKind int

const (
	KindASK QueryKind = iota
	KindSELECT
	KindCONSTRUCT
)

// patternTerm is either a bound RDF term or a SPARQL variable.
type patternTerm struct {
	isVar bool
	name  string // variable name, without leading '?'
	term  rdf.Term
}

type triplePattern struct {
	subject, predicate, object patternTerm
}

// graphPatternElement is one element of a WHERE (or OPTIONAL/UNION
// sub-) group.
type graphPatternElement interface{ isGraphPatternElement() }

type triplePatternElement struct{ pattern triplePattern }
type filterElement struct{ expr filterExpr }
type optionalElement struct{ group groupGraphPattern }
type unionElement struct{ left, right groupGraphPattern }

func (triplePatternElement) isGraphPatternElement() {}
func (filterElement) isGraphPatternElement()        {}
func (optionalElement) isGraphPatternElement()      {}
func (unionElement) isGraphPatternElement()         {}

type groupGraphPattern struct {
	elements []graphPatternElement
}

type filterOp int

const (
	opLT filterOp = iota
	opLE
	opGT
	opGE
	opEQ
	opNE
)

type filterOperand struct {
	isVar   bool
	varName string
	literal rdf.Term
}

type filterExpr struct {
	left, right filterOperand
	op          filterOp
}

type query struct {
	kind          QueryKind
	selectVars    []string // empty means "select *"
	constructTmpl []triplePattern
	where         groupGraphPattern
	orderBy       []string
}
