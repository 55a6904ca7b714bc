package hook

// PredicateKind identifies which of the five predicate evaluation
// strategies a Predicate carries.
type PredicateKind string

const (
	PredicateAsk            PredicateKind = "ASK"
	PredicateSelectThreshold PredicateKind = "SELECTThreshold"
	PredicateResultDelta     PredicateKind = "ResultDelta"
	PredicateSHACL           PredicateKind = "SHACL"
	PredicateConstruct       PredicateKind = "Construct"
)

// ThresholdOp is the comparison operator a SELECTThreshold predicate
// applies to the bound value of its threshold variable.
type ThresholdOp string

const (
	OpLT ThresholdOp = "<"
	OpLE ThresholdOp = "<="
	OpGT ThresholdOp = ">"
	OpGE ThresholdOp = ">="
	OpEQ ThresholdOp = "=="
	OpNE ThresholdOp = "!="
)

// AskPredicate fires when its SPARQL ASK query evaluates true.
type AskPredicate struct {
	Query string
}

// SelectThresholdPredicate fires when the first row of its SELECT
// query, projected onto Variable, satisfies Op against Threshold.
type SelectThresholdPredicate struct {
	Query     string
	Variable  string
	Op        ThresholdOp
	Threshold float64
}

// ResultDeltaPredicate fires when the canonicalised, hashed result of
// its SELECT query differs from the hash recorded for the same query
// against the previous graph snapshot.
type ResultDeltaPredicate struct {
	Query string
}

// SHACLPredicate fires when validating the current graph against
// ShapesDoc (a Turtle document of minimal node-shape constraints)
// produces at least one validation report.
type SHACLPredicate struct {
	ShapesDoc string
}

// ConstructPredicate fires when its CONSTRUCT query yields a non-empty
// graph.
type ConstructPredicate struct {
	Query string
}

// Predicate is the tagged-union wrapper around the five predicate
// kinds. Exactly one of the pointer fields matching Kind is non-nil.
type Predicate struct {
	Kind PredicateKind

	Ask             *AskPredicate
	SelectThreshold *SelectThresholdPredicate
	ResultDelta     *ResultDeltaPredicate
	SHACL           *SHACLPredicate
	Construct       *ConstructPredicate
}
