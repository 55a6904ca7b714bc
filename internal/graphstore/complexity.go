package graphstore

import "strings"

// Complexity is a diagnostic-only classification of a query's shape
// (spec §4.3: "used only for diagnostic reporting, never for
// correctness").
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// AnalyzeComplexity counts FILTER/OPTIONAL/UNION clauses and triple
// pattern joins in the query text and buckets the result. It is a
// lexical heuristic, not a parse of the query AST, so it tolerates
// queries this engine's own parser would reject.
func AnalyzeComplexity(queryText string) Complexity {
	upper := strings.ToUpper(queryText)
	score := strings.Count(upper, "FILTER") + strings.Count(upper, "OPTIONAL") + strings.Count(upper, "UNION")
	joins := strings.Count(queryText, ".")
	if joins > 1 {
		score += joins - 1
	}
	switch {
	case score >= 4:
		return ComplexityHigh
	case score >= 1:
		return ComplexityMedium
	default:
		return ComplexityLow
	}
}
