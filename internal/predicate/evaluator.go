// Package predicate implements the five predicate evaluation
// strategies a hook.Predicate may carry, against a current graph and
// (where relevant) a previous-snapshot graph.
package predicate

import (
	"crypto/sha256"
	"strconv"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/graphstore"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// Result is the outcome of evaluating a predicate: whether it fired,
// plus diagnostic-only metadata never used for correctness decisions.
type Result struct {
	Fired      bool
	Complexity graphstore.Complexity
}

// Evaluate dispatches to the strategy matching pred.Kind. previous may
// be nil, meaning no prior snapshot exists (spec §4.2: ResultDelta
// fires unconditionally in that case).
func Evaluate(hookID hook.HookID, pred hook.Predicate, current, previous *graphstore.Store) (Result, error) {
	switch pred.Kind {
	case hook.PredicateAsk:
		return evaluateAsk(hookID, pred.Ask, current)
	case hook.PredicateSelectThreshold:
		return evaluateSelectThreshold(hookID, pred.SelectThreshold, current)
	case hook.PredicateResultDelta:
		return evaluateResultDelta(hookID, pred.ResultDelta, current, previous)
	case hook.PredicateSHACL:
		return evaluateSHACL(hookID, pred.SHACL, current)
	case hook.PredicateConstruct:
		return evaluateConstruct(hookID, pred.Construct, current)
	default:
		return Result{}, khookerrors.NewPredicateFailure(string(hookID), errUnknownKind(string(pred.Kind)))
	}
}

func evaluateAsk(hookID hook.HookID, p *hook.AskPredicate, current *graphstore.Store) (Result, error) {
	res, err := current.Query(p.Query)
	if err != nil {
		return Result{}, khookerrors.NewPredicateFailure(string(hookID), err)
	}
	return Result{Fired: res.Boolean, Complexity: graphstore.AnalyzeComplexity(p.Query)}, nil
}

// evaluateSelectThreshold takes the first row's first bound column,
// parses it as an IEEE-754 double, and applies Op. An empty result set
// is treated as n = 0 (spec §4.2).
func evaluateSelectThreshold(hookID hook.HookID, p *hook.SelectThresholdPredicate, current *graphstore.Store) (Result, error) {
	res, err := current.Query(p.Query)
	if err != nil {
		return Result{}, khookerrors.NewPredicateFailure(string(hookID), err)
	}

	n := 0.0
	if len(res.Bindings) > 0 {
		var firstVar string
		if p.Variable != "" {
			firstVar = p.Variable
		} else if len(res.Vars) > 0 {
			firstVar = res.Vars[0]
		}
		if term, ok := res.Bindings[0][firstVar]; ok {
			parsed, err := strconv.ParseFloat(term.Value, 64)
			if err != nil {
				return Result{}, khookerrors.NewPredicateFailure(string(hookID), err)
			}
			n = parsed
		}
	}

	fired := applyThresholdOp(n, p.Op, p.Threshold)
	return Result{Fired: fired, Complexity: graphstore.AnalyzeComplexity(p.Query)}, nil
}

func applyThresholdOp(n float64, op hook.ThresholdOp, threshold float64) bool {
	switch op {
	case hook.OpLT:
		return n < threshold
	case hook.OpLE:
		return n <= threshold
	case hook.OpGT:
		return n > threshold
	case hook.OpGE:
		return n >= threshold
	case hook.OpEQ:
		return n == threshold
	case hook.OpNE:
		return n != threshold
	default:
		return false
	}
}

// evaluateResultDelta hashes the canonicalised query result against
// current and previous graphs; fires when the hashes differ or when
// previous is nil.
func evaluateResultDelta(hookID hook.HookID, p *hook.ResultDeltaPredicate, current, previous *graphstore.Store) (Result, error) {
	currentRes, err := current.Query(p.Query)
	if err != nil {
		return Result{}, khookerrors.NewPredicateFailure(string(hookID), err)
	}
	currentHash := hashResult(currentRes)

	if previous == nil {
		return Result{Fired: true, Complexity: graphstore.AnalyzeComplexity(p.Query)}, nil
	}

	previousRes, err := previous.Query(p.Query)
	if err != nil {
		return Result{}, khookerrors.NewPredicateFailure(string(hookID), err)
	}
	previousHash := hashResult(previousRes)

	return Result{Fired: currentHash != previousHash, Complexity: graphstore.AnalyzeComplexity(p.Query)}, nil
}

func hashResult(res graphstore.QueryResult) [32]byte {
	return sha256.Sum256(graphstore.Canonicalize(res))
}

func evaluateConstruct(hookID hook.HookID, p *hook.ConstructPredicate, current *graphstore.Store) (Result, error) {
	sub, err := current.Construct(p.Query)
	if err != nil {
		return Result{}, khookerrors.NewPredicateFailure(string(hookID), err)
	}
	return Result{Fired: sub.Size() > 0, Complexity: graphstore.AnalyzeComplexity(p.Query)}, nil
}

func errUnknownKind(kind string) error {
	return &unknownKindError{kind: kind}
}

type unknownKindError struct{ kind string }

func (e *unknownKindError) Error() string { return "unknown predicate kind: " + e.kind }
