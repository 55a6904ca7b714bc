package steprunner

import (
	"github.com/knowledgehooks/khook/internal/domain/hook"
)

// runSparql executes a SELECT query and returns the full bindings
// sequence for the orchestrator/contextmgr to store or map from (spec
// §4.6 SparqlStep).
func runSparql(deps Deps, step *hook.SparqlStep) (interface{}, error) {
	res, err := deps.Graph.Query(step.Query)
	if err != nil {
		return nil, err
	}
	return res, nil
}
