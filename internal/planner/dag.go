// Package planner builds an execution DAG out of a pipeline's ordered
// step list and computes a stable topological order from it.
package planner

import (
	"github.com/knowledgehooks/khook/internal/domain/hook"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// Node is a vertex in the execution DAG.
type Node struct {
	ID         hook.StepID
	Step       *hook.Step
	order      int // position in the original pipeline list
	DependsOn  []*Node
	Dependents []*Node
}

// Graph is the DAG built from one pipeline's steps, plus the levels
// computed by topologicalSort.
type Graph struct {
	Nodes  map[hook.StepID]*Node
	order  []hook.StepID // original declaration order, for stable tie-breaks
	Levels [][]hook.StepID
}

// Build constructs the DAG for a pipeline: an edge from each declared
// predecessor in Step.DependsOn, plus (for steps with no explicit
// predecessors) an implicit edge from the step immediately preceding
// it in the original list. This preserves the author-visible sequence
// while allowing explicit fan-out (spec §4.4).
func Build(hookID hook.HookID, steps []hook.Step) (*Graph, error) {
	g := &Graph{Nodes: make(map[hook.StepID]*Node, len(steps))}

	for i := range steps {
		s := &steps[i]
		if _, exists := g.Nodes[s.ID]; exists {
			return nil, khookerrors.NewInvalidPlan(string(hookID), "duplicate step id \""+string(s.ID)+"\"")
		}
		node := &Node{ID: s.ID, Step: s, order: i}
		g.Nodes[s.ID] = node
		g.order = append(g.order, s.ID)
	}

	for i, s := range steps {
		node := g.Nodes[s.ID]
		if len(s.DependsOn) == 0 {
			if i > 0 {
				prev := g.Nodes[steps[i-1].ID]
				addEdge(prev, node)
			}
			continue
		}
		for _, depID := range s.DependsOn {
			dep, ok := g.Nodes[depID]
			if !ok {
				return nil, khookerrors.NewInvalidPlan(string(hookID), "unknown dependency \""+string(depID)+"\" for step \""+string(s.ID)+"\"")
			}
			addEdge(dep, node)
		}
	}

	if err := g.topologicalSort(); err != nil {
		return nil, khookerrors.NewInvalidPlan(string(hookID), err.Error())
	}

	return g, nil
}

func addEdge(from, to *Node) {
	from.Dependents = append(from.Dependents, to)
	to.DependsOn = append(to.DependsOn, from)
}

// topologicalSort computes the DAG's execution levels using Kahn's
// algorithm. Unlike a generic scheduler, ties within a level break by
// original pipeline order rather than lexicographic id order, so that
// steps without an explicit ordering constraint preserve the order the
// hook author wrote them in (spec §4.4).
func (g *Graph) topologicalSort() error {
	indegree := make(map[hook.StepID]int, len(g.Nodes))
	for id := range g.Nodes {
		indegree[id] = 0
	}
	for _, node := range g.Nodes {
		for _, dependent := range node.Dependents {
			indegree[dependent.ID]++
		}
	}

	var queue []hook.StepID
	for _, id := range g.order {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	processed := 0
	var levels [][]hook.StepID

	for len(queue) > 0 {
		level := append([]hook.StepID(nil), queue...)
		levels = append(levels, level)

		var next []hook.StepID
		for _, id := range level {
			processed++
			node := g.Nodes[id]
			for _, dependent := range node.Dependents {
				indegree[dependent.ID]--
				if indegree[dependent.ID] == 0 {
					next = append(next, dependent.ID)
				}
			}
		}
		sortByOriginalOrder(next, g)
		queue = next
	}

	if processed != len(g.Nodes) {
		return errCycleDetected
	}

	g.Levels = levels
	return nil
}

func sortByOriginalOrder(ids []hook.StepID, g *Graph) {
	for i := 1; i < len(ids); i++ {
		j := i
		for j > 0 && g.Nodes[ids[j-1]].order > g.Nodes[ids[j]].order {
			ids[j-1], ids[j] = ids[j], ids[j-1]
			j--
		}
	}
}

// FlattenedOrder returns the full stable step order (levels
// concatenated), useful for callers that only need a total order
// rather than parallel groupings.
func (g *Graph) FlattenedOrder() []hook.StepID {
	var out []hook.StepID
	for _, level := range g.Levels {
		out = append(out, level...)
	}
	return out
}

var errCycleDetected = cycleError{}

type cycleError struct{}

func (cycleError) Error() string { return "cycle detected while sorting pipeline steps" }
