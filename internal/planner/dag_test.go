package planner

import (
	"testing"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/stretchr/testify/require"
)

func sparqlStep(id string, dependsOn ...string) hook.Step {
	s := hook.Step{ID: hook.StepID(id), Kind: hook.StepSparql, Sparql: &hook.SparqlStep{Query: "ASK {}"}}
	for _, d := range dependsOn {
		s.DependsOn = append(s.DependsOn, hook.StepID(d))
	}
	return s
}

func TestBuildPreservesDeclaredOrderForTies(t *testing.T) {
	steps := []hook.Step{
		sparqlStep("s1"),
		sparqlStep("s2"),
		sparqlStep("s3", "s1"),
	}

	g, err := Build("h1", steps)
	require.NoError(t, err)

	flat := g.FlattenedOrder()

	posOf := func(id hook.StepID) int {
		for i, x := range flat {
			if x == id {
				return i
			}
		}
		return -1
	}

	require.Less(t, posOf("s1"), posOf("s3"))
	require.Contains(t, flat, hook.StepID("s2"))
	require.Less(t, posOf("s2"), posOf("s3"))
}

func TestBuildDetectsCycle(t *testing.T) {
	steps := []hook.Step{
		{ID: "a", DependsOn: []hook.StepID{"b"}, Kind: hook.StepSparql, Sparql: &hook.SparqlStep{}},
		{ID: "b", DependsOn: []hook.StepID{"a"}, Kind: hook.StepSparql, Sparql: &hook.SparqlStep{}},
	}
	_, err := Build("h1", steps)
	require.Error(t, err)
}

func TestBuildUnknownDependency(t *testing.T) {
	steps := []hook.Step{
		{ID: "a", DependsOn: []hook.StepID{"ghost"}, Kind: hook.StepSparql, Sparql: &hook.SparqlStep{}},
	}
	_, err := Build("h1", steps)
	require.Error(t, err)
}

func TestBuildImplicitChainWithoutDependsOn(t *testing.T) {
	steps := []hook.Step{
		sparqlStep("s1"),
		sparqlStep("s2"),
		sparqlStep("s3"),
	}
	g, err := Build("h1", steps)
	require.NoError(t, err)
	require.Equal(t, []hook.StepID{"s1"}, g.Levels[0])
	require.Equal(t, []hook.StepID{"s2"}, g.Levels[1])
	require.Equal(t, []hook.StepID{"s3"}, g.Levels[2])
}
