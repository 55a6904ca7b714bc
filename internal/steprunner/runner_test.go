package steprunner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/graphstore"
	"github.com/knowledgehooks/khook/internal/rdf"
	"github.com/stretchr/testify/require"
)

func TestRunFileStepWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	step := hook.Step{
		ID:   "s1",
		Kind: hook.StepFile,
		File: &hook.FileStep{Path: path, Operation: hook.FileOpWrite, Content: "hello"},
	}
	ectx := hook.NewExecutionContext(time.Now())
	res, err := Run(context.Background(), Deps{}, ectx, step, 0)
	require.NoError(t, err)
	require.True(t, res.Success)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestRunFileStepCreateFailsIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	step := hook.Step{
		ID:   "s1",
		Kind: hook.StepFile,
		File: &hook.FileStep{Path: path, Operation: hook.FileOpCreate, Content: "y"},
	}
	ectx := hook.NewExecutionContext(time.Now())
	res, err := Run(context.Background(), Deps{}, ectx, step, 0)
	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestRunFileStepDeleteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.txt")

	step := hook.Step{
		ID:   "s1",
		Kind: hook.StepFile,
		File: &hook.FileStep{Path: path, Operation: hook.FileOpDelete},
	}
	ectx := hook.NewExecutionContext(time.Now())
	res, err := Run(context.Background(), Deps{}, ectx, step, 0)
	require.NoError(t, err)
	require.True(t, res.Success)
}

func TestRunSparqlStep(t *testing.T) {
	store := graphstore.New()
	store.Add(rdf.Triple{
		Subject:   rdf.NewIRI("http://ex/a"),
		Predicate: rdf.NewIRI(rdf.RDFType),
		Object:    rdf.NewIRI("http://ex/Item"),
	})

	step := hook.Step{
		ID:     "s1",
		Kind:   hook.StepSparql,
		Sparql: &hook.SparqlStep{Query: `SELECT ?x WHERE { ?x a <http://ex/Item> }`},
	}
	ectx := hook.NewExecutionContext(time.Now())
	res, err := Run(context.Background(), Deps{Graph: store}, ectx, step, 0)
	require.NoError(t, err)
	require.True(t, res.Success)

	qr, ok := res.Data.(graphstore.QueryResult)
	require.True(t, ok)
	require.Len(t, qr.Bindings, 1)
}

func TestRunTemplateStepWritesOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.md")

	step := hook.Step{
		ID:       "s1",
		Kind:     hook.StepTemplate,
		Template: &hook.TemplateStep{Body: "hello {{.name}}", OutputPath: path},
	}
	ectx := hook.NewExecutionContext(time.Now())
	ectx.Set("name", "world")

	res, err := Run(context.Background(), Deps{}, ectx, step, 0)
	require.NoError(t, err)
	require.True(t, res.Success)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))
}

func TestRunCliStepCapturesExitCode(t *testing.T) {
	step := hook.Step{
		ID:  "s1",
		Kind: hook.StepCli,
		Cli: &hook.CliStep{Command: "exit 3"},
	}
	ectx := hook.NewExecutionContext(time.Now())
	res, err := Run(context.Background(), Deps{}, ectx, step, 5*time.Second)
	require.NoError(t, err)
	require.True(t, res.Success)

	result, ok := res.Data.(cliResult)
	require.True(t, ok)
	require.Equal(t, 3, result.ExitCode)
}

func TestEffectiveTimeoutPicksSmaller(t *testing.T) {
	require.Equal(t, 2*time.Second, EffectiveTimeout(hook.StepCli, 2*time.Second, 5*time.Second))
	require.Equal(t, 5*time.Second, EffectiveTimeout(hook.StepCli, 10*time.Second, 5*time.Second))
	require.Equal(t, DefaultCliTimeout, EffectiveTimeout(hook.StepCli, 0, 0))
}

func TestEffectiveTimeoutNonCliFallsBackToOrchestratorTimeout(t *testing.T) {
	require.Equal(t, 5*time.Second, EffectiveTimeout(hook.StepHTTP, 0, 5*time.Second))
	require.Equal(t, 5*time.Second, EffectiveTimeout(hook.StepTemplate, 0, 5*time.Second))
	require.Equal(t, time.Duration(0), EffectiveTimeout(hook.StepSparql, 0, 0))
}
