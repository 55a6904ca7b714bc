package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/knowledgehooks/khook/internal/config"
	"github.com/knowledgehooks/khook/internal/logging"
	"github.com/stretchr/testify/require"
)

const askHookFixture = `
<http://example.org/hooks/h1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://knowledgehooks.org/ns/gh#Hook> ;
  <http://purl.org/dc/terms/title> "Notify on item" ;
  <http://knowledgehooks.org/ns/gh#hasPredicate> <http://example.org/hooks/h1/pred> ;
  <http://knowledgehooks.org/ns/gh#orderedPipelines> ( <http://example.org/hooks/h1/pipeline1> ) .

<http://example.org/hooks/h1/pred> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://knowledgehooks.org/ns/gh#ASKPredicate> ;
  <http://knowledgehooks.org/ns/gh#queryText> "ASK WHERE { ?x a <http://knowledgehooks.org/ns/gv#Item> }" .

<http://example.org/hooks/h1/pipeline1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://knowledgehooks.org/ns/op#Pipeline> ;
  <http://knowledgehooks.org/ns/op#steps> ( <http://example.org/hooks/h1/step1> ) .

<http://example.org/hooks/h1/step1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://knowledgehooks.org/ns/gv#FileStep> ;
  <http://knowledgehooks.org/ns/op#stepId> "s1" ;
  <http://knowledgehooks.org/ns/gv#filePath> %q ;
  <http://knowledgehooks.org/ns/gv#operation> "write" ;
  <http://knowledgehooks.org/ns/gv#content> "fired" .

<http://example.org/a> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://knowledgehooks.org/ns/gv#Item> .
`

func newTestOrchestrator(t *testing.T, graphDir, dataDir string) *Orchestrator {
	t.Helper()
	cfg := &config.Config{GraphDir: graphDir, DataDir: dataDir, WorkerPoolSize: 2}
	require.NoError(t, config.Validate(cfg))
	logger := logging.New(logging.Options{Writer: io.Discard})
	return New(cfg, logger)
}

func TestEvaluateAskHookFires(t *testing.T) {
	graphDir := t.TempDir()
	dataDir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, os.WriteFile(filepath.Join(graphDir, "hook.ttl"), []byte(fmt.Sprintf(askHookFixture, outPath)), 0o644))

	o := newTestOrchestrator(t, graphDir, dataDir)
	defer o.Close()

	result, err := o.Evaluate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.HooksEvaluated)
	require.Equal(t, 1, result.HooksTriggered)
	require.Equal(t, 1, result.WorkflowsExecuted)
	require.Equal(t, 1, result.WorkflowsSuccessful)
	require.Len(t, result.Executions, 1)
	require.True(t, result.Executions[0].Success)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, "fired", string(data))
}

func TestListHooksDoesNotExecuteSteps(t *testing.T) {
	graphDir := t.TempDir()
	dataDir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, os.WriteFile(filepath.Join(graphDir, "hook.ttl"), []byte(fmt.Sprintf(askHookFixture, outPath)), 0o644))

	o := newTestOrchestrator(t, graphDir, dataDir)
	defer o.Close()

	hooks, errs, err := o.ListHooks(context.Background())
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, hooks, 1)

	_, statErr := os.Stat(outPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestValidateHookDetectsCycle(t *testing.T) {
	graphDir := t.TempDir()
	dataDir := t.TempDir()

	cyclic := `
<http://example.org/hooks/h2> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://knowledgehooks.org/ns/gh#Hook> ;
  <http://knowledgehooks.org/ns/gh#hasPredicate> <http://example.org/hooks/h2/pred> ;
  <http://knowledgehooks.org/ns/gh#orderedPipelines> ( <http://example.org/hooks/h2/pipeline1> ) .

<http://example.org/hooks/h2/pred> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://knowledgehooks.org/ns/gh#ASKPredicate> ;
  <http://knowledgehooks.org/ns/gh#queryText> "ASK WHERE { ?x a <http://knowledgehooks.org/ns/gv#Item> }" .

<http://example.org/hooks/h2/pipeline1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://knowledgehooks.org/ns/op#Pipeline> ;
  <http://knowledgehooks.org/ns/op#steps> ( <http://example.org/hooks/h2/step1> <http://example.org/hooks/h2/step2> ) .

<http://example.org/hooks/h2/step1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://knowledgehooks.org/ns/gv#FileStep> ;
  <http://knowledgehooks.org/ns/op#stepId> "s1" ;
  <http://knowledgehooks.org/ns/gv#dependsOn> "s2" ;
  <http://knowledgehooks.org/ns/gv#filePath> "/tmp/x1.txt" ;
  <http://knowledgehooks.org/ns/gv#operation> "write" ;
  <http://knowledgehooks.org/ns/gv#content> "x" .

<http://example.org/hooks/h2/step2> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://knowledgehooks.org/ns/gv#FileStep> ;
  <http://knowledgehooks.org/ns/op#stepId> "s2" ;
  <http://knowledgehooks.org/ns/gv#dependsOn> "s1" ;
  <http://knowledgehooks.org/ns/gv#filePath> "/tmp/x2.txt" ;
  <http://knowledgehooks.org/ns/gv#operation> "write" ;
  <http://knowledgehooks.org/ns/gv#content> "y" .
`
	require.NoError(t, os.WriteFile(filepath.Join(graphDir, "hook.ttl"), []byte(cyclic), 0o644))

	o := newTestOrchestrator(t, graphDir, dataDir)
	defer o.Close()

	err := o.ValidateHook(context.Background(), "http://example.org/hooks/h2")
	require.Error(t, err)
}
