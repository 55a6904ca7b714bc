package steprunner

import (
	"os"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/output"
	"github.com/knowledgehooks/khook/internal/templaterender"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

type outputResult struct {
	OutputPath string            `json:"outputPath"`
	Format     hook.OutputFormat `json:"format"`
	Bytes      int64             `json:"bytes"`
}

// runOutput renders step's body (or the file at TemplatePath) against
// the execution context, resolves format=auto from OutputPath's
// extension, and writes the rendered document (spec §4.6 OutputStep).
func runOutput(stepID string, ectx *hook.ExecutionContext, step *hook.OutputStep) (interface{}, error) {
	body := step.Body
	if body == "" && step.TemplatePath != "" {
		data, err := os.ReadFile(step.TemplatePath)
		if err != nil {
			return nil, khookerrors.NewIoFailure("read "+step.TemplatePath, err)
		}
		body = string(data)
	}

	rendered, err := templaterender.Render(stepID, body, ectx.Vars)
	if err != nil {
		return nil, err
	}

	format := output.ResolveFormat(step.Format, step.OutputPath)
	n, err := output.Write(stepID, format, rendered, step.OutputPath)
	if err != nil {
		return nil, err
	}

	return outputResult{OutputPath: step.OutputPath, Format: format, Bytes: n}, nil
}
