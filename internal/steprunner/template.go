package steprunner

import (
	"os"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/templaterender"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// templateResult is a TemplateStep's result data: the rendered text
// and, if OutputPath was set, the number of bytes written.
type templateResult struct {
	Rendered      string `json:"rendered"`
	BytesWritten  int    `json:"bytesWritten,omitempty"`
	WroteToOutput bool   `json:"wroteToOutput"`
}

func runTemplate(stepID string, ectx *hook.ExecutionContext, step *hook.TemplateStep) (interface{}, error) {
	body := step.Body
	if body == "" && step.BodyPath != "" {
		data, err := os.ReadFile(step.BodyPath)
		if err != nil {
			return nil, khookerrors.NewIoFailure("read "+step.BodyPath, err)
		}
		body = string(data)
	}

	rendered, err := templaterender.Render(stepID, body, ectx.Vars)
	if err != nil {
		return nil, err
	}

	result := templateResult{Rendered: rendered}
	if step.OutputPath != "" {
		if err := os.WriteFile(step.OutputPath, []byte(rendered), 0o644); err != nil {
			return nil, khookerrors.NewIoFailure("write "+step.OutputPath, err)
		}
		result.BytesWritten = len(rendered)
		result.WroteToOutput = true
	}
	return result, nil
}
