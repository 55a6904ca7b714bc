package steprunner

import (
	"fmt"
	"os"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

type fileResult struct {
	Path          string `json:"path"`
	Operation     string `json:"operation"`
	BytesWritten  int    `json:"bytesWritten,omitempty"`
}

// runFile performs FileStep's filesystem mutation: create fails if the
// target exists, write replaces, append creates-or-appends, delete is
// idempotent (spec §4.6).
func runFile(step *hook.FileStep) (interface{}, error) {
	switch step.Operation {
	case hook.FileOpCreate:
		f, err := os.OpenFile(step.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, khookerrors.NewIoFailure("create "+step.Path, err)
		}
		defer f.Close()
		n, err := f.WriteString(step.Content)
		if err != nil {
			return nil, khookerrors.NewIoFailure("create "+step.Path, err)
		}
		return fileResult{Path: step.Path, Operation: string(step.Operation), BytesWritten: n}, nil

	case hook.FileOpWrite:
		if err := os.WriteFile(step.Path, []byte(step.Content), 0o644); err != nil {
			return nil, khookerrors.NewIoFailure("write "+step.Path, err)
		}
		return fileResult{Path: step.Path, Operation: string(step.Operation), BytesWritten: len(step.Content)}, nil

	case hook.FileOpAppend:
		f, err := os.OpenFile(step.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, khookerrors.NewIoFailure("append "+step.Path, err)
		}
		defer f.Close()
		n, err := f.WriteString(step.Content)
		if err != nil {
			return nil, khookerrors.NewIoFailure("append "+step.Path, err)
		}
		return fileResult{Path: step.Path, Operation: string(step.Operation), BytesWritten: n}, nil

	case hook.FileOpDelete:
		if err := os.Remove(step.Path); err != nil && !os.IsNotExist(err) {
			return nil, khookerrors.NewIoFailure("delete "+step.Path, err)
		}
		return fileResult{Path: step.Path, Operation: string(step.Operation)}, nil

	default:
		return nil, fmt.Errorf("unknown file operation %q", step.Operation)
	}
}
