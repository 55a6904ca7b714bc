package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/knowledgehooks/khook/internal/domain/hook"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
)

// Write renders text (already template-rendered, markdown-flavoured
// plain text) in format and writes it to outputPath, creating parent
// directories as needed. It returns the number of bytes of the
// underlying encoded file written, for the step result.
func Write(stepID string, format hook.OutputFormat, text, outputPath string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, khookerrors.NewIoFailure("mkdir", err)
	}

	switch format {
	case hook.FormatMarkdown:
		return writeBytes(outputPath, []byte(text))
	case hook.FormatHTML:
		return writeHTML(outputPath, text)
	case hook.FormatLatex:
		return writeLatex(outputPath, text)
	case hook.FormatXLSX:
		return writeXLSX(stepID, outputPath, text)
	case hook.FormatDOCX:
		return writeDOCX(stepID, outputPath, text)
	case hook.FormatPPTX:
		return writePPTX(outputPath, text)
	default:
		return 0, khookerrors.NewIoFailure("render", fmt.Errorf("unsupported output format %q", format))
	}
}

func writeBytes(path string, data []byte) (int64, error) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, khookerrors.NewIoFailure("write "+path, err)
	}
	return int64(len(data)), nil
}

func writeHTML(path, text string) (int64, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return 0, khookerrors.NewIoFailure("render html", err)
	}
	return writeBytes(path, buf.Bytes())
}

// writeLatex wraps the rendered text in a minimal article document.
// The engine does not interpret LaTeX markup in the input: text is
// escaped for the handful of characters LaTeX treats specially.
func writeLatex(path, text string) (int64, error) {
	var sb strings.Builder
	sb.WriteString("\\documentclass{article}\n\\begin{document}\n")
	sb.WriteString(escapeLatex(text))
	sb.WriteString("\n\\end{document}\n")
	return writeBytes(path, []byte(sb.String()))
}

func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\textbackslash{}",
		"&", "\\&",
		"%", "\\%",
		"$", "\\$",
		"#", "\\#",
		"_", "\\_",
		"{", "\\{",
		"}", "\\}",
	)
	return replacer.Replace(s)
}

// writeXLSX treats text as a grid: one row per line, cells
// comma-separated. This is a deliberately simple contract, since
// OutputStep's input is rendered text, not a structured spreadsheet
// model.
func writeXLSX(stepID, path, text string) (int64, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"
	for r, line := range strings.Split(text, "\n") {
		for c, cell := range strings.Split(line, ",") {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return 0, khookerrors.NewIoFailure("xlsx cell ref for step "+stepID, err)
			}
			if err := f.SetCellValue(sheet, ref, strings.TrimSpace(cell)); err != nil {
				return 0, khookerrors.NewIoFailure("xlsx set cell for step "+stepID, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return 0, khookerrors.NewIoFailure("xlsx save", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, khookerrors.NewIoFailure("xlsx stat", err)
	}
	return info.Size(), nil
}

// writeDOCX renders one paragraph per line of text.
func writeDOCX(stepID, path, text string) (int64, error) {
	w := docx.New()
	for _, line := range strings.Split(text, "\n") {
		w.AddParagraph().AddText(line)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, khookerrors.NewIoFailure("docx create for step "+stepID, err)
	}
	defer f.Close()

	n, err := w.WriteTo(f)
	if err != nil {
		return 0, khookerrors.NewIoFailure("docx write for step "+stepID, err)
	}
	return n, nil
}

// writePPTX renders a plain-text deck: slides are delimited by a line
// containing only "---", matching how the rendered Markdown body would
// naturally separate sections. No pptx library in the dependency
// corpus produces a faithful Open XML presentation from plain text
// without a much larger templating investment (see DESIGN.md), so the
// engine downgrades pptx output to this deterministic text structure
// rather than emitting a fake/corrupt binary.
func writePPTX(path, text string) (int64, error) {
	slides := strings.Split(text, "\n---\n")
	var sb strings.Builder
	for i, slide := range slides {
		fmt.Fprintf(&sb, "=== Slide %d ===\n%s\n", i+1, strings.TrimSpace(slide))
	}
	return writeBytes(path, []byte(sb.String()))
}
