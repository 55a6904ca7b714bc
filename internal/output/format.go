// Package output renders an OutputStep's text into one of
// the engine's supported document formats and writes it to disk (spec
// §4.6 OutputStep, §6 format auto-derivation).
package output

import (
	"path/filepath"
	"strings"

	"github.com/knowledgehooks/khook/internal/domain/hook"
)

// ResolveFormat turns hook.FormatAuto into a concrete format by
// inspecting outputPath's extension; any other format passes through
// unchanged. Unknown extensions fall back to markdown.
func ResolveFormat(format hook.OutputFormat, outputPath string) hook.OutputFormat {
	if format != hook.FormatAuto {
		return format
	}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".md", ".markdown":
		return hook.FormatMarkdown
	case ".html", ".htm":
		return hook.FormatHTML
	case ".tex", ".latex":
		return hook.FormatLatex
	case ".xlsx", ".xls":
		return hook.FormatXLSX
	case ".pptx", ".ppt":
		return hook.FormatPPTX
	case ".docx", ".doc":
		return hook.FormatDOCX
	default:
		return hook.FormatMarkdown
	}
}
