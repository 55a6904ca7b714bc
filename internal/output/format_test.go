package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/stretchr/testify/require"
)

func TestResolveFormatFromExtension(t *testing.T) {
	require.Equal(t, hook.FormatMarkdown, ResolveFormat(hook.FormatAuto, "report.md"))
	require.Equal(t, hook.FormatHTML, ResolveFormat(hook.FormatAuto, "report.html"))
	require.Equal(t, hook.FormatXLSX, ResolveFormat(hook.FormatAuto, "report.xlsx"))
	require.Equal(t, hook.FormatMarkdown, ResolveFormat(hook.FormatAuto, "report.unknown"))
	require.Equal(t, hook.FormatPPTX, ResolveFormat(hook.FormatPPTX, "ignored.ext"))
}

func TestWriteMarkdownPassthrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.md")

	n, err := Write("s1", hook.FormatMarkdown, "# Title\nbody", path)
	require.NoError(t, err)
	require.Equal(t, int64(len("# Title\nbody")), n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# Title\nbody", string(data))
}

func TestWriteHTMLConvertsMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.html")

	_, err := Write("s1", hook.FormatHTML, "# Title", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "<h1>")
}

func TestWritePPTXProducesSlideMarkers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.pptx")

	_, err := Write("s1", hook.FormatPPTX, "slide one\n---\nslide two", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "=== Slide 1 ===")
	require.Contains(t, string(data), "=== Slide 2 ===")
}
