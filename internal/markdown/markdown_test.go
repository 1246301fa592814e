package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_BasicMarkdown(t *testing.T) {
	e := New("monokai")

	out, err := e.Render("# Title\n\nSome **bold** text.")
	require.NoError(t, err)

	require.Contains(t, out, `<h1 id="title">Title</h1>`)
	require.Contains(t, out, "<strong>bold</strong>")
}

func TestRender_HardWraps_NewlineBecomesBreak(t *testing.T) {
	e := New("monokai")

	out, err := e.Render("line one\nline two")
	require.NoError(t, err)

	require.Contains(t, out, "<br")
}

func TestRender_GFMTable(t *testing.T) {
	e := New("monokai")

	out, err := e.Render("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)

	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<td>1</td>")
}

func TestRender_RawHTMLPassedThrough(t *testing.T) {
	e := New("monokai")

	out, err := e.Render(`<div class="custom">hi</div>`)
	require.NoError(t, err)

	require.Contains(t, out, `<div class="custom">hi</div>`)
}

func TestRender_FencedCode_LanguageLabeled(t *testing.T) {
	e := New("monokai")

	out, err := e.Render("```python\nprint('hi')\n```")
	require.NoError(t, err)

	require.Contains(t, out, `<div class="highlight">`)
	require.Contains(t, out, `<span class="code-lang">python</span>`)
	require.Contains(t, out, "</div>")
}

func TestRender_FencedCode_TextAndUntagged_NoLabel(t *testing.T) {
	e := New("monokai")

	for _, body := range []string{
		"```text\nplain\n```",
		"```\nplain\n```",
	} {
		out, err := e.Render(body)
		require.NoError(t, err)
		require.Contains(t, out, `<div class="highlight">`)
		require.NotContains(t, out, "code-lang")
	}
}

func TestRender_FootnoteNumbering_FreshPerDocument(t *testing.T) {
	e := New("monokai")
	body := "A claim.[^1]\n\n[^1]: The source."

	first, err := e.Render(body)
	require.NoError(t, err)
	second, err := e.Render(body)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, strings.Count(first, "fn:1"), strings.Count(second, "fn:1"))
}

func TestPygmentsCSS_KnownStyle_EmitsHighlightClasses(t *testing.T) {
	css, err := PygmentsCSS("monokai")
	require.NoError(t, err)

	require.Contains(t, css, "/* Background */")
	require.Contains(t, css, ".bg")
}

func TestPygmentsCSS_UnknownStyle_FallsBack(t *testing.T) {
	css, err := PygmentsCSS("definitely-not-a-style")
	require.NoError(t, err)

	require.NotEmpty(t, css)
}
