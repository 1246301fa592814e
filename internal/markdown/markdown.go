// Package markdown renders Markdown bodies to HTML with syntax-highlighted
// code blocks, and generates the matching highlight stylesheets.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// Engine renders Markdown to HTML. A single instance is safe for reuse: each
// Render call runs with a fresh parser context, so footnote numbering and
// heading IDs never leak between documents.
type Engine struct {
	md goldmark.Markdown
}

// New constructs an engine with the extended syntax the content pipeline
// expects: GFM tables, footnotes, definition lists, attribute lists, smart
// typographic quotes, newline-to-break conversion, auto heading anchors, and
// fenced code highlighting with class-based chroma output.
func New(highlightStyle string) *Engine {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(
					html.WithClasses(true),
				),
				highlighting.WithWrapperRenderer(wrapCodeBlock),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithUnsafe(),
		),
	)

	return &Engine{md: md}
}

// Render converts a Markdown body to HTML.
func (e *Engine) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(body), &buf, parser.WithContext(parser.NewContext())); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// wrapCodeBlock wraps highlighted code in the pygments-style container and
// labels it with the fence language. Blocks tagged `text` and untagged
// blocks get no label.
func wrapCodeBlock(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if !entering {
		_, _ = w.WriteString("</div>")
		return
	}

	_, _ = w.WriteString(`<div class="highlight">`)
	if lang, ok := c.Language(); ok && len(lang) > 0 && string(lang) != "text" {
		_, _ = w.WriteString(`<span class="code-lang">`)
		_, _ = w.Write(util.EscapeHTML(lang))
		_, _ = w.WriteString("</span>")
	}
}

// PygmentsCSS generates a complete stylesheet for the named chroma style,
// with the class names the engine's highlighted output uses. Unknown style
// names fall back to the chroma default so the endpoint always serves CSS.
func PygmentsCSS(styleName string) (string, error) {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := html.New(html.WithClasses(true))
	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("write highlight css: %w", err)
	}
	return buf.String(), nil
}
