package theme

import (
	"html/template"
	"strings"
	"time"
)

// defaultDateLayout is the human-readable pattern used when a template does
// not pass an explicit layout.
const defaultDateLayout = "January 2, 2006"

// funcMap returns the formatting helpers available to every template.
func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":      formatDate,
		"accentFirstWord": accentFirstWord,
		"accentLastWord":  accentLastWord,
		"safeHTML":        safeHTML,
	}
}

// formatDate renders a date with an optional layout override. Nil dates
// render as the empty string so templates need no nil checks.
func formatDate(t *time.Time, layout ...string) string {
	if t == nil {
		return ""
	}
	l := defaultDateLayout
	if len(layout) > 0 && layout[0] != "" {
		l = layout[0]
	}
	return t.Format(l)
}

// accentFirstWord wraps the first whitespace-delimited word of value in an
// accent span for styling. Empty input yields empty output.
func accentFirstWord(value string) template.HTML {
	if value == "" {
		return ""
	}
	first, rest, found := strings.Cut(value, " ")
	out := `<span class="accent">` + template.HTMLEscapeString(first) + `</span>`
	if found {
		out += " " + template.HTMLEscapeString(rest)
	}
	return template.HTML(out)
}

// accentLastWord wraps the last whitespace-delimited word of value in an
// accent span.
func accentLastWord(value string) template.HTML {
	if value == "" {
		return ""
	}
	idx := strings.LastIndex(value, " ")
	if idx < 0 {
		return template.HTML(`<span class="accent">` + template.HTMLEscapeString(value) + `</span>`)
	}
	head, last := value[:idx], value[idx+1:]
	return template.HTML(template.HTMLEscapeString(head) + ` <span class="accent">` + template.HTMLEscapeString(last) + `</span>`)
}

func safeHTML(value string) template.HTML {
	return template.HTML(value)
}
