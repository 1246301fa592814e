package content

import (
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// frontMatterPattern matches a leading `---` line, a YAML block, and a
// closing `---` line. Anything else is treated as a document without front
// matter.
var frontMatterPattern = regexp.MustCompile(`(?s)\A---[ \t\r]*\n(.*?)\n---[ \t\r]*\n`)

// ParseFrontMatter splits raw Markdown into front matter and body.
//
// A document that does not begin with the exact delimiter pattern yields the
// default front matter and the whole input as body. A matched block whose
// YAML fails to parse (or parses to something other than a mapping) yields
// the default front matter and the content after the delimiters as body.
// Malformed metadata never produces an error.
func ParseFrontMatter(raw string) (FrontMatter, string) {
	m := frontMatterPattern.FindStringSubmatchIndex(raw)
	if m == nil {
		return DefaultFrontMatter(), raw
	}

	block := raw[m[2]:m[3]]
	body := raw[m[1]:]

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil || fields == nil {
		return DefaultFrontMatter(), body
	}

	return frontMatterFromFields(fields), body
}

// frontMatterFromFields maps known keys into the typed struct and collects
// everything else into Extra.
func frontMatterFromFields(fields map[string]any) FrontMatter {
	fm := DefaultFrontMatter()

	for key, value := range fields {
		switch key {
		case "title":
			if s, ok := value.(string); ok && s != "" {
				fm.Title = s
			}
		case "date":
			if d, ok := parseDateValue(value); ok {
				fm.Date = &d
			}
		case "tags":
			fm.Tags = stringSlice(value)
		case "description":
			if s, ok := value.(string); ok {
				fm.Description = s
			}
		case "draft":
			if b, ok := value.(bool); ok {
				fm.Draft = b
			}
		case "featured":
			if b, ok := value.(bool); ok {
				fm.Featured = b
			}
		case "featured_order":
			if n, ok := intValue(value); ok {
				fm.FeaturedOrder = &n
			}
		case "visibility":
			if s, ok := value.(string); ok && s != "" {
				fm.Visibility = s
			}
		case "nav_order":
			if n, ok := intValue(value); ok {
				fm.NavOrder = &n
			}
		case "template":
			if s, ok := value.(string); ok {
				fm.Template = s
			}
		case "theme":
			if s, ok := value.(string); ok {
				fm.Theme = s
			}
		case "author":
			if s, ok := value.(string); ok {
				fm.Author = s
			}
		default:
			fm.Extra[key] = value
		}
	}

	return fm
}

// parseDateValue accepts an ISO 8601 date string or a YAML-resolved
// timestamp. An unparsable date is dropped, not an error.
func parseDateValue(value any) (time.Time, bool) {
	switch v := value.(type) {
	case string:
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, false
		}
		return d, true
	case time.Time:
		return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func stringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
