package content

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// RewriteImageURLs rewrites relative image sources in rendered HTML to
// absolute /static/user/ paths.
//
// Only <img> src attributes are considered, via a tag-aware token scan so
// that URL-looking text inside code blocks is never touched. Absolute URLs
// are left alone. A relative src is resolved against the directory of the
// source content file and must land under static/ after normalization of
// the URL-decoded form; anything that fails that check is left completely
// unmodified so a traversal attempt degrades to a broken image, never a
// read outside static/.
func RewriteImageURLs(rendered, sourcePath string) string {
	sources := collectImageSources(rendered)
	if len(sources) == 0 {
		return rendered
	}

	dir := path.Dir(sourcePath)

	replacements := map[string]string{}
	for _, src := range sources {
		if isAbsoluteURL(src) {
			continue
		}

		resolved := path.Clean(path.Join(dir, src))
		rest, ok := staticRelativePath(resolved)
		if !ok {
			continue
		}
		replacements[src] = "/static/user/" + rest
	}

	for old, repl := range replacements {
		rendered = strings.ReplaceAll(rendered, `src="`+old+`"`, `src="`+repl+`"`)
		rendered = strings.ReplaceAll(rendered, `src='`+old+`'`, `src='`+repl+`'`)
	}
	return rendered
}

// collectImageSources scans HTML tokens for <img> src attribute values.
func collectImageSources(rendered string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(rendered))

	var sources []string
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return sources
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		name, hasAttr := tokenizer.TagName()
		if string(name) != "img" || !hasAttr {
			continue
		}
		for {
			key, value, more := tokenizer.TagAttr()
			if string(key) == "src" && len(value) > 0 {
				sources = append(sources, string(value))
			}
			if !more {
				break
			}
		}
	}
}

func isAbsoluteURL(src string) bool {
	return strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "//") ||
		strings.HasPrefix(src, "/")
}

// staticRelativePath validates that resolved points at a real file under
// static/ and returns the path relative to static/. The check runs on the
// URL-decoded form to defeat percent-encoded traversal (%2e%2e and
// friends); undecodable input fails closed.
func staticRelativePath(resolved string) (string, bool) {
	decoded, err := url.PathUnescape(resolved)
	if err != nil {
		return "", false
	}
	normalized := path.Clean(decoded)

	parts := strings.Split(normalized, "/")
	if len(parts) < 2 || parts[0] != "static" {
		return "", false
	}
	for _, part := range parts {
		if part == ".." {
			return "", false
		}
	}

	return strings.Join(parts[1:], "/"), true
}
