package theme

import "github.com/quillhost/quill/internal/content"

// themePygmentsDefaults maps each bundled theme to the highlight style its
// shipped static stylesheet was generated from. When the operator's
// configured style matches, the hand-tuned static file is served; when it
// differs, the dynamic endpoint keeps class names in sync with rendered
// output.
var themePygmentsDefaults = map[string]string{
	"default":   "monokai",
	"blue-tech": "monokai",
	"terminal":  "monokai",
}

// PygmentsCSSURL returns the stylesheet URL for highlighted code under the
// given theme.
func PygmentsCSSURL(themeName string, cfg *content.Config) string {
	themeDefault, known := themePygmentsDefaults[themeName]
	if known && cfg.Theme.PygmentsStyle == themeDefault {
		// The terminal theme keeps its stylesheets under a css/ subdirectory.
		if themeName == "terminal" {
			return "/static/" + themeName + "/css/pygments.css"
		}
		return "/static/" + themeName + "/pygments.css"
	}
	return "/pygments.css"
}
