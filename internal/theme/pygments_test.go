package theme

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillhost/quill/internal/content"
)

func TestPygmentsCSSURL_BundledThemeMatchingStyle_StaticFile(t *testing.T) {
	cfg := content.DefaultConfig() // monokai

	require.Equal(t, "/static/default/pygments.css", PygmentsCSSURL("default", cfg))
	require.Equal(t, "/static/blue-tech/pygments.css", PygmentsCSSURL("blue-tech", cfg))
}

func TestPygmentsCSSURL_TerminalTheme_CSSSubdirectory(t *testing.T) {
	cfg := content.DefaultConfig()

	require.Equal(t, "/static/terminal/css/pygments.css", PygmentsCSSURL("terminal", cfg))
}

func TestPygmentsCSSURL_NonDefaultStyle_DynamicEndpoint(t *testing.T) {
	cfg := content.DefaultConfig()
	cfg.Theme.PygmentsStyle = "dracula"

	require.Equal(t, "/pygments.css", PygmentsCSSURL("default", cfg))
	require.Equal(t, "/pygments.css", PygmentsCSSURL("terminal", cfg))
}

func TestPygmentsCSSURL_UnknownTheme_DynamicEndpoint(t *testing.T) {
	require.Equal(t, "/pygments.css", PygmentsCSSURL("my-custom-theme", content.DefaultConfig()))
}
