package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteImageURLs_RelativeStaticPath_Rewritten(t *testing.T) {
	in := `<p><img src="../static/images/pic.png" alt="pic"></p>`

	out := RewriteImageURLs(in, "posts/2024-03-01-hello.md")

	require.Equal(t, `<p><img src="/static/user/images/pic.png" alt="pic"></p>`, out)
}

func TestRewriteImageURLs_SingleQuotedAttribute_Rewritten(t *testing.T) {
	in := `<img src='../static/photo.jpg'>`

	out := RewriteImageURLs(in, "posts/hello.md")

	require.Equal(t, `<img src='/static/user/photo.jpg'>`, out)
}

func TestRewriteImageURLs_AbsoluteURLs_Untouched(t *testing.T) {
	cases := []string{
		`<img src="https://example.com/a.png">`,
		`<img src="http://example.com/a.png">`,
		`<img src="//example.com/a.png">`,
		`<img src="/static/user/already.png">`,
	}
	for _, in := range cases {
		require.Equal(t, in, RewriteImageURLs(in, "posts/hello.md"))
	}
}

func TestRewriteImageURLs_TraversalOutsideStatic_Untouched(t *testing.T) {
	in := `<img src="../../../etc/passwd">`

	out := RewriteImageURLs(in, "posts/hello.md")

	require.Equal(t, in, out)
}

func TestRewriteImageURLs_PercentEncodedTraversal_Untouched(t *testing.T) {
	in := `<img src="%2e%2e/%2e%2e/etc/passwd">`

	out := RewriteImageURLs(in, "posts/hello.md")

	require.Equal(t, in, out)
}

func TestRewriteImageURLs_RelativeOutsideStatic_Untouched(t *testing.T) {
	in := `<img src="../other/pic.png">`

	out := RewriteImageURLs(in, "posts/hello.md")

	require.Equal(t, in, out)
}

func TestRewriteImageURLs_URLInCodeBlock_Untouched(t *testing.T) {
	in := `<pre><code>&lt;img src="../static/pic.png"&gt;</code></pre>`

	out := RewriteImageURLs(in, "posts/hello.md")

	require.Equal(t, in, out)
}

func TestRewriteImageURLs_Idempotent(t *testing.T) {
	in := `<img src="../static/pic.png">`

	once := RewriteImageURLs(in, "posts/hello.md")
	twice := RewriteImageURLs(once, "posts/hello.md")

	require.Equal(t, once, twice)
}

func TestRewriteImageURLs_StaticRootFileOnly_NeedsSubpath(t *testing.T) {
	// A src resolving to bare "static" with no file under it is not a
	// valid asset reference.
	in := `<img src="../static">`

	out := RewriteImageURLs(in, "posts/hello.md")

	require.Equal(t, in, out)
}
