package fetch

import (
	"path"
	"strings"
)

// contentTypes maps known file extensions to MIME types for binary serving.
var contentTypes = map[string]string{
	".ico":  "image/x-icon",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".css":  "text/css",
	".js":   "application/javascript",
}

// contentTypeFor infers a content type from the file extension; unknown
// extensions map to a generic binary type.
func contentTypeFor(p string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(p))]; ok {
		return ct
	}
	return "application/octet-stream"
}
