package gateway

import (
	"path"
	"strings"
)

var assetExtensions = map[string]bool{
	".js":   true,
	".mjs":  true,
	".css":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".avif": true,
	".svg":  true,
	".ico":  true,
	".xml":  true,
	".json": true,
	".txt":  true,
	".map":  true,
}

// IsAsset reports whether p is static content that is never prerendered.
func IsAsset(p string) bool {
	if strings.HasPrefix(p, "/assets/") || strings.HasPrefix(p, "/favicon") {
		return true
	}
	return assetExtensions[strings.ToLower(path.Ext(p))]
}
