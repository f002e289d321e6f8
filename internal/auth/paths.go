package auth

import (
	"path"
	"strings"
)

// DefaultPublicPaths never require an actor
var DefaultPublicPaths = []string{"/health", "/readiness", "/version", "/metrics"}

// IsPublicPath reports whether requestPath falls under one of publicPaths.
// A public path covers itself and everything below it, segment by segment, so
// "/metrics" admits "/metrics/raw" but not "/metricsz". Paths are cleaned
// before matching; a path carrying an encoded "/" or "." is never public.
func IsPublicPath(requestPath string, publicPaths []string) bool {
	if hasEncodedSeparator(requestPath) {
		return false
	}
	target := rooted(requestPath)

	for _, p := range publicPaths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		prefix := rooted(p)
		if prefix == "/" || target == prefix || strings.HasPrefix(target, prefix+"/") {
			return true
		}
	}
	return false
}

func hasEncodedSeparator(p string) bool {
	lower := strings.ToLower(p)
	return strings.Contains(lower, "%2f") || strings.Contains(lower, "%2e")
}

// rooted cleans p and anchors it at "/"
func rooted(p string) string {
	return path.Clean("/" + p)
}
