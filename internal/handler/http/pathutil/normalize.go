package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
var pathPatterns = []*PathPattern{
	// Article routes with IDs
	{Pattern: regexp.MustCompile(`^/articles/[^/]+/comments$`), Template: "/articles/:id/comments"},
	{Pattern: regexp.MustCompile(`^/articles/[^/]+$`), Template: "/articles/:id"},

	// Swagger UI assets
	{Pattern: regexp.MustCompile(`^/swagger/.+$`), Template: "/swagger/*"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths with IDs (e.g., /articles/01JA...) to template format (e.g., /articles/:id).
// Static paths remain unchanged.
//
// Examples:
//
//	NormalizePath("/articles/01JABCDEFGHJKMNPQRSTVWXYZ0")          // "/articles/:id"
//	NormalizePath("/articles/01JABCDEFGHJKMNPQRSTVWXYZ0/comments") // "/articles/:id/comments"
//	NormalizePath("/articles")                                     // "/articles" (unchanged)
//	NormalizePath("/health")                                       // "/health" (unchanged)
//	NormalizePath("/swagger/index.html")                           // "/swagger/*"
//
// Query parameters and trailing slashes are handled:
//
//	NormalizePath("/articles/abc?page=1")   // "/articles/:id"
//	NormalizePath("/articles/abc/")         // "/articles/:id"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// No match found, return original path
	return path
}
