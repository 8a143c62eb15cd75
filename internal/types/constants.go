package types

import "strings"

const ContextUserKey = "user"

// Default allowed origins for development
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// AllowedOrigins merges the development defaults with configured origins, skipping blanks and repeats.
func AllowedOrigins(configured []string) []string {
	origins := make([]string, 0, len(defaultOrigins)+len(configured))
	seen := make(map[string]bool)

	for _, origin := range append(append([]string{}, defaultOrigins...), configured...) {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		origins = append(origins, trimmed)
	}

	return origins
}
