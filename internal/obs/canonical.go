package obs

import "strings"

// knownPaths are the routes served by the API; anything else is collapsed
// into a single label to keep metric cardinality bounded.
var knownPaths = map[string]bool{
	"/":                       true,
	"/healthz":                true,
	"/readyz":                 true,
	"/metrics":                true,
	"/v1/info":                true,
	"/v1/services":            true,
	"/v1/appointments":        true,
	"/v1/appointments/stream": true,
	"/v1/auth/login":          true,
	"/v1/auth/logout":         true,
	"/v1/auth/session":        true,
}

// CanonicalPath normalizes a request path for metric labels: the query is
// dropped and unknown paths map to "other".
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if knownPaths[path] {
		return path
	}
	return "other"
}
