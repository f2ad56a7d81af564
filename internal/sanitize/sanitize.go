// internal/sanitize/sanitize.go
package sanitize

import "github.com/microcosm-cc/bluemonday"

// policy strips every HTML element and escapes what remains, so usernames
// and chat text are safe to render verbatim on the client.
var policy = bluemonday.StrictPolicy()

// Escape returns a display-safe version of s.
func Escape(s string) string {
	return policy.Sanitize(s)
}
