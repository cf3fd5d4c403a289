package envutil

import (
	"os"
	"strings"
)

// String reads a trimmed environment variable, falling back to def when it
// is unset or blank.
func String(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}
