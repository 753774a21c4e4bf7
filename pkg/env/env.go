package env

import "os"

// Get reads an environment variable, returning fallback when it is unset
// or empty. Structured configuration goes through pkg/config; this is for
// the few ad-hoc lookups that happen before config loads.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
