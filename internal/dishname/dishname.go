// Package dishname normalises dish names for lookup and uniqueness.
package dishname

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Key returns the lookup key for a dish name.
// Names that differ only in case, surrounding or repeated whitespace, or
// Unicode composition map to the same key.
func Key(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(collapsed))
}

// IsBlank reports whether the name has no visible characters.
func IsBlank(name string) bool {
	return strings.TrimSpace(name) == ""
}
