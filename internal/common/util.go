package common

import (
	"strconv"
	"strings"
)

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used for private key material read from the terminal.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ParseIntOrZero parses s as a base-10 integer after trimming spaces.
// Any parse failure yields 0 instead of an error: numeric draft fields are
// coerced, never rejected.
func ParseIntOrZero(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// SameAccount reports whether two textual account identifiers are equal,
// ignoring case (hex addresses may arrive checksummed or lowercased).
func SameAccount(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
