// Package validation holds the input checks applied before any mutation of
// the subscriber list.
package validation

import "regexp"

// emailPattern accepts local@domain.tld where no part contains whitespace or
// a second "@". Whitespace covers the Unicode separators and the byte order
// mark, not only ASCII blanks. It is intentionally permissive and not
// RFC 5322 complete.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// IsValidEmail reports whether candidate has the shape local@domain.tld.
func IsValidEmail(candidate string) bool {
	if candidate == "" {
		return false
	}
	return emailPattern.MatchString(candidate)
}
