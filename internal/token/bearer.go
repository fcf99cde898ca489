package token

import "strings"

// ParseBearer extracts the token from an "Authorization: Bearer <token>" header value.
// The scheme is matched case-insensitively and exactly two fields are required.
func ParseBearer(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
