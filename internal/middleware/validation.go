package middleware

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Input validation for the request boundary. Whether a password is empty is
// decided by the analysis service; these checks only cap abuse.

// Session ids are opaque caller-supplied partition keys; allow a generous but
// bounded charset so they are safe as log fields and query parameters.
var sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._:-]{1,128}$`)

// ValidateSessionID validates the session id format.
func ValidateSessionID(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session_id cannot be empty")
	}
	if !sessionIDPattern.MatchString(sessionID) {
		return fmt.Errorf("invalid session_id format (alphanumeric, dot, underscore, colon, dash; max 128 chars)")
	}
	return nil
}

// MaxPasswordLength bounds submitted passwords. Anything longer is abuse, not
// a credential.
const MaxPasswordLength = 256

// ValidatePasswordLength rejects oversized submissions.
func ValidatePasswordLength(password string) error {
	if utf8.RuneCountInString(password) > MaxPasswordLength {
		return fmt.Errorf("password exceeds %d characters", MaxPasswordLength)
	}
	return nil
}

// ValidateLimit clamps a pagination limit to sane bounds.
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// ValidateSkip clamps a pagination offset.
func ValidateSkip(skip int) int {
	if skip < 0 {
		return 0
	}
	return skip
}
