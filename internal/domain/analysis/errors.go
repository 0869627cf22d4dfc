package analysis

import "errors"

// ErrInvalidInput indicates an empty or malformed request; surfaced to the
// caller as a client error.
var ErrInvalidInput = errors.New("invalid input")

// ErrExternalService indicates the AI capability was unreachable, timed out,
// or returned unparseable data. It is recovered locally via the heuristic
// fallback and never reaches the caller.
var ErrExternalService = errors.New("external analysis service failed")

// ErrPersistence indicates a store write or read failure; surfaced as a
// server error.
var ErrPersistence = errors.New("persistence failure")

// ErrUnauthorized indicates bad or missing admin credentials.
var ErrUnauthorized = errors.New("unauthorized")
