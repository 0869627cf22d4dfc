package heuristic

import "strings"

// A small embedded set of the most common leaked passwords. Matching is
// case-insensitive and exact; this is a tripwire, not a full dictionary.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"passw0rd":    {},
	"123456":      {},
	"1234567":     {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty":      {},
	"qwerty123":   {},
	"abc123":      {},
	"letmein":     {},
	"welcome":     {},
	"monkey":      {},
	"dragon":      {},
	"iloveyou":    {},
	"admin":       {},
	"login":       {},
	"princess":    {},
	"sunshine":    {},
	"master":      {},
	"shadow":      {},
	"football":    {},
	"baseball":    {},
	"trustno1":    {},
	"superman":    {},
	"111111":      {},
	"000000":      {},
	"654321":      {},
	"1q2w3e4r":    {},
}

func isCommonPassword(password string) bool {
	_, ok := commonPasswords[strings.ToLower(password)]
	return ok
}
