package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AdminBasicAuth guards admin routes with HTTP basic auth against one
// configured credential pair. Every request is authorized independently; no
// session state exists. The gate fails closed: missing, malformed or
// partially-correct credentials are all rejected the same way, and an empty
// configured pair rejects everything.
func AdminBasicAuth(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username == "" || password == "" {
				unauthorized(w)
				return
			}
			user, pass, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}
			// Constant-time comparison on both parts; evaluate both before
			// branching so a wrong username costs the same as a wrong password.
			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
			if !userOK || !passOK {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
