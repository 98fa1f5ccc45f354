// Package auth provides the optional basic-auth gate.
//
// The workshop API is sometimes exposed on the open internet for the
// duration of an event, and a shared username/password handed out on the
// first slide keeps drive-by traffic out. This is access control for a
// two-day workshop, not an auth system: one static credential pair from
// configuration, no accounts, no sessions, no tokens.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuth verifies requests against one configured credential pair.
//
// The password is bcrypt-hashed once at construction and every request
// compares against the hash. bcrypt gives us a constant-time comparison
// plus resistance to the hash leaking in a goroutine dump or log; the
// username check uses crypto/subtle so the two lookups cost the same
// whether or not the username matches.
type BasicAuth struct {
	username     string
	passwordHash []byte
}

// New builds the middleware state. The configured password arrives in
// plaintext (it comes from an env var) and is hashed immediately; the
// plaintext is not retained.
func New(username, password string) (*BasicAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hashing configured password: %w", err)
	}
	return &BasicAuth{username: username, passwordHash: hash}, nil
}

// Middleware enforces basic auth on everything it wraps. Failures get a
// WWW-Authenticate challenge so browsers pop the native login prompt —
// handy when the scoreboard is opened on the projector.
func (b *BasicAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !b.verify(username, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="workshop-tracker"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *BasicAuth) verify(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(b.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(b.passwordHash, []byte(password)) == nil
	return usernameMatch && passwordMatch
}
