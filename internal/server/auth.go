package server

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// TokenAuth validates API requests against a bcrypt hash of a shared token.
//
// The hash is supplied at configuration time (never the plaintext token),
// so a leaked config file does not leak the credential. A nil *TokenAuth
// disables authentication entirely.
type TokenAuth struct {
	hash []byte
}

// NewTokenAuth creates a [TokenAuth] from a bcrypt hash string. An empty
// hash returns nil, which disables auth.
func NewTokenAuth(hash string) *TokenAuth {
	if hash == "" {
		return nil
	}
	return &TokenAuth{hash: []byte(hash)}
}

// Allow reports whether the request carries a bearer token matching the
// configured hash.
func (a *TokenAuth) Allow(r *http.Request) bool {
	if a == nil {
		return true
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.hash, []byte(token)) == nil
}
