// internal/session/session.go
//
// Loanform – browser session cookie.
//
// Context
//   Each browser gets its own form workspace (field values, toasts, and the
//   latest schedule).  The workspace is keyed by an opaque random ID carried
//   in the “loanform_session” cookie.  The cookie holds nothing else, so there
//   is nothing to sign; an unknown or forged ID simply gets a fresh, empty
//   workspace.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"
)

const (
	CookieName = "loanform_session"
	idBytes    = 18
	lifetime   = 14 * 24 * time.Hour
)

type ctxKey struct{}

// ID returns the session ID stored in r, if any.
//
// ok == false when the cookie is missing or malformed.
func ID(r *http.Request) (id string, ok bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || !wellFormed(c.Value) {
		return "", false
	}
	return c.Value, true
}

// Ensure returns the caller's session ID, issuing a new cookie when needed.
func Ensure(w http.ResponseWriter, r *http.Request) string {
	if id, ok := ID(r); ok {
		return id
	}
	id := newID()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(lifetime),
	})
	return id
}

// Middleware ensures every request carries a session ID in its context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Ensure(w, r)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// FromContext returns the ID stored by Middleware.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func newID() string {
	b := make([]byte, idBytes)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func wellFormed(v string) bool {
	b, err := base64.RawURLEncoding.DecodeString(v)
	return err == nil && len(b) == idBytes
}
