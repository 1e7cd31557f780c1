// internal/form/csrf.go
//
// Loanform – Forms subsystem: stateless CSRF tokens.
//
// Context
//   The rendered form embeds a hidden `csrf_token` input.  The server verifies
//   it on POST so only pages it rendered can submit.  Tokens are stateless
//   and bound to the caller's session ID:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro+session) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – microseconds since Unix epoch, 8 bytes, big-endian.
//   •  HMAC – keyed with the process secret.  A token minted for one session
//      does not verify for another.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"time"
)

const (
	tokenBytes = 16 + 8 + sha256.Size // nonce + ts + sig
	maxAge     = 2 * time.Hour        // token valid window
)

// CSRF mints and verifies tokens.  Safe for concurrent use.
type CSRF struct {
	secret []byte
	now    func() time.Time
}

// NewCSRF returns a CSRF keyed with secret.  When secret is shorter than 32
// bytes a random key is generated; tokens then do not survive a restart.  The
// boolean reports whether the key was generated.
func NewCSRF(secret []byte) (*CSRF, bool) {
	generated := false
	if len(secret) < 32 {
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
		generated = true
	}
	return &CSRF{secret: secret, now: time.Now}, generated
}

// DecodeSecret accepts a base64url (unpadded) key as written in config.
func DecodeSecret(s string) []byte {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// Generate creates a token for session.  Call once per form render.
func (c *CSRF) Generate(session string) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(c.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, c.sign(nonce, ts, session)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify returns true if tok passes HMAC and age checks for session.
func (c *CSRF) Verify(tok, session string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:16]
	tsBytes := raw[16:24]
	sig := raw[24:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := c.now()
	if now.Sub(issued) > maxAge || issued.Sub(now) > time.Minute {
		// Older than maxAge, or from the future (clock skew).
		return false
	}

	return hmac.Equal(sig, c.sign(nonce, tsBytes, session))
}

func (c *CSRF) sign(nonce, ts []byte, session string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(nonce)
	mac.Write(ts)
	mac.Write([]byte(session))
	return mac.Sum(nil)
}
