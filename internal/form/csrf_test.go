package form

import (
	"strings"
	"testing"
	"time"
)

func TestCSRF_RoundTrip(t *testing.T) {
	c, generated := NewCSRF(nil)
	if !generated {
		t.Fatalf("expected generated key for empty secret")
	}
	tok, err := c.Generate("sess-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !c.Verify(tok, "sess-1") {
		t.Fatalf("token did not verify")
	}
	if c.Verify(tok, "sess-2") {
		t.Fatalf("token verified for another session")
	}
}

func TestCSRF_Tampered(t *testing.T) {
	c, _ := NewCSRF([]byte(strings.Repeat("k", 32)))
	tok, _ := c.Generate("s")
	bad := []byte(tok)
	if bad[40] == 'A' {
		bad[40] = 'B'
	} else {
		bad[40] = 'A'
	}
	if c.Verify(string(bad), "s") {
		t.Fatalf("tampered token verified")
	}
	if c.Verify("", "s") || c.Verify("!!", "s") {
		t.Fatalf("garbage verified")
	}
}

func TestCSRF_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c, _ := NewCSRF([]byte(strings.Repeat("k", 32)))
	c.now = func() time.Time { return now }

	tok, _ := c.Generate("s")
	now = now.Add(maxAge + time.Second)
	if c.Verify(tok, "s") {
		t.Fatalf("expired token verified")
	}
}
