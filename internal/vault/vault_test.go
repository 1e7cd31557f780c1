package vault

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeKV map[string]string

func (f fakeKV) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	v, ok := f[path+"#"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestResolve(t *testing.T) {
	kv := fakeKV{"kv/loanform#token": "abc"}
	ctx := context.Background()

	got, err := Resolve(ctx, kv, "vault:kv/loanform#token")
	if err != nil || got != "abc" {
		t.Fatalf("Resolve = %q, %v", got, err)
	}

	got, err = Resolve(ctx, kv, "plain")
	if err != nil || got != "plain" {
		t.Fatalf("plain value changed: %q, %v", got, err)
	}

	if _, err := Resolve(ctx, kv, "vault:kv/loanform"); !errors.Is(err, ErrBadRef) {
		t.Fatalf("expected ErrBadRef, got %v", err)
	}
	if _, err := Resolve(ctx, kv, "vault:kv/missing#x"); err == nil {
		t.Fatalf("expected lookup error")
	}
}

func TestSplitMount(t *testing.T) {
	m, r := splitMount("secret/app/db")
	if m != "secret" || r != "app/db" {
		t.Fatalf("splitMount = %q, %q", m, r)
	}
	m, r = splitMount("secret")
	if m != "secret" || r != "" {
		t.Fatalf("splitMount = %q, %q", m, r)
	}
}
