// internal/vault/vault.go
//
// Vault client wrapper for Loanform.
//
// Context
// -------
//   - Configuration values written as `vault:<mount>/<path>#<key>` are
//     resolved here before the config tree is unmarshalled.  Typical users
//     are the summary API token, the Redis password, and the MySQL DSN.
//   - Wraps the HashiCorp Vault Go SDK with KV-v2 reads, per-key caching,
//     and background token renewal for long-running servers.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx, zap.S())        // during boot, when VAULT_ADDR is set.
//  2. v,   err := cli.Resolve(ctx, "vault:kv/loanform#token")
//
// Build tags: none.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// Prefix marks a config value as a Vault reference.
const Prefix = "vault:"

// ErrBadRef reports a reference that is not `vault:<path>#<key>`.
var ErrBadRef = errors.New("vault: reference must be vault:<path>#<key>")

// KV reads one key from a KV-v2 secret.  *Client satisfies it; tests use a
// map-backed fake.
type KV interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client
	log *zap.SugaredLogger

	cacheMu sync.RWMutex
	cache   map[string]cached // path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// Enabled reports whether the environment points at a Vault server.
func Enabled() bool { return os.Getenv("VAULT_ADDR") != "" }

// New constructs a client from VAULT_ADDR / VAULT_TOKEN and starts token
// renewal, which stops when ctx is cancelled.
func New(ctx context.Context, log *zap.SugaredLogger) (*Client, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{
		api:   apiCli,
		log:   log,
		cache: make(map[string]cached),
	}
	go c.renewLoop(ctx)
	return c, nil
}

// GetKV fetches key from the KV-v2 secret at secretPath.  If ttl > 0 the
// value is cached for that long.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("vault: secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key
	if ttl > 0 {
		c.cacheMu.RLock()
		cv, ok := c.cache[canonical]
		c.cacheMu.RUnlock()
		if ok && time.Now().Before(cv.exp) {
			return cv.val, nil
		}
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("vault: key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("vault: value at %s is not a string", canonical)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}
	return sval, nil
}

// Resolve returns ref unchanged unless it carries Prefix, in which case
// the referenced secret is fetched through kv.
func Resolve(ctx context.Context, kv KV, ref string) (string, error) {
	if !IsRef(ref) {
		return ref, nil
	}
	path, key, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	return kv.GetKV(ctx, path, key, 5*time.Minute)
}

// IsRef reports whether s is a Vault reference.
func IsRef(s string) bool { return strings.HasPrefix(s, Prefix) }

// ParseRef splits `vault:<path>#<key>`.
func ParseRef(ref string) (path, key string, err error) {
	body := strings.TrimPrefix(ref, Prefix)
	path, key, ok := strings.Cut(body, "#")
	if !ok || path == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	return path, key, nil
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	for ctx.Err() == nil {
		sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			c.log.Warnw("vault token renew failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			c.log.Debugw("vault token not renewable")
			backoff(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
		})
		if err != nil {
			c.log.Warnw("vault watcher init failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		c.watch(ctx, watcher)
	}
}

func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher) {
	go w.Start()
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				c.log.Warnw("vault token renewal stopped", "err", err)
			}
			backoff(ctx, 15*time.Second)
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				c.log.Debugw("vault token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(p, "/")
	return
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
