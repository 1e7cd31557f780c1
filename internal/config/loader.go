// internal/config/loader.go
//
// Configuration loader and reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. Optional `conf/loanform.yaml`.
  3. Environment variables prefixed `LOANFORM_`, where `__` maps to “.”
     (e.g., `LOANFORM_SUMMARY__ENDPOINT → summary.endpoint`).

After merging, any string value written as `vault:<path>#<key>` is replaced
with the secret it names (only when VAULT_ADDR is set, or when the caller
supplies a KV).  The tree is then unmarshalled over Defaults(), validated,
and enriched with the runtime root path.  Callers own the returned value;
nothing is cached at package level.

Instrumentation
---------------
  • DEBUG spans – root discovery, YAML read, env overlay, vault refs.
  • ERROR spans – YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  – final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/loanform.yaml`, so
    `go run ./cmd/web` works from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/loanform/internal/vault"
)

const (
	envPrefix = "LOANFORM_"
	fileName  = "loanform.yaml"
)

// Options override discovery.  The zero value means “discover everything”.
type Options struct {
	Root  string   // empty → rootDir()
	Vault vault.KV // nil → vault.New when VAULT_ADDR is set
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves LOANFORM_ROOT or climbs directories until
// conf/loanform.yaml is found.  Falls back to the executable layout.
func rootDir() string {
	if r := os.Getenv(envPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", fileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, and env overrides, resolves Vault references,
// validates, and caches Config.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, Options{})
}

// LoadWith is Load with explicit root and secret source.
func LoadWith(ctx context.Context, opts Options) (*Config, error) {
	root := opts.Root
	if root == "" {
		root = rootDir()
	}
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", fileName)
	switch err := k.Load(file.Provider(yamlPath), yaml.Parser()); {
	case errors.Is(err, fs.ErrNotExist):
		zap.S().Debugw("config yaml absent", "file", yamlPath)
	case err != nil:
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, fmt.Errorf("config yaml %s: %w", yamlPath, err)
	default:
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: LOANFORM_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fmt.Errorf("config env: %w", err)
	}

	if err := resolveSecrets(ctx, k, opts.Vault); err != nil {
		zap.S().Errorw("config vault resolution failed", "err", err)
		return nil, err
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	cfg.Paths.Root = root
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Join(root, "logs")
	}
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"summary_endpoint", cfg.Summary.Endpoint,
		"redis", cfg.Cache.RedisAddr != "",
		"audit", cfg.Database.DSN != "",
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// resolveSecrets swaps every `vault:` string in k for its secret.  kv may be
// nil, in which case a client is created only if some value needs one.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, kv vault.KV) error {
	var refs []string
	for key, val := range k.All() {
		if s, ok := val.(string); ok && vault.IsRef(s) {
			refs = append(refs, key)
		}
	}
	if len(refs) == 0 {
		return nil
	}

	if kv == nil {
		if !vault.Enabled() {
			return fmt.Errorf("config: %s references vault but VAULT_ADDR is unset", strings.Join(refs, ", "))
		}
		cli, err := vault.New(ctx, zap.S())
		if err != nil {
			return err
		}
		kv = cli
	}

	for _, key := range refs {
		plain, err := vault.Resolve(ctx, kv, k.String(key))
		if err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
		if err := k.Set(key, plain); err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
		zap.S().Debugw("config value resolved from vault", "key", key)
	}
	return nil
}
