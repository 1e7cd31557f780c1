// internal/app/app.go
//
// Loanform – service wiring shared by cmd/web and cmd/loancli.
//
// Context
//   Both binaries need the same summary client stack and, for the web
//   server, the submission log.  Build turns a loaded Config into those
//   collaborators and remembers what has to be closed on shutdown.
//
// Workflow
//   •  summary.HTTPClient is always the base.
//   •  cache.ttl > 0 wraps it in a CachingClient.  Redis is used when
//      cache.redis_addr is set and answers PING; otherwise the process-local
//      LRU holds schedules.
//   •  database.dsn set → MySQL audit store (schema ensured); else audit.Nop.
//
//------------------------------------------------------------------------------

package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/loanform/internal/audit"
	"github.com/yanizio/loanform/internal/config"
	"github.com/yanizio/loanform/internal/database"
	"github.com/yanizio/loanform/internal/summary"
)

// Deps are the collaborators built from config.
type Deps struct {
	Client summary.Client
	Audit  audit.Recorder

	closers []func() error
}

// Build wires Deps.  withAudit=false skips the database even when a DSN is
// configured.
func Build(ctx context.Context, cfg *config.Config, withAudit bool, log *zap.SugaredLogger) (*Deps, error) {
	d := &Deps{Audit: audit.Nop{}}

	base := summary.NewHTTPClient(summary.HTTPOptions{
		Endpoint: cfg.Summary.Endpoint,
		Token:    cfg.Summary.Token,
		Timeout:  cfg.Summary.Timeout,
	}, nil)
	d.Client = base

	if cfg.Cache.TTL > 0 {
		d.Client = summary.NewCachingClient(base, d.scheduleCache(ctx, cfg, log), cfg.Cache.TTL, log)
	}

	if withAudit && cfg.Database.DSN != "" {
		db, err := database.Open(ctx, cfg.Database.DSN)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, db.Close)

		store := audit.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Warnw("audit schema not ensured", "err", err)
		}
		d.Audit = store
		log.Infow("audit log online", "dsn", database.Redacted(cfg.Database.DSN))
	}
	return d, nil
}

func (d *Deps) scheduleCache(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) summary.Cache {
	if cfg.Cache.RedisAddr == "" {
		return summary.NewMemoryCache(cfg.Cache.Entries)
	}

	rc := summary.NewRedisCache(summary.RedisOptions{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pctx); err != nil {
		log.Warnw("redis unreachable, caching schedules in memory", "addr", cfg.Cache.RedisAddr, "err", err)
		_ = rc.Close()
		return summary.NewMemoryCache(cfg.Cache.Entries)
	}
	d.closers = append(d.closers, rc.Close)
	log.Infow("schedule cache online", "backend", "redis", "addr", cfg.Cache.RedisAddr)
	return rc
}

// Close releases everything Build opened, newest first.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	d.closers = nil
	return errors.Join(errs...)
}
