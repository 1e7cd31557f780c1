// cmd/web/main.go
//
// Loanform – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (.env → conf/loanform.yaml → LOANFORM_ env, with
//     vault: references resolved).
//
//  2. Start the daily rotating logger (tees to console in a TTY).
//
//  3. Build the summary client stack and, when a DSN is set, the audit log.
//
//  4. Build the router:
//
//     • RequestID → RealIP → Recoverer → request log → ForceHTTPS → Security
//     • /metrics and /healthz
//     • the loan form and its JSON API, submit routes rate-limited
//
//  5. Serve until SIGINT/SIGTERM, then drain in-flight requests.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/loanform/internal/app"
	"github.com/yanizio/loanform/internal/config"
	"github.com/yanizio/loanform/internal/form"
	"github.com/yanizio/loanform/internal/logger"
	"github.com/yanizio/loanform/internal/middleware"
	"github.com/yanizio/loanform/internal/notify"
	"github.com/yanizio/loanform/internal/requestinfo"
	"github.com/yanizio/loanform/internal/server"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(logger.Options{
		Dir:   cfg.Log.Dir,
		Level: cfg.Log.Level,
		Tee:   runningInTTY(),
	})
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 1.  Summary client and audit log ────────────────────────────────
	//
	deps, err := app.Build(ctx, cfg, true, logOut)
	if err != nil {
		logOut.Fatalw("build services", "err", err)
	}
	defer deps.Close()

	//
	// ── 2.  Form surface ────────────────────────────────────────────────
	//
	csrf, generated := form.NewCSRF(form.DecodeSecret(cfg.HTTP.CSRFSecret))
	if generated {
		logOut.Warnw("http.csrf_secret unset or short, using a per-process key")
	}

	workspaces := form.NewWorkspaces(cfg.Cache.Sessions, deps.Client, notify.ToasterOptions{
		Duration: cfg.Toast.Duration,
		Position: cfg.Toast.Position,
	}, nil)

	clients, err := requestinfo.NewResolver(cfg.Geo.DBPath)
	if err != nil {
		logOut.Fatalw("open geo database", "path", cfg.Geo.DBPath, "err", err)
	}
	defer clients.Close()

	limit := func(next http.Handler) http.Handler { return next }
	if cfg.HTTP.RateLimit > 0 {
		rl := middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateWindow)
		defer rl.Stop()
		limit = rl.Middleware
	}

	def := form.DefaultFormDef()
	if cfg.Form.Definition != "" {
		if def, err = form.LoadFormDef(cfg.Form.Definition); err != nil {
			logOut.Fatalw("load form definition", "err", err)
		}
	}

	h, err := form.NewHandler(form.HandlerOptions{
		Def:        def,
		CSRF:       csrf,
		Workspaces: workspaces,
		Audit:      deps.Audit,
		Clients:    clients,
		Limit:      limit,
	})
	if err != nil {
		logOut.Fatalw("build form handler", "err", err)
	}

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(logOut))
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(middleware.Security(cfg.HTTP.ForceHTTPS))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	h.Routes(r)

	//
	// ── 4.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})
	if err := server.Run(ctx, srv, 15*time.Second, logOut); err != nil {
		logOut.Errorw("http server", "err", err)
	}
}
