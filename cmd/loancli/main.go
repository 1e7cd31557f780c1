// cmd/loancli/main.go
//
// Loanform – command-line client.
//
//	loancli validate --initialDate 2024-01-01 --finalDate 2025-01-01 \
//	    --firstPaymentDate 2024-02-01 --loanAmount "R$ 10.000,00" --interestRate "1,5 %"
//	loancli submit   (same flags)
//	loancli recent -n 50
//
// Configuration is loaded exactly as for cmd/web.  submit does not write to
// the audit log; recent reads it and needs database.dsn.  Exit status is 1
// when the request is rejected.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yanizio/loanform/internal/app"
	"github.com/yanizio/loanform/internal/audit"
	"github.com/yanizio/loanform/internal/cli"
	"github.com/yanizio/loanform/internal/config"
	"github.com/yanizio/loanform/internal/database"
	"github.com/yanizio/loanform/internal/logger"
	"github.com/yanizio/loanform/internal/summary"
)

func main() {
	clients := func(ctx context.Context) (summary.Client, func(), error) {
		cfg, err := config.Load(ctx)
		if err != nil {
			return nil, nil, err
		}
		// Warnings and up on stderr, so stdout stays clean JSON.
		log, err := logger.New(logger.Options{Level: "warn", Console: os.Stderr})
		if err != nil {
			return nil, nil, err
		}
		deps, err := app.Build(ctx, cfg, false, log)
		if err != nil {
			return nil, nil, err
		}
		return deps.Client, func() { _ = deps.Close() }, nil
	}

	history := func(ctx context.Context) (cli.History, func(), error) {
		cfg, err := config.Load(ctx)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.DSN == "" {
			return nil, nil, errors.New("database.dsn is not set")
		}
		db, err := database.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return audit.NewStore(db), func() { _ = db.Close() }, nil
	}

	root := cli.NewRoot(cli.Options{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Clients: clients,
		History: history,
	})
	if err := root.Execute(); err != nil {
		if !errors.Is(err, cli.ErrRejected) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
