package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"fincore.org/internal/auth"
	"fincore.org/internal/bank"
	"fincore.org/internal/config"
	"fincore.org/internal/identity"
	"fincore.org/internal/obs"
	"fincore.org/internal/store/mem"
	"fincore.org/internal/store/pg"
)

var version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version)

	ctx := context.Background()
	scheme := auth.Scheme(cfg.SecretScheme)

	var repo identity.Repository
	if cfg.DatabaseDSN != "" {
		store, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		repo = store
	} else {
		store := mem.New()
		if cfg.SeedDemo {
			hash := func(secret string) (string, error) { return auth.HashSecret(scheme, secret) }
			if err := mem.SeedDemo(ctx, store, hash); err != nil {
				log.Fatalf("seed demo data: %v", err)
			}
		}
		repo = store
	}

	var sessOpts []auth.Option
	sessOpts = append(sessOpts, auth.WithScheme(scheme))
	if cfg.LoginRatePerMinute > 0 && cfg.LoginRateBurst > 0 {
		sessOpts = append(sessOpts, auth.WithLoginRate(cfg.LoginRatePerMinute, cfg.LoginRateBurst))
	}
	if cfg.InvalidateOnLogout {
		sessOpts = append(sessOpts, auth.WithLogoutInvalidation())
	}
	sessions := auth.NewSessions(repo, sessOpts...)

	svc := bank.NewService(repo, sessions,
		bank.WithSecretScheme(scheme),
		bank.WithOverdraft(cfg.AllowOverdraft),
	)
	api := bank.NewFacade(sessions, svc)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", obs.Handler())
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 15 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	app := newApp(api, os.Stdin, os.Stdout)
	app.run(ctx)
}
