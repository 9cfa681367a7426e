package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"worldvault/internal/approval"
	approvalHandler "worldvault/internal/approval/handler"
	"worldvault/internal/audit"
	auditHandler "worldvault/internal/audit/handler"
	httpapi "worldvault/internal/http"
	"worldvault/internal/payment"
	"worldvault/internal/platform/config"
	"worldvault/internal/platform/httpserver"
	"worldvault/internal/platform/logger"
	"worldvault/internal/platform/metrics"
	redisplatform "worldvault/internal/platform/redis"
	"worldvault/internal/policy"
	policyHandler "worldvault/internal/policy/handler"
	"worldvault/internal/revocation"
	revocationHandler "worldvault/internal/revocation/handler"
	"worldvault/internal/token"
	tokenHandler "worldvault/internal/token/handler"
	"worldvault/internal/usage"
)

// main wires configuration, stores, and services into the HTTP server and
// owns the process lifecycle. Business rules live in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Redis-backed stores when configured, in-process stores otherwise. The
	// approval queue is always in-process; holds are short-lived.
	var (
		usageStore usage.Store
		registry   revocation.Registry
	)
	if redisClient != nil {
		usageStore = usage.NewRedisStore(redisClient.Client)
		registry = revocation.NewRedisRegistry(redisClient.Client)
		log.Info("using redis-backed usage and revocation stores")
	} else {
		usageStore = usage.NewInMemoryStore()
		registry = revocation.NewInMemoryRegistry()
		log.Info("using in-memory usage and revocation stores")
	}

	var auditStore audit.Store
	if cfg.PostgresURL != "" {
		db, err := audit.OpenPostgres(cfg.PostgresURL)
		if err != nil {
			log.Error("audit postgres connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		pgStore := audit.NewPostgresStore(db)
		if err := pgStore.Migrate(ctx); err != nil {
			log.Error("audit migration failed", "error", err.Error())
			os.Exit(1)
		}
		auditStore = pgStore
		log.Info("using postgres-backed audit store")
	} else {
		auditStore = audit.NewInMemoryStore()
	}
	auditor := audit.NewPublisher(auditStore)

	issuer, err := token.New(cfg.SigningKeyB64, cfg.JWKSKid, cfg.IssuerDID, cfg.Audience,
		token.WithTTLBounds(cfg.MinTTL, cfg.MaxTTL))
	if err != nil {
		log.Error("token issuer init failed", "error", err.Error())
		os.Exit(1)
	}
	if cfg.SigningKeyB64 == "" {
		log.Warn("no signing key configured, generated an ephemeral key; tokens will not survive restarts")
	}

	approvalSvc := approval.NewService(approval.NewInMemoryStore(), auditor)
	revocationSvc := revocation.NewService(registry, auditor, m)
	challenger := payment.NewGenerator(cfg.PaymentReceiver, cfg.PaymentAsset)
	engine := policy.NewEngine(issuer, revocationSvc, usageStore, approvalSvc, auditor, challenger,
		cfg.HoldThreshold, log, m)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:     log,
		Metrics:    m,
		Token:      tokenHandler.New(issuer, log, m, cfg.DefaultTTL),
		Policy:     policyHandler.New(engine, log),
		Approval:   approvalHandler.New(approvalSvc, log),
		Revocation: revocationHandler.New(revocationSvc, log),
		Audit:      auditHandler.New(auditor, log),
		Health: func() map[string]string {
			deps := map[string]string{}
			if redisClient != nil {
				deps["redis"] = "ok"
				if err := redisClient.Health(context.Background()); err != nil {
					deps["redis"] = err.Error()
				}
			}
			return deps
		},
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting worldvault policy gateway", "addr", cfg.Addr, "issuer", cfg.IssuerDID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
