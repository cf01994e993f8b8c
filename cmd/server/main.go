// Command server runs the citizen registry API.
//
// Wiring only: every business rule lives in the internal services. Stores
// are selected by configuration, PostgreSQL and Redis when configured,
// in-memory otherwise.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	citizenservice "nadra/internal/citizen/service"
	citizenstore "nadra/internal/citizen/store"
	"nadra/internal/department"
	deptstore "nadra/internal/department/store"
	identityservice "nadra/internal/identity/service"
	identitystore "nadra/internal/identity/store"
	"nadra/internal/platform/config"
	"nadra/internal/platform/httpserver"
	"nadra/internal/platform/logger"
	"nadra/internal/platform/metrics"
	"nadra/internal/platform/redis"
	"nadra/internal/policy"
	"nadra/internal/storage"
	"nadra/internal/token"
	"nadra/internal/token/revocation"
	httptransport "nadra/internal/transport/http"
	requestservice "nadra/internal/updaterequest/service"
	requeststore "nadra/internal/updaterequest/store"
)

func main() {
	log := logger.New()

	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var (
		citizens    citizenservice.Store
		citizensRW  requestservice.CitizenStore
		users       identityservice.Store
		requests    requestservice.Store
		departments department.Store
		health      []httptransport.HealthChecker
	)

	if cfg.DatabaseURL != "" {
		db, err := storage.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := storage.Migrate(ctx, db); err != nil {
			return err
		}

		cs := citizenstore.NewPostgres(db)
		citizens, citizensRW = cs, cs
		users = identitystore.NewPostgres(db)
		requests = requeststore.NewPostgres(db)
		departments = deptstore.NewPostgres(db)
		health = append(health, dbHealth{db: db})
		log.Info("using postgresql stores")
	} else {
		cs := citizenstore.NewInMemory()
		citizens, citizensRW = cs, cs
		users = identitystore.NewInMemory()
		requests = requeststore.NewInMemory()
		departments = deptstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	var revocations httptransport.RevocationStore
	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocations = revocation.NewRedis(redisClient)
		health = append(health, redisClient)
		log.Info("using redis token revocation list")
	} else {
		revocations = revocation.NewInMemory()
	}

	origin, err := department.Seed(ctx, departments, log)
	if err != nil {
		return err
	}
	pol := policy.New(origin)

	identitySvc := identityservice.NewService(users, departments, pol, m, log)
	if err := identitySvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	tokenSvc := token.NewService(users, token.Config{
		SigningKey: []byte(cfg.JWTSigningKey),
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		Expiry:     cfg.JWTValidity,
	}, m, log)

	handlers := httptransport.NewHandlers(
		tokenSvc,
		revocations,
		citizenservice.NewService(citizens, pol, m, log),
		identitySvc,
		requestservice.NewService(requests, citizensRW, departments, users, pol, m, log),
		departments,
		health,
		log,
	)

	srv := httpserver.New(cfg.Addr, handlers.NewRouter())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type dbHealth struct {
	db interface {
		PingContext(ctx context.Context) error
	}
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
