package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	auditpg "3tcapital/ms_namqr_core/internal/adapters/audit/postgres"
	healthhttp "3tcapital/ms_namqr_core/internal/adapters/http/health"
	qrhttp "3tcapital/ms_namqr_core/internal/adapters/http/qr"
	"3tcapital/ms_namqr_core/internal/adapters/signature"
	vaultpg "3tcapital/ms_namqr_core/internal/adapters/vault/postgres"
	apphealth "3tcapital/ms_namqr_core/internal/application/health"
	appqr "3tcapital/ms_namqr_core/internal/application/qr"
	"3tcapital/ms_namqr_core/internal/core/audit"
	"3tcapital/ms_namqr_core/internal/core/vault"
	"3tcapital/ms_namqr_core/internal/infrastructure/cache"
	"3tcapital/ms_namqr_core/internal/infrastructure/config"
	"3tcapital/ms_namqr_core/internal/infrastructure/database"
	"3tcapital/ms_namqr_core/internal/infrastructure/http/middleware"
	"3tcapital/ms_namqr_core/internal/infrastructure/http/server"
	"3tcapital/ms_namqr_core/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "service stopped: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthService := apphealth.NewService(apphealth.Metadata{
		Service:     cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
	})

	// The token vault and the audit trail share one connection pool. A
	// missing database degrades the service instead of stopping it: codes
	// still generate and validate, vault checks surface as warnings.
	var vaultRepo vault.Repository
	var auditRepo audit.Repository
	if cfg.Database.Enabled {
		pool, err := database.NewPool(ctx, database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.Database,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			log.Warn("Failed to connect to database, vault checks and audit trail disabled",
				"error", err,
				"host", cfg.Database.Host,
				"database", cfg.Database.Database,
			)
		} else {
			defer pool.Close()

			if err := database.RunMigrations(ctx, pool, log); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			vaultRepo = vaultpg.NewRepositoryWithLogger(pool, log)
			if cfg.Audit.Enabled {
				auditRepo = auditpg.NewRepositoryWithLogger(pool, log)
			}
			healthService.RegisterDependency("vault-db", pool)
			log.Info("Database connection established", "database", cfg.Database.Database)
		}
	} else {
		log.Info("Database disabled, vault checks and audit trail unavailable")
	}

	var verifier appqr.SignatureVerifier
	if cfg.Signing.PublicKeyHex != "" {
		v, err := signature.NewEd25519Verifier(cfg.Signing.PublicKeyHex)
		if err != nil {
			return fmt.Errorf("load signing public key: %w", err)
		}
		verifier = v
		log.Info("Signature verification enabled")
	} else {
		log.Warn("No signing public key configured, signed payloads will validate with a warning")
	}

	qrService := appqr.NewService(appqr.Options{
		VaultRepo: vaultRepo,
		Cache:     cache.NewEntryCache(cfg.Vault.CacheTTL),
		AuditRepo: auditRepo,
		Verifier:  verifier,
		Logger:    log,
	})

	qrHandler := qrhttp.NewHandler(qrService, cfg.Vault.CheckTimeout, log)
	healthHandler := healthhttp.NewHandler(healthService)

	auth, err := middleware.NewJWTAuthenticator(cfg.Auth, log)
	if err != nil {
		return fmt.Errorf("configure authentication: %w", err)
	}

	srv, err := server.New(server.Options{
		Config:         cfg,
		Logger:         log,
		HealthHandler:  http.HandlerFunc(healthHandler.Status),
		QRHandler:      qrHandler.Routes(),
		VaultHandler:   qrHandler.VaultRoutes(),
		VoucherHandler: qrHandler.VoucherRoutes(),
		Auth:           auth,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer srv.Close()

	log.Info("Starting HTTP server", "port", cfg.HTTP.Port)
	return srv.Run(ctx)
}
