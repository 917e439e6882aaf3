package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"

	"github.com/flipmagic/brand-onboarder/internal/api"
	"github.com/flipmagic/brand-onboarder/internal/audit"
	"github.com/flipmagic/brand-onboarder/internal/auth"
	"github.com/flipmagic/brand-onboarder/internal/events"
	"github.com/flipmagic/brand-onboarder/internal/flip"
	"github.com/flipmagic/brand-onboarder/internal/metrics"
	"github.com/flipmagic/brand-onboarder/internal/store"
	"github.com/flipmagic/brand-onboarder/pkg/config"
	"github.com/flipmagic/brand-onboarder/pkg/logger"
	"github.com/flipmagic/brand-onboarder/pkg/secrets"
	"github.com/flipmagic/brand-onboarder/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [brand-onboarder]...")

	if cfg.BaseURL == "" {
		logg.Fatal("BASE_URL is required")
	}

	// --- Resolve the refresh token (env first, AWS Secrets Manager fallback) ---
	refreshToken := cfg.RefreshToken
	if refreshToken == "" && cfg.RefreshTokenSecretID != "" {
		provider, err := secrets.NewAWSProvider(cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to init AWS provider", "error", err)
		}
		refreshToken, err = secrets.ResolveRefreshToken(ctx, provider, cfg.RefreshTokenSecretID)
		if err != nil {
			logg.Fatalw("failed to resolve refresh token", "error", err)
		}
		logg.Infow("refresh token resolved from secrets manager",
			"secret_id", cfg.RefreshTokenSecretID,
			"token", utils.MaskToken(refreshToken))
	}
	if refreshToken == "" {
		// Rows that need authentication will fail with a clear per-row error.
		logg.Warn("no refresh token configured; onboarding calls will fail")
	}

	// --- Metrics ---
	metrics.StartServer(cfg.MetricsAddr)

	// --- Token lifecycle (single-slot cache + refresh manager) ---
	tokenCache := auth.NewTokenCache()
	tokenMgr := auth.NewManager(logg.Desugar(), tokenCache, auth.Config{
		BaseURL:      cfg.BaseURL,
		RefreshPath:  cfg.RefreshPath,
		RefreshToken: refreshToken,
		AppPlatform:  cfg.AppPlatform,
		WebVersion:   cfg.WebVersion,
		DeviceFP:     cfg.DeviceFP,
		Timeout:      cfg.HTTPTimeout,
	})

	// --- Flip client + per-row submitter ---
	client := flip.NewClient(logg.Desugar(), cfg.BaseURL, cfg.HTTPTimeout)
	submitter := flip.NewSubmitter(logg.Desugar(), client, tokenMgr)

	// --- Batch result store ---
	st, err := store.New(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, logg.Desugar())
	if err != nil {
		logg.Fatalw("failed to init store", "error", err)
	}
	defer st.Close() //nolint:errcheck

	// --- Optional NATS publisher ---
	var pub api.RowPublisher
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			logg.Fatalw("failed to connect to NATS", "error", err)
		}
		defer nc.Drain() //nolint:errcheck

		p, err := events.New(nc, logg.Desugar(), cfg.ServiceName)
		if err != nil {
			logg.Fatalw("failed to init publisher", "error", err)
		}
		pub = p
	} else {
		logg.Info("NATS_URL not set; event publishing disabled")
	}

	// --- Optional Postgres audit log ---
	var auditLog api.AuditLog
	if cfg.DatabaseURL != "" {
		logg.Info("connecting to DSN: ", utils.MaskDSN(cfg.DatabaseURL))
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logg.Fatalw("failed to connect to postgres", "error", err)
		}
		defer pool.Close()
		auditLog = audit.NewWriter(pool, logg.Desugar(), cfg.ServiceName)
	}

	// --- HTTP API ---
	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024, // generous for CSV uploads
	})

	h := &api.Handler{
		Logger:    logg.Desugar(),
		Submitter: submitter,
		Store:     st,
		Events:    pub,
		Audit:     auditLog,
		BatchTTL:  cfg.BatchTTL,
	}
	api.RegisterRoutes(app, h)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
		// SPA fallback: unmatched GETs serve the frontend index.
		app.Use(func(c *fiber.Ctx) error {
			if c.Method() != fiber.MethodGet {
				return fiber.ErrNotFound
			}
			return c.SendFile(cfg.StaticDir + "/index.html")
		})
	}

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[brand-onboarder] running",
		"base_url", cfg.BaseURL,
		"metrics", cfg.MetricsAddr,
		"batch_ttl", cfg.BatchTTL)

	<-ctx.Done()
	stop()
	logg.Info("shutting down [brand-onboarder]...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.ShutdownWithContext(shutdownCtx) //nolint:errcheck
}
