package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/guiatnn/portal/internal/api"
	"github.com/guiatnn/portal/internal/api/handler"
	"github.com/guiatnn/portal/internal/api/middleware"
	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
	"github.com/guiatnn/portal/internal/core/service"
	"github.com/guiatnn/portal/internal/infrastructure/config"
	mongodb "github.com/guiatnn/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/guiatnn/portal/internal/infrastructure/db/redis"
	"github.com/guiatnn/portal/internal/infrastructure/queue"
	"github.com/guiatnn/portal/internal/infrastructure/storage"
	"github.com/guiatnn/portal/internal/security/cookiecrypt"
	"github.com/guiatnn/portal/internal/security/token"
	"github.com/guiatnn/portal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API and admin panel",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.Context)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			return serve(c.Context, cfg, log)
		},
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "guiatnn",
		Env:     cfg.Env,
	})
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	admins := mongodb.NewAdminRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	events := mongodb.NewEventRepository(db)
	businesses := mongodb.NewBusinessRepository(db)
	photos := mongodb.NewPhotoRepository(db)
	ads := mongodb.NewAdRepository(db)
	if err := mongodb.EnsureIndexes(ctx, admins, auditRepo, events, businesses, photos, ads); err != nil {
		return err
	}

	var images ports.ImageStore
	if cfg.S3.Enabled() {
		store, err := storage.NewImageStore(ctx, storage.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
			PresignTTL:      cfg.S3.PresignTTL,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return err
		}
		images = store
	} else {
		log.Warn().Msg("S3_BUCKET not set, image uploads disabled")
	}

	tokens, err := token.NewService(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}
	cipher, err := cookiecrypt.New(cfg.CookieCipher, cfg.EncryptionKey)
	if err != nil {
		return err
	}

	// The dispatcher outlives the request context so queued entries are
	// flushed after the server stops accepting requests.
	auditCtx, stopAudit := context.WithCancel(context.WithoutCancel(ctx))
	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, auditRepo, log)
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	ipExtractor, err := api.ClientIPExtractor(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	authSvc := service.NewAuthService(admins, tokens, cipher, redisdb.NewRevocationStore(rdb), dispatcher, log)
	e := api.NewRouter(api.Deps{
		Auth:     authSvc,
		Admins:   service.NewAdminService(admins, dispatcher, log),
		Events:   service.NewContentService[domain.Event](domain.ResourceEvents, events, images, dispatcher, log),
		Business: service.NewContentService[domain.Business](domain.ResourceBusinesses, businesses, images, dispatcher, log),
		Photos:   service.NewContentService[domain.Photo](domain.ResourceGallery, photos, images, dispatcher, log),
		Ads:      service.NewContentService[domain.Ad](domain.ResourceAds, ads, images, dispatcher, log),
		Images:   images,
		Limiter:  middleware.NewIPRateLimiter(ctx, cfg.LoginRatePerMinute, cfg.LoginBurst),
		Cookies:  handler.CookieConfig{Secure: cfg.IsProduction(), MaxAge: cfg.SessionTTL},
		Checks: map[string]handler.Check{
			"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		AdminUI:     cfg.AdminUIDir,
		Log:         log,
		IPExtractor: ipExtractor,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("cookie_cipher", cfg.CookieCipher).Msg("starting HTTP server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("initiating shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("shutdown completed")
	return nil
}
