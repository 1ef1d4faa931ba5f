package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"secureeye/internal/adapters/classify"
	"secureeye/internal/adapters/qrdecode"
	"secureeye/internal/adapters/storage"
	"secureeye/internal/binding"
	bindingstore "secureeye/internal/binding/store"
	"secureeye/internal/imagetoken"
	"secureeye/internal/ingest"
	ingestmetrics "secureeye/internal/ingest/metrics"
	"secureeye/internal/notify"
	notifymetrics "secureeye/internal/notify/metrics"
	"secureeye/internal/notify/telegram"
	"secureeye/internal/platform/config"
	"secureeye/internal/platform/httpserver"
	"secureeye/internal/platform/logger"
	"secureeye/internal/platform/postgres"
	platformredis "secureeye/internal/platform/redis"
	"secureeye/internal/ratelimit"
	"secureeye/internal/registration"
	registrationmetrics "secureeye/internal/registration/metrics"
	httptransport "secureeye/internal/transport/http"
)

// main wires process-wide dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bindings, cleanup, err := newBindingStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("binding store: %w", err)
	}
	defer cleanup()

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("image store: %w", err)
	}

	classifier := classify.NewHTTP(cfg.Classifier)
	decoder := qrdecode.NewHTTP(cfg.QRDecoder)
	bot := telegram.New(cfg.Telegram, log)
	tokens := imagetoken.New(cfg.ImageTokenKey, cfg.ImageTokenTTL)

	notifier := notify.New(bot, tokens, cfg.PublicBaseURL, log, notifymetrics.New())

	ingestor, err := ingest.New(images, classifier, bindings, notifier, log, ingestmetrics.New())
	if err != nil {
		return err
	}
	registrar, err := registration.New(decoder, bindings, log, registrationmetrics.New())
	if err != nil {
		return err
	}

	limiter := ratelimit.New(cfg.UploadRateLimit, cfg.UploadRateWindow)
	handler := httptransport.NewHandler(ingestor, registrar, bot, images, tokens,
		limiter, cfg.Telegram.WebhookSecret, log)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	if cfg.Telegram.WebhookURL != "" {
		if err := bot.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			return fmt.Errorf("set telegram webhook: %w", err)
		}
		log.Info("telegram webhook registered", "url", cfg.Telegram.WebhookURL)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting secureeye", "addr", cfg.Addr, "binding_store", cfg.BindingStore)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

// newBindingStore selects the store backend per config. The returned cleanup
// closes any owned connection pool.
func newBindingStore(ctx context.Context, cfg config.Config, log *slog.Logger) (binding.Store, func(), error) {
	switch cfg.BindingStore {
	case "memory":
		log.Warn("using in-memory binding store, bindings will not survive a restart")
		return bindingstore.NewInMemory(), func() {}, nil

	case "postgres":
		pool, err := postgres.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		store := bindingstore.NewPostgres(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	case "redis":
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, fmt.Errorf("REDIS_URL is required for the redis binding store")
		}
		return bindingstore.NewRedis(client.Client), func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown binding store %q", cfg.BindingStore)
	}
}

// newImageStore selects the storage backend per config.
func newImageStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "fs":
		return storage.NewFS(cfg.Storage.FSRoot)
	case "s3":
		return storage.NewS3(ctx, cfg.Storage)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
