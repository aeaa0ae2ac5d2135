package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "movie_review/internal/adapters/http_server"
	"movie_review/internal/adapters/observability"
	redisad "movie_review/internal/adapters/redis"
	"movie_review/internal/adapters/webhook"
	"movie_review/internal/app"
	"movie_review/internal/domain"
	"movie_review/internal/shared"
	"movie_review/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// store
	repo, closeRepo, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store open failed")
	}
	defer closeRepo()

	// optional cache
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; continuing, cache calls will miss")
		}
		cache = rc
	}

	gw, err := webhook.New(cfg.WebhookURL, webhook.Options{
		Timeout:     cfg.WebhookTimeout(),
		RPS:         cfg.WebhookRPS,
		MaxInFlight: cfg.WebhookMaxInFlight,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize webhook client")
	}

	q := app.NewQueryService(repo, cache, cfg.CacheTTL())
	g := app.NewGenerationService(repo, gw, cfg.DailyLimit)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, G: g})

	// no WriteTimeout: generate-review may wait on the webhook for the full ceiling
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}
	servers := []*http.Server{httpSrv}
	if cfg.MetricsAddr != "" {
		servers = append(servers, observability.NewMetricsServer(cfg.MetricsAddr, reg))
	}

	grp, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		grp.Go(func() error {
			log.Info().Str("addr", s.Addr).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	grp.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, s := range servers {
			if err := s.Shutdown(sctx); err != nil {
				log.Warn().Err(err).Str("addr", s.Addr).Msg("shutdown incomplete")
			}
		}
		return nil
	})

	if err := grp.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
