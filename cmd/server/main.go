package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/qrtrack/qrtrack-server-go/internal/config"
	"github.com/qrtrack/qrtrack-server-go/internal/database"
	"github.com/qrtrack/qrtrack-server-go/internal/geoip"
	"github.com/qrtrack/qrtrack-server-go/internal/handler"
	"github.com/qrtrack/qrtrack-server-go/internal/jobs"
	"github.com/qrtrack/qrtrack-server-go/internal/middleware"
	"github.com/qrtrack/qrtrack-server-go/internal/redis"
	"github.com/qrtrack/qrtrack-server-go/internal/repository"
	"github.com/qrtrack/qrtrack-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	qrRepo := repository.NewQRCodeRepository(db.DB)
	scanRepo := repository.NewScanRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	pendingRepo := repository.NewPendingDeletionRepository(db.DB)
	dealRepo := repository.NewTVDealRepository(db.DB)
	spotRepo := repository.NewTVAdSpotRepository(db.DB)
	eventRepo := repository.NewTVSpecialEventRepository(db.DB)
	pkgRepo := repository.NewTVExtraPackageRepository(db.DB)

	geoResolver := geoip.NewResolver(cfg.GeoProviderURL, redisClient.Client, cfg.GeoCacheTTL())

	redirectService := service.NewRedirectService(qrRepo)
	trackingService := service.NewTrackingService(scanRepo, qrRepo, geoResolver)
	qrService := service.NewQRCodeService(qrRepo, scanRepo, pendingRepo, cfg)
	adSpotService := service.NewAdSpotService(dealRepo, spotRepo, eventRepo, pkgRepo)

	authMiddleware := middleware.NewAuthMiddleware(userRepo)
	scanRateLimit := middleware.NewScanRateLimitMiddleware(redisClient.Client, cfg.RedirectRateLimitPerMin)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	redirectHandler := handler.NewRedirectHandler(redirectService, trackingService)
	qrHandler := handler.NewQRCodeHandler(qrService)
	tvHandler := handler.NewTVAdsHandler(adSpotService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(scanRateLimit.Handler)
		r.Get("/r/{shortCode}", redirectHandler.Redirect)
		r.Get("/api/redirect/{shortCode}", redirectHandler.Redirect)
	})

	r.Route("/api/qrcodes", func(r chi.Router) {
		r.Use(authMiddleware.Handler)
		r.Mount("/", qrHandler.Routes())
	})

	r.Route("/api/tv", func(r chi.Router) {
		r.Use(authMiddleware.Handler)
		r.Mount("/", tvHandler.Routes())
	})

	purgeJob := jobs.NewPurgeJob(pendingRepo, qrRepo, config.PurgeJobInterval)
	purgeJob.Start()
	defer purgeJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
