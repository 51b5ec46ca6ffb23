package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/awsaruna451/onetoolsbox-be/internal/cache"
	"github.com/awsaruna451/onetoolsbox-be/internal/config"
	"github.com/awsaruna451/onetoolsbox-be/internal/extractor"
	"github.com/awsaruna451/onetoolsbox-be/internal/httpapi"
	"github.com/awsaruna451/onetoolsbox-be/internal/jobs"
	"github.com/awsaruna451/onetoolsbox-be/internal/persistence"
	"github.com/awsaruna451/onetoolsbox-be/internal/shortener"
	"github.com/awsaruna451/onetoolsbox-be/internal/storage"
	"github.com/awsaruna451/onetoolsbox-be/internal/voice"
	"github.com/awsaruna451/onetoolsbox-be/internal/ytdlp"
	"github.com/awsaruna451/onetoolsbox-be/pkg/icron"
	"github.com/awsaruna451/onetoolsbox-be/pkg/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.InitLogger(log.ParseLevel(cfg.Server.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	yt := ytdlp.NewCommandClient(cfg.Captions.YtdlpPath)
	if err := yt.CheckBinary(); err != nil {
		log.Warn("yt-dlp binary not found (%v), caption extraction will fail", err)
	}
	captionCache := cache.New(cfg.Captions.CacheTTL)
	extractorSvc := extractor.NewService(yt, captionCache, cfg.Captions)

	shortenerSvc, err := shortener.NewService(cfg.Shortener)
	if err != nil {
		log.Fatal("Failed to initialize URL shortener: %v", err)
	}

	opts := []httpapi.Option{
		httpapi.WithAllowedOrigins(cfg.Server.AllowedOrigins),
	}

	var store storage.Store
	if cfg.Storage.Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage: %v", err)
		}
		store = s3Store
		opts = append(opts, httpapi.WithStore(store))
	} else {
		log.Warn("AWS_S3_BUCKET is not set, s3 and voice endpoints are disabled")
	}

	scheduler := cron.New()
	var queue *jobs.Queue
	if store != nil && cfg.Voice.APIURL != "" {
		jobStore, err := persistence.NewSQLiteStore(cfg.Voice.JobsDB)
		if err != nil {
			log.Fatal("Failed to open job store: %v", err)
		}
		defer jobStore.Close()

		queue = jobs.NewQueue(cfg.Voice.Workers, jobStore)
		engine := voice.NewHTTPEngine(cfg.Voice)
		voiceSvc := voice.NewService(store, engine, queue, cfg.Voice)
		queue.Start(voiceSvc.Execute)
		opts = append(opts, httpapi.WithVoice(voiceSvc))

		if _, err := scheduler.AddFunc(cfg.Voice.CleanupCron, func() {
			if _, err := voiceSvc.CleanupExpired(context.Background()); err != nil {
				log.Error("Retention sweep failed: %v", err)
			}
		}); err != nil {
			log.Fatal("Failed to schedule retention sweep: %v", err)
		}
		if next, err := icron.NextRun(cfg.Voice.CleanupCron, time.Now()); err == nil {
			log.Info("Next retention sweep at %s", next.Format(time.RFC3339))
		}
		scheduler.Start()
	} else {
		log.Warn("TTS_API_URL or object storage missing, voice cloning is disabled")
	}

	server := httpapi.NewServer(extractorSvc, shortenerSvc, opts...)

	go func() {
		log.Info("Listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed: %v", err)
	}

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()
	if queue != nil {
		queue.Stop()
	}
}
