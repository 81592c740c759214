package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neftit_waitlist/internal/api"
	"neftit_waitlist/internal/export"
	"neftit_waitlist/internal/metrics"
	"neftit_waitlist/internal/middleware"
	"neftit_waitlist/internal/repository"
	"neftit_waitlist/internal/scheduler"
	"neftit_waitlist/internal/service"
	"neftit_waitlist/internal/session"
	"neftit_waitlist/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()
	zapLogger.Info("Repository ready", zap.String("driver", repo.Driver()))

	m := metrics.New()

	waitlistService := service.NewWaitlistService(repo, repo, m)
	verificationService := service.NewVerificationService(waitlistService, m, cfg.Verification)
	leaderboardService := service.NewLeaderboardService(repo, m, cfg.Leaderboard)
	svc := service.NewService(waitlistService, verificationService, leaderboardService)

	sessions := session.NewStore(cfg.Session.TTL)

	jobs := []scheduler.Job{
		{
			Name:      "leaderboard-refresh",
			Interval:  cfg.Leaderboard.RefreshInterval,
			Immediate: true,
			Run:       svc.LeaderboardService.RefreshJob,
		},
		{
			Name:     "session-purge",
			Interval: time.Minute,
			Run: func(context.Context) {
				if n := sessions.Purge(); n > 0 {
					zapLogger.Debug("Purged idle sessions", zap.Int("count", n))
				}
				m.SessionsLive(sessions.Len())
			},
		},
	}

	if cfg.Export.Enabled {
		uploader, err := export.NewS3Uploader(ctx, cfg.Export)
		if err != nil {
			zapLogger.Fatal("Failed to initialize export storage", zap.Error(err))
		}
		exporter := export.NewExporter(repo, uploader, m, cfg.Export.Prefix)
		jobs = append(jobs, scheduler.Job{
			Name:     "waitlist-export",
			Interval: cfg.Export.Interval,
			Run:      exporter.Job,
		})
	}

	sched, err := scheduler.New(ctx, jobs...)
	if err != nil {
		zapLogger.Fatal("Failed to initialize scheduler", zap.Error(err))
	}
	sched.Start()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), m.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPatch,
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.NoRoute(api.NotFound)

	api.Register(router.Group("/api/v1"), api.Deps{
		Waitlist:      svc.WaitlistService,
		Verification:  svc.VerificationService,
		Leaderboard:   svc.LeaderboardService,
		Sessions:      sessions,
		SessionConfig: cfg.Session,
		Links:         cfg.Links,
		DashboardSize: cfg.Leaderboard.DashboardSize,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shut down server", zap.Error(err))
	}
	if err := sched.Shutdown(); err != nil {
		zapLogger.Error("Failed to stop scheduler", zap.Error(err))
	}
}
