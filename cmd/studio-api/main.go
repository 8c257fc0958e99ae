package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/fitplan/studio-api/api/swagger"
	"github.com/fitplan/studio-api/internal/handler"
	"github.com/fitplan/studio-api/internal/middleware"
	"github.com/fitplan/studio-api/internal/repository"
	"github.com/fitplan/studio-api/internal/service"
	"github.com/fitplan/studio-api/internal/timetable"
	"github.com/fitplan/studio-api/pkg/cache"
	"github.com/fitplan/studio-api/pkg/config"
	"github.com/fitplan/studio-api/pkg/database"
	"github.com/fitplan/studio-api/pkg/jobs"
	"github.com/fitplan/studio-api/pkg/logger"
	corsmiddleware "github.com/fitplan/studio-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fitplan/studio-api/pkg/middleware/requestid"
	"github.com/fitplan/studio-api/pkg/storage"
)

// @title Studio Timetable API
// @version 1.0.0
// @description Simulated-annealing timetable optimizer for group fitness studios
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()

	var db *sqlx.DB
	if cfg.Runs.PersistRuns {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Runs.CacheTTL, logr, true)
	}

	rosterSvc := service.NewRosterService(cfg.Roster.ClientFile, cfg.Roster.InstructorFile, logr)
	if err := rosterSvc.Load(); err != nil {
		logr.Fatal("failed to load roster files", zap.Error(err))
	}

	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		Secret:       cfg.JWT.Secret,
		Expiry:       cfg.JWT.Expiration,
		Issuer:       cfg.JWT.Issuer,
		Username:     cfg.JWT.AdminUsername,
		PasswordHash: cfg.JWT.AdminPasswordHash,
	})

	defaults := service.OptimizerDefaults{
		Schedule: timetable.Config{
			Classrooms:      cfg.Schedule.Classrooms,
			Days:            cfg.Schedule.Days,
			Slots:           cfg.Schedule.Slots,
			MaxParticipants: cfg.Schedule.MaxParticipants,
			TicketPrice:     cfg.Schedule.TicketPrice,
			HourlyPay:       cfg.Schedule.HourlyPay,
			PresenceBonus:   cfg.Schedule.PresenceBonus,
			RentalCost:      cfg.Schedule.RentalCost,
		},
		Params: timetable.Params{
			Alpha:             cfg.Optimizer.Alpha,
			InitialTemp:       cfg.Optimizer.InitialTemp,
			IterationsPerTemp: cfg.Optimizer.IterationsPerTemp,
			MinTemp:           cfg.Optimizer.MinTemp,
			Epsilon:           cfg.Optimizer.Epsilon,
			MaxStagnantEpochs: cfg.Optimizer.MaxStagnantEpochs,
			GreedyPlacement:   cfg.Optimizer.GreedyPlacement,
		},
	}

	svcCfg := service.OptimizerServiceConfig{ResultTTL: cfg.Runs.ResultTTL, CacheTTL: cfg.Runs.CacheTTL}
	var optimizerSvc *service.OptimizerService
	if db != nil {
		optimizerSvc = service.NewOptimizerService(
			repository.NewRunRepository(db), rosterSvc, cacheSvc, metricsSvc,
			validate, logr, defaults, svcCfg,
		)
	} else {
		optimizerSvc = service.NewOptimizerService(
			nil, rosterSvc, cacheSvc, metricsSvc,
			validate, logr, defaults, svcCfg,
		)
	}

	worker := service.NewOptimizerWorker(optimizerSvc, logr)
	queue := jobs.NewQueue("optimizer", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Runs.Workers,
		BufferSize: cfg.Runs.QueueSize,
		Logger:     logr,
	})
	optimizerSvc.AttachDispatcher(queue)
	queue.Start(context.Background())
	defer queue.Stop()

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Fatal("failed to init export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.JWT.Secret, cfg.Exports.URLTTL)
	exportSvc := service.NewExportService(exportStorage, signer, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	runHandler := handler.NewRunHandler(optimizerSvc, exportSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/exports/:token", middleware.OptionalJWT(authSvc), runHandler.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.POST("/runs", runHandler.Start)
		protected.GET("/runs", runHandler.List)
		protected.GET("/runs/:id", runHandler.Get)
		protected.GET("/runs/:id/grid", runHandler.Grid)
		protected.GET("/runs/:id/trace", runHandler.Trace)
		protected.POST("/runs/:id/export", runHandler.Export)
		protected.DELETE("/runs/:id", runHandler.Cancel)

		protected.GET("/roster", rosterHandler.Get)
		protected.POST("/roster/reload", rosterHandler.Reload)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if db != nil {
		go func() {
			ticker := time.NewTicker(cfg.Runs.ResultTTL)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if _, err := optimizerSvc.PruneFinished(ctx); err != nil {
						logr.Warn("run retention sweep failed", zap.Error(err))
					}
				}
			}
		}()
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
