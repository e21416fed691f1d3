package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"seguimientos/backend/config"
	"seguimientos/backend/internal/api/handler"
	"seguimientos/backend/internal/api/router"
	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/repository"
	"seguimientos/backend/internal/scheduler"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/database"
	"seguimientos/backend/pkg/jwt"
	applogger "seguimientos/backend/pkg/logger"
	"seguimientos/backend/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. Redis is optional: without it the current-year cache is process
	// local, logout is client-side only and login is not rate limited.
	deps := service.Deps{}
	routerDeps := router.Deps{Ping: sqlDB.PingContext}
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running degraded", zap.Error(err))
		rdb = nil
	} else {
		deps.Cache = rdb
		deps.Blacklist = rdb
		routerDeps.Blacklist = rdb
		routerDeps.Limiter = rdb
	}

	// 5. auth + validation
	jwtMgr := jwt.NewManager(&cfg.Auth)
	if err := dto.RegisterValidators(); err != nil {
		logger.Fatal("register validators", zap.Error(err))
	}

	// 6. Repository -> Service -> Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, deps, logger)
	h := handler.NewHandler(svc)

	// 7. router
	engine := router.Setup(cfg, h, jwtMgr, routerDeps, logger)

	// 8. monthly reminders
	var sched *scheduler.Scheduler
	if cfg.Feature.ReminderCronEnabled {
		sched = scheduler.New(svc.MissingReport, svc.Reminder, logger)
		if err := sched.Register(cfg.Feature.ReminderCronSpec); err != nil {
			logger.Fatal("register reminder job", zap.String("spec", cfg.Feature.ReminderCronSpec), zap.Error(err))
		}
		sched.Start()
		logger.Info("reminder job scheduled", zap.String("spec", cfg.Feature.ReminderCronSpec))
	}

	// 9. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if sched != nil {
		sched.Stop(ctx)
	}

	sqlDB.Close()
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
