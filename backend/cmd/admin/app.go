package main

import (
	"database/sql"
	"io"

	"go.uber.org/zap"
	"golang.org/x/term"

	"seguimientos/backend/config"
	"seguimientos/backend/internal/repository"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/database"
	"seguimientos/backend/pkg/jwt"
	applogger "seguimientos/backend/pkg/logger"
	"seguimientos/backend/pkg/redis"
)

// app holds what the commands need. Tests fill the fields directly and set
// ready so connect never touches a database.
type app struct {
	out          io.Writer
	cfgPath      string
	readPassword func(fd int) ([]byte, error)

	ready    bool
	teachers service.TeacherService
	years    service.AcademicYearService
	cloner   service.CloneService
	migrate  func(down bool, steps int) error

	closers []func()
}

func newApp(out io.Writer) *app {
	return &app{out: out, readPassword: term.ReadPassword}
}

// connect loads config and wires the services the same way the server does.
// Redis is used when reachable so year changes invalidate the server's cache.
func (a *app) connect() error {
	if a.ready {
		return nil
	}

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return err
	}
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() { sqlDB.Close() })

	deps := service.Deps{}
	if rdb, err := redis.NewClient(&cfg.Redis, logger); err == nil {
		deps.Cache = rdb
		a.closers = append(a.closers, func() { rdb.Close() })
	} else {
		logger.Warn("redis unavailable, the server may serve a stale current year until its cache expires", zap.Error(err))
	}

	svc := service.NewService(cfg, repository.NewRepository(db), jwt.NewManager(&cfg.Auth), deps, logger)
	a.teachers = svc.Teacher
	a.years = svc.AcademicYear
	a.cloner = svc.Clone
	a.migrate = func(down bool, steps int) error { return runMigrations(sqlDB, down, steps, logger) }
	a.ready = true
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func runMigrations(db *sql.DB, down bool, steps int, logger *zap.Logger) error {
	if down {
		return database.RollbackMigrations(db, steps, logger)
	}
	return database.RunMigrations(db, logger)
}
