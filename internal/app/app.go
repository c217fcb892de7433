package app

import (
	"database/sql"
	"os"

	"go-payday/internal/employee"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/middleware"
	"go-payday/internal/payment"
	"go-payday/internal/scheduler"
	"go-payday/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App holds what the process entrypoint must manage after wiring:
// the scheduler lifecycle and the database handle.
type App struct {
	Loop *scheduler.Loop

	db *sql.DB
}

func (a *App) Close() {
	a.Loop.Stop()
	_ = a.db.Close()
}

func BuildApp(router *gin.Engine) (*App, error) {
	logger := zap.L()

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return nil, err
	}

	db, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := gormDB.AutoMigrate(
		&employee.Employee{},
		&payment.Payment{},
		&kafka.OutboxEventRecord{},
	); err != nil {
		return nil, err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return nil, err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.CompanyContext(logger))
	router.Use(middleware.RateLimitByIP(50, 100))

	loop := registerModules(router, db, gormDB, redisClient, logger)

	// The loop belongs to the process lifecycle: start it here, stop
	// it from main on shutdown.
	if os.Getenv("SCHEDULER_AUTOSTART") != "false" {
		loop.Start()
	}

	return &App{Loop: loop, db: db}, nil
}
