package app

import (
	"database/sql"
	"os"
	"time"

	"go-payday/internal/employee"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/payment"
	"go-payday/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) *scheduler.Loop {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	paymentRepo := payment.NewRepository(gormDB)
	schedulerRepo := scheduler.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	paymentService := payment.NewServiceWithOutbox(db, paymentRepo, employeeRepo, outboxRepo)
	schedulerService := scheduler.NewServiceWithOutbox(schedulerRepo, outboxRepo, logger)

	loop := scheduler.NewLoop(schedulerService, schedulerInterval(), logger)

	// --- Handlers ---
	paymentHandler := payment.NewHandlerWithRedis(paymentService, rdb)
	schedulerHandler := scheduler.NewHandler(schedulerService, loop)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		payment.RegisterRoutes(api, paymentHandler, rdb)
		scheduler.RegisterRoutes(api, schedulerHandler)
	}

	return loop
}

func schedulerInterval() time.Duration {
	raw := os.Getenv("SCHEDULER_INTERVAL")
	if raw == "" {
		return scheduler.DefaultInterval
	}

	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		zap.L().Warn("invalid SCHEDULER_INTERVAL, using default", zap.String("value", raw))
		return scheduler.DefaultInterval
	}

	return interval
}
