package payment

import (
	"go-payday/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payments := r.Group("/payments")
	{
		payments.GET("", handler.GetAll)
		payments.GET("/:id", handler.GetByID)
		if redisClient != nil {
			payments.POST("", middleware.Idempotency(redisClient), handler.Create)
			payments.POST("/batch", middleware.Idempotency(redisClient), handler.BatchCreate)
		} else {
			payments.POST("", handler.Create)
			payments.POST("/batch", handler.BatchCreate)
		}
		payments.PUT("/:id", handler.Update)
		payments.DELETE("/:id", handler.Delete)
	}
}
